// Package report renders ranking outcomes for people and for other tools.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-ranker/internal/pipeline"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/utils"
)

type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
	XLSX  Format = "xlsx"
)

var Formats = []Format{Table, JSON, YAML, XLSX}

var ErrUnknownFormat = errors.New("unknown report format")

// maxErrorLength bounds extraction errors shown in a table cell.
const maxErrorLength = 60

// ParseFormat accepts a format name case-insensitively. Empty means Table.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Table, nil
	}

	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Report is the rendered view of one ranking request.
type Report struct {
	Status         pipeline.Status  `json:"status" yaml:"status"`
	Documents      int              `json:"documents" yaml:"documents"`
	Failures       int              `json:"failures" yaml:"failures"`
	VocabularySize int              `json:"vocabulary_size" yaml:"vocabulary_size"`
	Results        []ranking.Result `json:"results" yaml:"results"`
}

// New builds a Report from an outcome and the results left after filtering.
// A nil results value reports every ranked document.
func New(outcome *pipeline.Outcome, results *ranking.Results) Report {
	if outcome == nil {
		return Report{Status: pipeline.StatusNoInput, Results: []ranking.Result{}}
	}

	items := outcome.Results
	if results != nil {
		items = results.Items
	}
	if items == nil {
		items = []ranking.Result{}
	}

	return Report{
		Status:         outcome.Status,
		Documents:      len(outcome.Results),
		Failures:       outcome.Failures,
		VocabularySize: outcome.VocabularySize,
		Results:        items,
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case Table, "":
		return WriteTable(w, r)
	case JSON:
		return WriteJSON(w, r)
	case YAML:
		return WriteYAML(w, r)
	case XLSX:
		return WriteXLSX(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}

// WriteTable renders an aligned table followed by a one-line summary.
func WriteTable(w io.Writer, r Report) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Document", "Score", "Format", "Status"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, result := range r.Results {
		table.Append([]string{
			strconv.Itoa(result.Rank),
			result.Name,
			fmt.Sprintf("%.4f", result.Score),
			string(result.Format),
			resultStatus(result),
		})
	}

	table.Render()

	_, err := fmt.Fprintf(w, "status: %s, documents: %d, extraction failures: %d, vocabulary: %d\n",
		r.Status, r.Documents, r.Failures, r.VocabularySize)
	return err
}

func resultStatus(result ranking.Result) string {
	if !result.Extracted {
		return "failed: " + utils.TruncateForLog(result.Error, maxErrorLength)
	}
	if len(result.MatchedTerms) > 0 {
		return "ok (" + strings.Join(result.MatchedTerms, ", ") + ")"
	}
	return "ok"
}
