package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/pipeline"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/report"
)

func TestDecodeDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		expect  []DocumentConfig
		wantErr bool
	}{
		{
			name: "nil",
			raw:  nil,
		},
		{
			name: "plain paths and entries",
			raw: []any{
				"cv/alice.pdf",
				map[string]any{"path": "cv/bob", "format": "docx"},
				map[string]any{"path": "cv/carol.txt", "format": "text/plain; charset=utf-8"},
				map[string]any{"path": "cv/dave.odt", "format": "odt"},
				map[string]any{"path": "cv/erin.pdf"},
			},
			expect: []DocumentConfig{
				{Path: "cv/alice.pdf"},
				{Path: "cv/bob", Format: document.DOCX},
				{Path: "cv/carol.txt", Format: document.PlainText},
				{Path: "cv/dave.odt", Format: document.Format("ODT")},
				{Path: "cv/erin.pdf"},
			},
		},
		{
			name:    "unknown key",
			raw:     []any{map[string]any{"path": "a.pdf", "kind": "pdf"}},
			wantErr: true,
		},
		{
			name:    "missing path",
			raw:     []any{map[string]any{"format": "pdf"}},
			wantErr: true,
		},
		{
			name:    "not a list",
			raw:     map[string]any{"path": "a.pdf"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := decodeDocuments(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %+v, got %+v", tt.expect, got)
			}
		})
	}
}

func TestLoadDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	other := filepath.Join(dir, "other")
	if err := os.Mkdir(other, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files := map[string]string{
		filepath.Join(dir, "cv.txt"):    "go developer",
		filepath.Join(other, "cv.txt"):  "rust developer",
		filepath.Join(dir, "resume"):    "python developer",
		filepath.Join(dir, "notes.pdf"): "not really a pdf",
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	config := &Config{Documents: []DocumentConfig{
		{Path: filepath.Join(dir, "resume"), Format: document.PlainText},
	}}

	docs, err := loadDocuments(config, []string{
		filepath.Join(dir, "cv.txt"),
		filepath.Join(other, "cv.txt"),
		filepath.Join(dir, "notes.pdf"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(docs.Names(), []string{"resume", "cv.txt", "cv (2).txt", "notes.pdf"}) {
		t.Fatalf("unexpected names: %v", docs.Names())
	}
	if docs.Items[0].Format != document.PlainText || docs.Items[3].Format != document.PDF {
		t.Fatalf("unexpected formats: %s, %s", docs.Items[0].Format, docs.Items[3].Format)
	}
	if string(docs.FindByName("cv (2).txt").Data) != "rust developer" {
		t.Fatalf("unexpected content of renamed document")
	}

	if _, err := loadDocuments(&Config{}, nil); err == nil {
		t.Fatalf("expected error without documents")
	}
	if _, err := loadDocuments(&Config{}, []string{filepath.Join(dir, "missing.pdf")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFilterAndOutputConfig(t *testing.T) {
	t.Parallel()

	if got := filterConfig(&Config{}); !reflect.DeepEqual(got, &filtering.Config{}) {
		t.Fatalf("expected zero filter config, got %+v", got)
	}

	cfg := &Config{
		Filters: &FiltersConfig{Exclude: []string{"a.pdf"}, MinimumScore: 0.2, Top: 3},
		Output:  &OutputConfig{Format: "json", File: "out.json"},
	}

	got := filterConfig(cfg)
	if got.Top != 3 || got.MinimumScore != 0.2 || !reflect.DeepEqual(got.Exclude, []string{"a.pdf"}) {
		t.Fatalf("unexpected filter config: %+v", got)
	}

	if out := outputConfig(cfg); out.Format != "json" || out.File != "out.json" {
		t.Fatalf("unexpected output config: %+v", out)
	}
	if out := outputConfig(&Config{}); out != (OutputConfig{}) {
		t.Fatalf("expected zero output config, got %+v", out)
	}
}

func TestHandleAction(t *testing.T) {
	t.Parallel()

	outcome := &pipeline.Outcome{
		Status:  pipeline.StatusRanked,
		Results: []ranking.Result{{Name: "cv.pdf", Score: 0.5, Rank: 1, Extracted: true}},
	}
	results := ranking.NewResults(outcome.Results)
	docs := &document.Documents{}
	rep := report.New(outcome, results)

	if err := handleAction(PromptExit, zap.NewNop(), outcome, docs, results, rep); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if err := handleAction("unknown", zap.NewNop(), outcome, docs, results, rep); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestWriteReportToFile(t *testing.T) {
	t.Parallel()

	rep := report.Report{
		Status:  pipeline.StatusRanked,
		Results: []ranking.Result{{Name: "cv.pdf", Score: 0.5, Rank: 1, Extracted: true}},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := writeReport(report.JSON, path, rep, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !reflect.DeepEqual(decoded, rep) {
		t.Fatalf("expected %+v, got %+v", rep, decoded)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "resume-ranker version: ") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
