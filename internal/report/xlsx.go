package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

// WriteXLSX writes a workbook with the ranked results and a summary sheet.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("naming results sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	headers := []any{"Rank", "Document", "Score", "Format", "Extracted", "Matched Terms", "Error"}
	if err := f.SetSheetRow(ResultsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, result := range r.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := []any{
			result.Rank,
			result.Name,
			result.Score,
			string(result.Format),
			result.Extracted,
			strings.Join(result.MatchedTerms, ", "),
			result.Error,
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(ResultsSheet, "A", "A", 6)
	_ = f.SetColWidth(ResultsSheet, "B", "B", 40)
	_ = f.SetColWidth(ResultsSheet, "C", "E", 12)
	_ = f.SetColWidth(ResultsSheet, "F", "F", 40)
	_ = f.SetColWidth(ResultsSheet, "G", "G", 60)

	summary := [][]any{
		{"Status", string(r.Status)},
		{"Documents", r.Documents},
		{"Extraction failures", r.Failures},
		{"Vocabulary size", r.VocabularySize},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 22)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	return nil
}
