package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/cv-screener/internal/models"
)

const (
	CandidatesSheet = "Candidates"
	SummarySheet    = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var candidateHeader = []any{
	"Rank", "ID", "Name", "File", "Match Score", "Similarity %", "Recommendation",
	"Experience Level", "Cultural Fit", "Current Title", "Experience", "Email",
	"Phone", "Location", "Skills", "Key Strengths", "Potential Concerns", "Summary",
}

// WriteXLSX writes the ranked batch as a workbook with a Candidates sheet in
// rank order and a Summary sheet.
func WriteXLSX(w io.Writer, result models.ScreeningResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CandidatesSheet); err != nil {
		return fmt.Errorf("failed to name candidates sheet: %w", err)
	}
	if err := writeCandidates(f, result.Results); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, result); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// FileName is the suggested download name for a batch export.
func FileName(result models.ScreeningResult) string {
	ts := result.ProcessedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return fmt.Sprintf("cv-screening-%s.xlsx", ts.Format("20060102-150405"))
}

func writeCandidates(f *excelize.File, candidates []models.RankedCandidate) error {
	if err := f.SetSheetRow(CandidatesSheet, "A1", &candidateHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, c := range candidates {
		row := []any{
			i + 1,
			c.ID,
			c.Name,
			c.FileName,
			c.MatchScore,
			c.SimilarityScore,
			string(c.Recommendation),
			string(c.ExperienceLevel),
			string(c.CulturalFit),
			c.CurrentTitle,
			c.Experience,
			c.Email,
			c.Phone,
			c.Location,
			strings.Join(c.Skills, ", "),
			strings.Join(c.KeyStrengths, "; "),
			strings.Join(c.PotentialConcerns, "; "),
			c.Summary,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(CandidatesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write candidate %d: %w", c.ID, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(CandidatesSheet, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "C", "D", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "O", "R", 48); err != nil {
		return err
	}
	return f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, result models.ScreeningResult) error {
	rows := [][]any{
		{"Job Title", result.JobTitle},
		{"Batch ID", result.BatchID},
		{"Processed At", result.ProcessedAt.UTC().Format(time.RFC3339)},
		{"Total Candidates", result.TotalCandidates},
		{"Top Score", result.Summary.TopScore},
		{"Average Score", result.Summary.AverageScore},
		{"Recommended Candidates", result.Summary.RecommendedCandidates},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 30)
}
