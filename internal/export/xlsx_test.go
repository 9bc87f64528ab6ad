package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/cv-screener/internal/models"
)

func sampleResult() models.ScreeningResult {
	processedAt := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	return models.ScreeningResult{
		Success:         true,
		BatchID:         "batch-1",
		JobTitle:        "Backend Engineer",
		TotalCandidates: 2,
		ProcessedAt:     processedAt,
		Summary:         models.BatchSummary{TopScore: 88, AverageScore: 57, RecommendedCandidates: 1},
		Results: []models.RankedCandidate{
			{
				ID: 2, Name: "Jane Doe", FileName: "jane.pdf", MatchScore: 88, SimilarityScore: 100,
				Recommendation: models.RecommendInterview, ExperienceLevel: models.LevelSenior, CulturalFit: models.FitHigh,
				Skills: []string{"Go", "gRPC"}, KeyStrengths: []string{"Go"}, PotentialConcerns: []string{},
				Summary: "Strong backend fit.",
			},
			{
				ID: 1, Name: "Bob Stone", FileName: "bob.pdf", MatchScore: 25,
				Recommendation: models.RecommendReject, ExperienceLevel: models.LevelUnknown, CulturalFit: models.FitMedium,
			},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResult()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{CandidatesSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, "Summary", rows[0][17])
	assert.Equal(t, []string{"1", "2", "Jane Doe", "jane.pdf", "88", "100", "interview", "senior", "high"}, rows[1][:9])
	assert.Equal(t, "Go, gRPC", rows[1][14])
	assert.Equal(t, "Strong backend fit.", rows[1][17])
	assert.Equal(t, []string{"2", "1", "Bob Stone", "bob.pdf", "25"}, rows[2][:5])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Job Title", "Backend Engineer"}, summary[0])
	assert.Equal(t, []string{"Processed At", "2026-03-01T12:30:00Z"}, summary[2])
	assert.Equal(t, []string{"Average Score", "57"}, summary[5])
	assert.Equal(t, []string{"Recommended Candidates", "1"}, summary[6])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cv-screening-20260301-123000.xlsx", FileName(sampleResult()))
}
