package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/cv-screener/internal/models"
)

func TestBuildProfileExtractionPromptTruncatesText(t *testing.T) {
	text := strings.Repeat("a", profileTextLimit) + "TAIL"

	prompt := NewPromptBuilder().BuildProfileExtractionPrompt(text, "cv.pdf")

	assert.Contains(t, prompt, "cv.pdf")
	assert.NotContains(t, prompt, "TAIL")
	assert.Contains(t, prompt, `"currentTitle"`)
}

func TestBuildMatchAnalysisPrompt(t *testing.T) {
	job := models.Job{Title: "Backend Engineer", Description: "Build Go services."}
	profile := models.CandidateProfile{Name: "Jane Doe", Skills: []string{"Go", "Postgres"}}
	text := strings.Repeat("b", analysisTextLimit) + "TAIL"

	prompt := NewPromptBuilder().BuildMatchAnalysisPrompt(job, profile, text, 0.736, "")

	assert.Contains(t, prompt, "Backend Engineer position")
	assert.Contains(t, prompt, "Build Go services.")
	assert.Contains(t, prompt, "Skills: Go, Postgres")
	assert.Contains(t, prompt, "SEMANTIC SIMILARITY TO JOB: 74%")
	assert.NotContains(t, prompt, "TAIL")
	assert.NotContains(t, prompt, "SCREENING GUIDELINES")
}

func TestBuildMatchAnalysisPromptIncludesGuidelines(t *testing.T) {
	prompt := NewPromptBuilder().BuildMatchAnalysisPrompt(models.Job{Title: "SRE"}, models.CandidateProfile{}, "", 0.5, "Prefer on-call experience.")

	assert.Contains(t, prompt, "SCREENING GUIDELINES:\nPrefer on-call experience.")
}

func TestFormatRAGContext(t *testing.T) {
	assert.Empty(t, FormatRAGContext(nil))

	got := FormatRAGContext([]SearchResult{{Score: 0.91, Text: " first "}, {Score: 0.5, Text: "second"}})
	assert.Equal(t, "--- Guideline 1 (Score: 0.91) ---\nfirst\n\n--- Guideline 2 (Score: 0.50) ---\nsecond", got)
}
