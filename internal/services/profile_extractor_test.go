package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompletion answers prompts with the first rule whose marker appears in
// the prompt.
type stubCompletion struct {
	mu      sync.Mutex
	rules   []completionRule
	prompts []string
}

type completionRule struct {
	marker   string
	response string
	err      error
}

func (s *stubCompletion) on(marker, response string, err error) *stubCompletion {
	s.rules = append(s.rules, completionRule{marker: marker, response: response, err: err})
	return s
}

func (s *stubCompletion) GenerateText(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	for _, r := range s.rules {
		if strings.Contains(prompt, r.marker) {
			return r.response, r.err
		}
	}
	return "", errors.New("no stub for prompt")
}

const janeProfileJSON = "```json\n" + `{
  "name": "Jane Doe",
  "email": "jane@example.com",
  "phone": "+1 555 0100",
  "currentTitle": "Senior Backend Engineer",
  "experience": 7,
  "location": "Berlin, Germany",
  "skills": ["Go", "PostgreSQL", "Kubernetes", "gRPC"],
  "education": "BSc Computer Science",
  "summary": "Backend engineer focused on distributed systems."
}` + "\n```"

func TestProfileExtractorParsesResponse(t *testing.T) {
	stub := (&stubCompletion{}).on("resume parser", janeProfileJSON, nil)

	profile, err := NewProfileExtractor(stub, nil).Extract(context.Background(), "resume text", "jane.pdf")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "7", profile.Experience)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes", "gRPC"}, profile.Skills)
}

func TestProfileExtractorBackfillsName(t *testing.T) {
	stub := (&stubCompletion{}).on("resume parser", `{"name": "", "skills": "Go, SQL"}`, nil)

	profile, err := NewProfileExtractor(stub, nil).Extract(context.Background(), "text", "john-smith.pdf")

	require.NoError(t, err)
	assert.Equal(t, "John Smith", profile.Name)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
}

func TestProfileExtractorFallsBackOnServiceError(t *testing.T) {
	stub := (&stubCompletion{}).on("resume parser", "", ErrExternalService)

	profile, err := NewProfileExtractor(stub, nil).Extract(context.Background(), "text", "maria_garcia.pdf")

	assert.ErrorIs(t, err, ErrExternalService)
	assert.Equal(t, DefaultProfile("maria_garcia.pdf"), profile)
	assert.Equal(t, "Maria Garcia", profile.Name)
	assert.Equal(t, "Not specified", profile.Experience)
	assert.Contains(t, profile.Summary, "failed")
}

func TestProfileExtractorFallsBackOnMalformedResponse(t *testing.T) {
	stub := (&stubCompletion{}).on("resume parser", "I could not find any details.", nil)

	profile, err := NewProfileExtractor(stub, nil).Extract(context.Background(), "text", "x.pdf")

	assert.ErrorIs(t, err, ErrMalformedModelResponse)
	assert.Equal(t, "Not specified", profile.Experience)
	assert.NotNil(t, profile.Skills)
}

func TestParseProfileDefaultsMissingFields(t *testing.T) {
	profile, err := ParseProfile(`{"name": "Ana"}`)

	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	assert.Empty(t, profile.Email)
	assert.Equal(t, []string{}, profile.Skills)
}
