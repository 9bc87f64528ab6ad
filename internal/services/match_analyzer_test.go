package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
)

var analystProfile = models.CandidateProfile{
	Name:   "Jane Doe",
	Skills: []string{"Go", "PostgreSQL", "Kubernetes", "gRPC"},
}

const verdictJSON = `{
  "matchScore": 88,
  "summary": "Strong backend fit.",
  "keyStrengths": ["Go expertise", "Distributed systems"],
  "potentialConcerns": ["Limited frontend work"],
  "recommendation": "interview",
  "technicalSkills": ["Go", "PostgreSQL"],
  "experienceLevel": "senior",
  "culturalFit": "high",
  "reasoningExplanation": "Seven years of relevant Go experience."
}`

func TestMatchAnalyzerParsesVerdict(t *testing.T) {
	stub := (&stubCompletion{}).on("recruitment agent", verdictJSON, nil)

	got, err := NewMatchAnalyzer(stub, nil).Analyze(context.Background(), AnalysisInput{
		Job:        models.Job{Title: "Backend Engineer", Description: "Go"},
		Profile:    analystProfile,
		Similarity: 0.8,
	})

	require.NoError(t, err)
	assert.Equal(t, 88, got.MatchScore)
	assert.Equal(t, models.RecommendInterview, got.Recommendation)
	assert.Equal(t, models.LevelSenior, got.ExperienceLevel)
	assert.Equal(t, models.FitHigh, got.CulturalFit)
	assert.Equal(t, []string{"Limited frontend work"}, got.PotentialConcerns)
	assert.Contains(t, stub.prompts[0], "SEMANTIC SIMILARITY TO JOB: 80%")
}

func TestParseAnalysisNormalizesValues(t *testing.T) {
	got, err := ParseAnalysis(`{"matchScore": "140", "recommendation": "Strong Hire", "experienceLevel": "Principal", "culturalFit": "HIGH"}`, analystProfile)

	require.NoError(t, err)
	assert.Equal(t, 100, got.MatchScore)
	assert.Equal(t, models.RecommendConsider, got.Recommendation)
	assert.Equal(t, models.LevelUnknown, got.ExperienceLevel)
	assert.Equal(t, models.FitHigh, got.CulturalFit)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, got.KeyStrengths)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, got.TechnicalSkills)
	assert.Equal(t, []string{}, got.PotentialConcerns)
}

func TestParseAnalysisClampsNegativeAndRounds(t *testing.T) {
	got, err := ParseAnalysis(`{"matchScore": -12}`, models.CandidateProfile{})
	require.NoError(t, err)
	assert.Equal(t, 0, got.MatchScore)
	assert.Equal(t, []string{}, got.KeyStrengths)

	got, err = ParseAnalysis(`{"matchScore": 72.5}`, models.CandidateProfile{})
	require.NoError(t, err)
	assert.Equal(t, 73, got.MatchScore)

	for _, raw := range []string{`{"matchScore": 1e300}`, `{"matchScore": 1e19}`, `{"matchScore": "Infinity"}`} {
		got, err = ParseAnalysis(raw, models.CandidateProfile{})
		require.NoError(t, err, raw)
		assert.Equal(t, 100, got.MatchScore, raw)
		assert.NotEqual(t, models.RecommendReject, got.Recommendation, raw)
	}
}

func TestParseAnalysisRequiresScore(t *testing.T) {
	_, err := ParseAnalysis(`{"summary": "no score"}`, analystProfile)
	assert.ErrorIs(t, err, ErrMalformedModelResponse)
}

func TestMatchAnalyzerFallsBackOnFailure(t *testing.T) {
	stub := (&stubCompletion{}).on("recruitment agent", "", ErrExternalService)

	got, err := NewMatchAnalyzer(stub, nil).Analyze(context.Background(), AnalysisInput{
		Profile:    analystProfile,
		Similarity: 0.8,
	})

	assert.ErrorIs(t, err, ErrExternalService)
	assert.Equal(t, FallbackAnalysis(analystProfile, 0.8), got)
	assert.Equal(t, 85, got.MatchScore)
	assert.Equal(t, models.RecommendConsider, got.Recommendation)
}

func TestFallbackScoreFormula(t *testing.T) {
	for _, s := range []float64{-1, -0.5, -0.34, 0, 0.1, 0.33, 0.5, 0.7333, 0.9, 1, 1.5} {
		want := int(math.Round(s*75 + 25))
		want = max(0, min(100, want))
		assert.Equal(t, want, FallbackScore(s), "similarity %v", s)
	}
	assert.Equal(t, 63, FallbackScore(0.5))
	assert.Equal(t, 100, FallbackScore(1))
	assert.Equal(t, 25, FallbackScore(0))
	assert.Equal(t, 100, FallbackScore(1e300))
	assert.Equal(t, 0, FallbackScore(math.Inf(-1)))
}

func TestFallbackIsReproducibleFromSimilarity(t *testing.T) {
	a := FallbackAnalysis(models.CandidateProfile{Skills: []string{"Go"}}, 0.42)
	b := FallbackAnalysis(models.CandidateProfile{Name: "Other", Skills: []string{"Rust"}}, 0.42)

	assert.Equal(t, a.MatchScore, b.MatchScore)
	assert.Equal(t, a.Recommendation, b.Recommendation)
}

func TestRecommendationForScore(t *testing.T) {
	assert.Equal(t, models.RecommendConsider, RecommendationForScore(80))
	assert.Equal(t, models.RecommendReview, RecommendationForScore(79))
	assert.Equal(t, models.RecommendReview, RecommendationForScore(60))
	assert.Equal(t, models.RecommendReject, RecommendationForScore(59))
}
