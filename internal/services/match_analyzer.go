package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
)

type analysisWire struct {
	MatchScore           any `json:"matchScore"`
	Summary              any `json:"summary"`
	KeyStrengths         any `json:"keyStrengths"`
	PotentialConcerns    any `json:"potentialConcerns"`
	Recommendation       any `json:"recommendation"`
	TechnicalSkills      any `json:"technicalSkills"`
	ExperienceLevel      any `json:"experienceLevel"`
	CulturalFit          any `json:"culturalFit"`
	ReasoningExplanation any `json:"reasoningExplanation"`
}

// AnalysisInput is everything the analyzer needs for one candidate.
type AnalysisInput struct {
	Job        models.Job
	Profile    models.CandidateProfile
	Text       string
	Similarity float64
	Guidelines string
}

type MatchAnalyzer struct {
	completion CompletionClient
	prompts    *PromptBuilder
	logger     *zap.Logger
}

func NewMatchAnalyzer(completion CompletionClient, log *zap.Logger) *MatchAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MatchAnalyzer{
		completion: completion,
		prompts:    NewPromptBuilder(),
		logger:     log,
	}
}

// Analyze returns the model verdict, or the deterministic fallback analysis
// together with the error that caused it.
func (a *MatchAnalyzer) Analyze(ctx context.Context, in AnalysisInput) (models.MatchAnalysis, error) {
	prompt := a.prompts.BuildMatchAnalysisPrompt(in.Job, in.Profile, in.Text, in.Similarity, in.Guidelines)

	raw, err := a.completion.GenerateText(ctx, prompt)
	if err != nil {
		return FallbackAnalysis(in.Profile, in.Similarity), err
	}

	analysis, err := ParseAnalysis(raw, in.Profile)
	if err != nil {
		a.logger.Warn("unparseable analysis response",
			zap.String("candidate", in.Profile.Name),
			zap.String("response_preview", logger.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return FallbackAnalysis(in.Profile, in.Similarity), err
	}
	return analysis, nil
}

// ParseAnalysis validates model output against the analysis schema and
// normalizes it: the score is clamped to [0,100], unknown enum values are
// replaced and missing lists are filled from the profile.
func ParseAnalysis(raw string, profile models.CandidateProfile) (models.MatchAnalysis, error) {
	var wire analysisWire
	if err := DecodeModelJSON(raw, &wire); err != nil {
		return models.MatchAnalysis{}, fmt.Errorf("parse analysis: %w", err)
	}

	score := coerceNumber(wire.MatchScore)
	if math.IsNaN(score) {
		return models.MatchAnalysis{}, fmt.Errorf("parse analysis: %w: matchScore missing or not a number", ErrMalformedModelResponse)
	}
	matchScore := roundPercent(score)

	topSkills := firstN(profile.Skills, 3)

	keyStrengths := coerceStringSlice(wire.KeyStrengths)
	if keyStrengths == nil {
		keyStrengths = topSkills
	}
	technicalSkills := coerceStringSlice(wire.TechnicalSkills)
	if technicalSkills == nil {
		technicalSkills = topSkills
	}
	concerns := coerceStringSlice(wire.PotentialConcerns)
	if concerns == nil {
		concerns = []string{}
	}

	return models.MatchAnalysis{
		MatchScore:           matchScore,
		Summary:              coerceString(wire.Summary),
		KeyStrengths:         keyStrengths,
		PotentialConcerns:    concerns,
		Recommendation:       parseRecommendation(coerceString(wire.Recommendation), matchScore),
		TechnicalSkills:      technicalSkills,
		ExperienceLevel:      parseExperienceLevel(coerceString(wire.ExperienceLevel)),
		CulturalFit:          parseCulturalFit(coerceString(wire.CulturalFit)),
		ReasoningExplanation: coerceString(wire.ReasoningExplanation),
	}, nil
}

// FallbackScore is clamp(round(s*75+25), 0, 100).
func FallbackScore(similarity float64) int {
	if math.IsNaN(similarity) {
		similarity = fallbackSimilarity
	}
	return roundPercent(similarity*75 + 25)
}

// RecommendationForScore maps a score onto the fallback verdict thresholds.
func RecommendationForScore(score int) models.Recommendation {
	switch {
	case score >= 80:
		return models.RecommendConsider
	case score >= 60:
		return models.RecommendReview
	default:
		return models.RecommendReject
	}
}

// FallbackAnalysis is derived from the similarity score alone; the profile
// only contributes skill lists.
func FallbackAnalysis(profile models.CandidateProfile, similarity float64) models.MatchAnalysis {
	score := FallbackScore(similarity)
	topSkills := firstN(profile.Skills, 3)

	return models.MatchAnalysis{
		MatchScore:           score,
		Summary:              fmt.Sprintf("AI analysis unavailable. Score estimated from a %d%% semantic similarity to the job description.", SimilarityPercent(similarity)),
		KeyStrengths:         topSkills,
		PotentialConcerns:    []string{"AI analysis unavailable - manual review recommended"},
		Recommendation:       RecommendationForScore(score),
		TechnicalSkills:      topSkills,
		ExperienceLevel:      models.LevelUnknown,
		CulturalFit:          models.FitMedium,
		ReasoningExplanation: "Fallback scoring: round(similarity * 75 + 25).",
	}
}

func parseRecommendation(v string, score int) models.Recommendation {
	switch r := models.Recommendation(strings.ToLower(v)); r {
	case models.RecommendInterview, models.RecommendConsider, models.RecommendReview, models.RecommendReject:
		return r
	default:
		return RecommendationForScore(score)
	}
}

func parseExperienceLevel(v string) models.ExperienceLevel {
	switch l := models.ExperienceLevel(strings.ToLower(v)); l {
	case models.LevelJunior, models.LevelMid, models.LevelSenior, models.LevelLead:
		return l
	default:
		return models.LevelUnknown
	}
}

func parseCulturalFit(v string) models.CulturalFit {
	switch f := models.CulturalFit(strings.ToLower(v)); f {
	case models.FitHigh, models.FitMedium, models.FitLow:
		return f
	default:
		return models.FitMedium
	}
}

func firstN(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, item := range items {
		if len(out) == n {
			break
		}
		out = append(out, item)
	}
	return out
}
