package models

import "time"

// FallbackFlags records which pipeline stages substituted deterministic
// values for a model answer.
type FallbackFlags struct {
	Profile    bool `json:"profile"`
	Similarity bool `json:"similarity"`
	Analysis   bool `json:"analysis"`
}

// RankedCandidate flattens profile and analysis into one record. The
// analysis summary owns the "summary" key; the profile summary is kept
// under "profileSummary".
type RankedCandidate struct {
	ID              int       `json:"id"`
	FileName        string    `json:"fileName"`
	PageCount       int       `json:"pageCount"`
	SimilarityScore int       `json:"similarityScore"`
	ProcessedAt     time.Time `json:"processedAt"`

	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	CurrentTitle   string   `json:"currentTitle"`
	Experience     string   `json:"experience"`
	Location       string   `json:"location"`
	Skills         []string `json:"skills"`
	Education      string   `json:"education"`
	ProfileSummary string   `json:"profileSummary"`

	MatchScore           int             `json:"matchScore"`
	Summary              string          `json:"summary"`
	KeyStrengths         []string        `json:"keyStrengths"`
	PotentialConcerns    []string        `json:"potentialConcerns"`
	Recommendation       Recommendation  `json:"recommendation"`
	TechnicalSkills      []string        `json:"technicalSkills"`
	ExperienceLevel      ExperienceLevel `json:"experienceLevel"`
	CulturalFit          CulturalFit     `json:"culturalFit"`
	ReasoningExplanation string          `json:"reasoningExplanation"`

	Fallback FallbackFlags `json:"fallback"`
}

// NewRankedCandidate merges the outputs of the pipeline stages for one document.
func NewRankedCandidate(id int, fileName string, profile CandidateProfile, analysis MatchAnalysis, similarityPercent int, processedAt time.Time) RankedCandidate {
	return RankedCandidate{
		ID:              id,
		FileName:        fileName,
		SimilarityScore: similarityPercent,
		ProcessedAt:     processedAt,

		Name:           profile.Name,
		Email:          profile.Email,
		Phone:          profile.Phone,
		CurrentTitle:   profile.CurrentTitle,
		Experience:     profile.Experience,
		Location:       profile.Location,
		Skills:         profile.Skills,
		Education:      profile.Education,
		ProfileSummary: profile.Summary,

		MatchScore:           analysis.MatchScore,
		Summary:              analysis.Summary,
		KeyStrengths:         analysis.KeyStrengths,
		PotentialConcerns:    analysis.PotentialConcerns,
		Recommendation:       analysis.Recommendation,
		TechnicalSkills:      analysis.TechnicalSkills,
		ExperienceLevel:      analysis.ExperienceLevel,
		CulturalFit:          analysis.CulturalFit,
		ReasoningExplanation: analysis.ReasoningExplanation,
	}
}

type BatchSummary struct {
	TopScore              int `json:"topScore"`
	AverageScore          int `json:"averageScore"`
	RecommendedCandidates int `json:"recommendedCandidates"`
}

type ScreeningResult struct {
	Success         bool              `json:"success"`
	BatchID         string            `json:"batchId"`
	JobTitle        string            `json:"jobTitle"`
	Results         []RankedCandidate `json:"results"`
	TotalCandidates int               `json:"totalCandidates"`
	ProcessedAt     time.Time         `json:"processedAt"`
	Summary         BatchSummary      `json:"summary"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
