package models

// Job is the position candidates are screened against.
type Job struct {
	Title       string `json:"jobTitle"`
	Description string `json:"jobDescription"`
}

// Text is the job as one block of text, used for embeddings.
func (j Job) Text() string {
	return j.Title + "\n" + j.Description
}

// UploadedDocument lives only for the duration of a screening request.
type UploadedDocument struct {
	FileName    string
	ContentType string
	Raw         []byte
}

type CandidateProfile struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	CurrentTitle string   `json:"currentTitle"`
	Experience   string   `json:"experience"`
	Location     string   `json:"location"`
	Skills       []string `json:"skills"`
	Education    string   `json:"education"`
	Summary      string   `json:"summary"`
}

type Recommendation string

const (
	RecommendInterview Recommendation = "interview"
	RecommendConsider  Recommendation = "consider"
	RecommendReview    Recommendation = "review"
	RecommendReject    Recommendation = "reject"
)

// IsRecommended reports whether the verdict counts toward
// BatchSummary.RecommendedCandidates.
func (r Recommendation) IsRecommended() bool {
	return r == RecommendInterview || r == RecommendConsider
}

type ExperienceLevel string

const (
	LevelJunior  ExperienceLevel = "junior"
	LevelMid     ExperienceLevel = "mid"
	LevelSenior  ExperienceLevel = "senior"
	LevelLead    ExperienceLevel = "lead"
	LevelUnknown ExperienceLevel = "unknown"
)

type CulturalFit string

const (
	FitHigh   CulturalFit = "high"
	FitMedium CulturalFit = "medium"
	FitLow    CulturalFit = "low"
)

type MatchAnalysis struct {
	MatchScore           int             `json:"matchScore"`
	Summary              string          `json:"summary"`
	KeyStrengths         []string        `json:"keyStrengths"`
	PotentialConcerns    []string        `json:"potentialConcerns"`
	Recommendation       Recommendation  `json:"recommendation"`
	TechnicalSkills      []string        `json:"technicalSkills"`
	ExperienceLevel      ExperienceLevel `json:"experienceLevel"`
	CulturalFit          CulturalFit     `json:"culturalFit"`
	ReasoningExplanation string          `json:"reasoningExplanation"`
}
