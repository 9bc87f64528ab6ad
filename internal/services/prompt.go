package services

import (
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/cv-screener/internal/models"
)

const (
	profileTextLimit  = 3000
	analysisTextLimit = 1500
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildProfileExtractionPrompt asks the model to read structured candidate
// fields out of résumé text.
func (pb *PromptBuilder) BuildProfileExtractionPrompt(cvText, fileName string) string {
	return fmt.Sprintf(`You are an expert resume parser. Extract the candidate's details from the resume text below.

FILE NAME: %s

RESUME TEXT:
%s

Return ONLY a JSON object with exactly these fields:
{
  "name": "<full name, or empty string if not found>",
  "email": "<email address or empty string>",
  "phone": "<phone number or empty string>",
  "currentTitle": "<most recent job title or empty string>",
  "experience": "<total years of experience, e.g. \"5 years\">",
  "location": "<city and country or empty string>",
  "skills": ["<skill>", "..."],
  "education": "<highest degree and institution or empty string>",
  "summary": "<2-3 sentence professional summary>"
}

Do not invent information that is not in the resume. Respond with the JSON object only, no markdown.`,
		fileName, truncate(cvText, profileTextLimit))
}

// BuildMatchAnalysisPrompt asks the model for a verdict on one candidate.
// guidelines may be empty.
func (pb *PromptBuilder) BuildMatchAnalysisPrompt(job models.Job, profile models.CandidateProfile, cvText string, similarity float64, guidelines string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert AI recruitment agent evaluating a candidate for a %s position.\n\n", job.Title)
	fmt.Fprintf(&sb, "JOB DESCRIPTION:\n%s\n\n", job.Description)

	if strings.TrimSpace(guidelines) != "" {
		fmt.Fprintf(&sb, "SCREENING GUIDELINES:\n%s\n\n", guidelines)
	}

	sb.WriteString("CANDIDATE PROFILE:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", profile.Name)
	fmt.Fprintf(&sb, "- Current Title: %s\n", profile.CurrentTitle)
	fmt.Fprintf(&sb, "- Experience: %s\n", profile.Experience)
	fmt.Fprintf(&sb, "- Location: %s\n", profile.Location)
	fmt.Fprintf(&sb, "- Skills: %s\n", strings.Join(profile.Skills, ", "))
	fmt.Fprintf(&sb, "- Education: %s\n", profile.Education)
	fmt.Fprintf(&sb, "- Summary: %s\n\n", profile.Summary)

	fmt.Fprintf(&sb, "RESUME EXCERPT:\n%s\n\n", truncate(cvText, analysisTextLimit))
	fmt.Fprintf(&sb, "SEMANTIC SIMILARITY TO JOB: %d%%\n\n", int(math.Round(similarity*100)))

	sb.WriteString(`Evaluate how well the candidate fits the role. Return ONLY a JSON object in this format:
{
  "matchScore": <integer 0-100>,
  "summary": "<2-3 sentence assessment of fit>",
  "keyStrengths": ["<strength relevant to the role>", "..."],
  "potentialConcerns": ["<gap or area to probe>", "..."],
  "recommendation": "<interview | consider | review | reject>",
  "technicalSkills": ["<relevant technical skill>", "..."],
  "experienceLevel": "<junior | mid | senior | lead>",
  "culturalFit": "<high | medium | low>",
  "reasoningExplanation": "<why this score was given>"
}

Use the similarity score as one signal among others. Respond with the JSON object only, no markdown.`)

	return sb.String()
}

// FormatRAGContext renders retrieved guideline chunks for prompt injection.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
