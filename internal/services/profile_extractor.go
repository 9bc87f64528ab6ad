package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
)

// profileWire is the loosely typed shape the model is asked to emit.
type profileWire struct {
	Name         any `json:"name"`
	Email        any `json:"email"`
	Phone        any `json:"phone"`
	CurrentTitle any `json:"currentTitle"`
	Experience   any `json:"experience"`
	Location     any `json:"location"`
	Skills       any `json:"skills"`
	Education    any `json:"education"`
	Summary      any `json:"summary"`
}

// ProfileExtractor turns résumé text into a CandidateProfile with one
// completion call.
type ProfileExtractor struct {
	completion CompletionClient
	prompts    *PromptBuilder
	logger     *zap.Logger
}

func NewProfileExtractor(completion CompletionClient, log *zap.Logger) *ProfileExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileExtractor{
		completion: completion,
		prompts:    NewPromptBuilder(),
		logger:     log,
	}
}

// Extract returns the parsed profile, or the default profile together with
// the error that caused the fallback. The returned profile is always usable.
func (p *ProfileExtractor) Extract(ctx context.Context, text, fileName string) (models.CandidateProfile, error) {
	prompt := p.prompts.BuildProfileExtractionPrompt(text, fileName)

	p.logger.Debug("profile extraction request",
		zap.String("file", fileName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := p.completion.GenerateText(ctx, prompt)
	if err != nil {
		return DefaultProfile(fileName), err
	}

	profile, err := ParseProfile(raw)
	if err != nil {
		p.logger.Warn("unparseable profile response",
			zap.String("file", fileName),
			zap.String("response_preview", logger.TruncateForLog(raw, 200)),
			zap.Error(err),
		)
		return DefaultProfile(fileName), err
	}

	if profile.Name == "" {
		profile.Name = NameFromFileName(fileName)
	}
	return profile, nil
}

// ParseProfile validates model output against the profile schema.
func ParseProfile(raw string) (models.CandidateProfile, error) {
	var wire profileWire
	if err := DecodeModelJSON(raw, &wire); err != nil {
		return models.CandidateProfile{}, fmt.Errorf("parse profile: %w", err)
	}

	skills := coerceStringSlice(wire.Skills)
	if skills == nil {
		skills = []string{}
	}

	return models.CandidateProfile{
		Name:         coerceString(wire.Name),
		Email:        coerceString(wire.Email),
		Phone:        coerceString(wire.Phone),
		CurrentTitle: coerceString(wire.CurrentTitle),
		Experience:   coerceString(wire.Experience),
		Location:     coerceString(wire.Location),
		Skills:       skills,
		Education:    coerceString(wire.Education),
		Summary:      coerceString(wire.Summary),
	}, nil
}

// DefaultProfile is used when the model could not produce a profile.
func DefaultProfile(fileName string) models.CandidateProfile {
	return models.CandidateProfile{
		Name:       NameFromFileName(fileName),
		Experience: "Not specified",
		Skills:     []string{},
		Summary:    "Profile extraction failed; details could not be read from this resume.",
	}
}
