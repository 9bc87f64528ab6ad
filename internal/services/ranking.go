package services

import (
	"math"
	"sort"

	"alfredoptarigan/cv-screener/internal/models"
)

// Rank returns a copy of candidates ordered by match score, highest first.
// Equal scores keep their input order.
func Rank(candidates []models.RankedCandidate) []models.RankedCandidate {
	ranked := make([]models.RankedCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

// Summarize derives the batch statistics. Interview and consider verdicts
// both count as recommended.
func Summarize(candidates []models.RankedCandidate) models.BatchSummary {
	if len(candidates) == 0 {
		return models.BatchSummary{}
	}

	var summary models.BatchSummary
	total := 0
	for i, c := range candidates {
		if i == 0 || c.MatchScore > summary.TopScore {
			summary.TopScore = c.MatchScore
		}
		total += c.MatchScore
		if c.Recommendation.IsRecommended() {
			summary.RecommendedCandidates++
		}
	}
	summary.AverageScore = int(math.Round(float64(total) / float64(len(candidates))))
	return summary
}
