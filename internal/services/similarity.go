package services

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	similarityTextLimit = 2000
	fallbackSimilarity  = 0.5
)

// CosineSimilarity is dot(a,b)/(|a||b|). It is 0 when the vectors differ in
// length or either has zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityPercent converts a cosine score to an integer percentage in [0,100].
func SimilarityPercent(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return roundPercent(score * 100)
}

type SimilarityResult struct {
	// Scores is aligned by index with the candidate texts.
	Scores []float64
	// JobEmbedding is nil when scoring fell back.
	JobEmbedding []float32
	Fallback     bool
}

// SimilarityScorer compares the job text with each candidate text through
// embeddings. A nil embedding client disables scoring.
type SimilarityScorer struct {
	embeddings  EmbeddingClient
	concurrency int
	logger      *zap.Logger
}

func NewSimilarityScorer(embeddings EmbeddingClient, concurrency int, log *zap.Logger) *SimilarityScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SimilarityScorer{embeddings: embeddings, concurrency: concurrency, logger: log}
}

// Score embeds the job and all candidate texts concurrently. Any embedding
// failure yields the uniform 0.5 fallback for the whole batch.
func (s *SimilarityScorer) Score(ctx context.Context, jobText string, candidateTexts []string) SimilarityResult {
	if s.embeddings == nil {
		return uniformFallback(len(candidateTexts))
	}

	vectors := make([][]float32, len(candidateTexts)+1)
	texts := make([]string, 0, len(candidateTexts)+1)
	texts = append(texts, jobText)
	for _, t := range candidateTexts {
		texts = append(texts, truncate(t, similarityTextLimit))
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, text := range texts {
		g.Go(func() error {
			v, err := s.embeddings.GenerateEmbedding(gctx, text)
			if err != nil {
				return err
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("similarity scoring fell back to uniform scores",
			zap.Int("candidates", len(candidateTexts)),
			zap.Error(err),
		)
		return uniformFallback(len(candidateTexts))
	}

	scores := make([]float64, len(candidateTexts))
	for i := range candidateTexts {
		scores[i] = CosineSimilarity(vectors[0], vectors[i+1])
	}
	return SimilarityResult{Scores: scores, JobEmbedding: vectors[0]}
}

func uniformFallback(n int) SimilarityResult {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = fallbackSimilarity
	}
	return SimilarityResult{Scores: scores, Fallback: true}
}
