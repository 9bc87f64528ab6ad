package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/models"
)

const defaultConcurrency = 4

// PageCounter reports the number of pages of a raw PDF, 0 when unknown.
type PageCounter interface {
	PageCount(raw []byte) int
}

type ScreenerDeps struct {
	Completion CompletionClient
	// Embeddings may be nil, in which case every candidate gets the
	// uniform fallback similarity.
	Embeddings  EmbeddingClient
	Guidelines  *GuidelineRetriever
	Pages       PageCounter
	Metrics     *metrics.ScreeningMetrics
	Logger      *zap.Logger
	Concurrency int
	MaxFileSize int64
}

// Screener runs one batch of résumés through extraction, similarity scoring,
// analysis and ranking. It holds no state between batches.
type Screener struct {
	extractor   *TextExtractor
	profiles    *ProfileExtractor
	similarity  *SimilarityScorer
	analyzer    *MatchAnalyzer
	guidelines  *GuidelineRetriever
	pages       PageCounter
	metrics     *metrics.ScreeningMetrics
	logger      *zap.Logger
	concurrency int
	maxFileSize int64

	now     func() time.Time
	batchID func() string
}

func NewScreener(deps ScreenerDeps) *Screener {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Screener{
		extractor:   NewTextExtractor(log),
		profiles:    NewProfileExtractor(deps.Completion, log),
		similarity:  NewSimilarityScorer(deps.Embeddings, concurrency, log),
		analyzer:    NewMatchAnalyzer(deps.Completion, log),
		guidelines:  deps.Guidelines,
		pages:       deps.Pages,
		metrics:     deps.Metrics,
		logger:      log,
		concurrency: concurrency,
		maxFileSize: deps.MaxFileSize,
		now:         time.Now,
		batchID:     uuid.NewString,
	}
}

// candidate carries one surviving document through the phases. Each phase
// writes only its own fields.
type candidate struct {
	doc        models.UploadedDocument
	text       string
	pageCount  int
	similarity float64

	profile         models.CandidateProfile
	profileFallback bool

	analysis         models.MatchAnalysis
	analysisFallback bool
}

// Screen validates the batch and returns the ranked result. Only invalid
// input, a batch with no usable résumé, or a cancelled context fail the
// call; per-candidate model failures are replaced by fallbacks.
func (s *Screener) Screen(ctx context.Context, job models.Job, docs []models.UploadedDocument) (models.ScreeningResult, error) {
	start := time.Now()
	result, err := s.screen(ctx, job, docs)
	s.metrics.ObserveBatch(len(result.Results), time.Since(start), err)
	return result, err
}

func (s *Screener) screen(ctx context.Context, job models.Job, docs []models.UploadedDocument) (models.ScreeningResult, error) {
	job = models.Job{
		Title:       strings.TrimSpace(job.Title),
		Description: strings.TrimSpace(job.Description),
	}
	if err := s.validate(job, docs); err != nil {
		return models.ScreeningResult{}, err
	}

	batchID := s.batchID()
	log := s.logger.With(zap.String("batch_id", batchID))
	log.Info("screening batch started",
		zap.String("job_title", job.Title),
		zap.Int("documents", len(docs)),
	)

	candidates := s.prepare(log, docs)
	if len(candidates) == 0 {
		log.Warn("no usable resumes in batch")
		return models.ScreeningResult{}, fmt.Errorf("%w: no valid PDF resumes could be processed", ErrEmptyResult)
	}

	sim := s.extractAndScore(ctx, log, job, candidates)
	if sim.Fallback {
		s.metrics.RecordFallback("similarity")
	}
	for i, c := range candidates {
		c.similarity = sim.Scores[i]
	}

	guidelines := s.guidelines.Retrieve(ctx, sim.JobEmbedding)

	s.analyze(ctx, log, job, candidates, guidelines)

	if err := ctx.Err(); err != nil {
		return models.ScreeningResult{}, fmt.Errorf("screening batch %s aborted: %w", batchID, err)
	}

	processedAt := s.now().UTC()
	results := make([]models.RankedCandidate, len(candidates))
	for i, c := range candidates {
		rc := models.NewRankedCandidate(i+1, c.doc.FileName, c.profile, c.analysis, SimilarityPercent(c.similarity), processedAt)
		rc.PageCount = c.pageCount
		rc.Fallback = models.FallbackFlags{
			Profile:    c.profileFallback,
			Similarity: sim.Fallback,
			Analysis:   c.analysisFallback,
		}
		results[i] = rc
		s.metrics.RecordDocument("ranked")
	}

	ranked := Rank(results)
	summary := Summarize(ranked)

	log.Info("screening batch completed",
		zap.Int("candidates", len(ranked)),
		zap.Int("skipped", len(docs)-len(ranked)),
		zap.Int("top_score", summary.TopScore),
		zap.Bool("similarity_fallback", sim.Fallback),
	)

	return models.ScreeningResult{
		Success:         true,
		BatchID:         batchID,
		JobTitle:        job.Title,
		Results:         ranked,
		TotalCandidates: len(ranked),
		ProcessedAt:     processedAt,
		Summary:         summary,
	}, nil
}

func (s *Screener) validate(job models.Job, docs []models.UploadedDocument) error {
	if job.Title == "" {
		return fmt.Errorf("%w: job title is required", ErrInputValidation)
	}
	if job.Description == "" {
		return fmt.Errorf("%w: job description is required", ErrInputValidation)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w: at least one CV file is required", ErrInputValidation)
	}
	if s.maxFileSize > 0 {
		for _, doc := range docs {
			if int64(len(doc.Raw)) > s.maxFileSize {
				return fmt.Errorf("%w: file %s exceeds the maximum size of %d bytes", ErrInputValidation, doc.FileName, s.maxFileSize)
			}
		}
	}
	return nil
}

// prepare drops non-PDF documents and documents without enough text, keeping
// the upload order of the rest.
func (s *Screener) prepare(log *zap.Logger, docs []models.UploadedDocument) []*candidate {
	candidates := make([]*candidate, 0, len(docs))
	for _, doc := range docs {
		if !IsPDF(doc) {
			log.Info("skipping non-PDF file",
				zap.String("file", doc.FileName),
				zap.String("content_type", doc.ContentType),
				zap.NamedError("reason", ErrUnsupportedDocumentType),
			)
			s.metrics.RecordDocument("skipped_type")
			continue
		}

		extracted := s.extractor.Extract(doc.Raw, doc.FileName)
		if !extracted.Sufficient {
			log.Info("skipping file with insufficient text",
				zap.String("file", doc.FileName),
				zap.NamedError("reason", ErrExtractionInsufficient),
			)
			s.metrics.RecordDocument("skipped_extraction")
			continue
		}

		c := &candidate{doc: doc, text: extracted.Text}
		if s.pages != nil {
			c.pageCount = s.pages.PageCount(doc.Raw)
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// extractAndScore runs profile extraction for every candidate alongside the
// batch similarity scoring and waits for both.
func (s *Screener) extractAndScore(ctx context.Context, log *zap.Logger, job models.Job, candidates []*candidate) SimilarityResult {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.text
	}

	var sim SimilarityResult
	var phase errgroup.Group
	phase.Go(func() error {
		sim = s.similarity.Score(ctx, job.Text(), texts)
		return nil
	})
	phase.Go(func() error {
		s.forEach(candidates, func(c *candidate) {
			profile, err := s.extractProfile(ctx, log, c)
			c.profile = profile
			if err != nil {
				c.profileFallback = true
				s.metrics.RecordFallback("profile")
				log.Warn("profile extraction fell back to defaults",
					zap.String("file", c.doc.FileName),
					zap.Error(err),
				)
			}
		})
		return nil
	})
	_ = phase.Wait()

	return sim
}

func (s *Screener) analyze(ctx context.Context, log *zap.Logger, job models.Job, candidates []*candidate, guidelines string) {
	s.forEach(candidates, func(c *candidate) {
		analysis, err := s.analyzeCandidate(ctx, log, AnalysisInput{
			Job:        job,
			Profile:    c.profile,
			Text:       c.text,
			Similarity: c.similarity,
			Guidelines: guidelines,
		})
		c.analysis = analysis
		if err != nil {
			c.analysisFallback = true
			s.metrics.RecordFallback("analysis")
			log.Warn("match analysis fell back to similarity scoring",
				zap.String("file", c.doc.FileName),
				zap.Int("fallback_score", analysis.MatchScore),
				zap.Error(err),
			)
			return
		}
		log.Debug("candidate analyzed",
			zap.String("file", c.doc.FileName),
			zap.Int("match_score", analysis.MatchScore),
			zap.String("recommendation", string(analysis.Recommendation)),
		)
	})
}

// forEach runs fn for every candidate with bounded concurrency. fn must only
// touch its own candidate.
func (s *Screener) forEach(candidates []*candidate, fn func(c *candidate)) {
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, c := range candidates {
		g.Go(func() error {
			fn(c)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Screener) extractProfile(ctx context.Context, log *zap.Logger, c *candidate) (profile models.CandidateProfile, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("profile extraction panicked", zap.String("file", c.doc.FileName), zap.Any("panic", r))
			profile, err = DefaultProfile(c.doc.FileName), fmt.Errorf("profile extraction panicked: %v", r)
		}
	}()
	return s.profiles.Extract(ctx, c.text, c.doc.FileName)
}

func (s *Screener) analyzeCandidate(ctx context.Context, log *zap.Logger, in AnalysisInput) (analysis models.MatchAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("match analysis panicked", zap.String("candidate", in.Profile.Name), zap.Any("panic", r))
			analysis, err = FallbackAnalysis(in.Profile, in.Similarity), fmt.Errorf("match analysis panicked: %v", r)
		}
	}()
	return s.analyzer.Analyze(ctx, in)
}
