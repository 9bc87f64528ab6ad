package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const defaultGuidelineLimit = 3

// GuidelineRetriever fetches the reference chunks closest to a job embedding
// and renders them for the analysis prompt.
type GuidelineRetriever struct {
	store  GuidelineStore
	limit  int
	logger *zap.Logger
}

func NewGuidelineRetriever(store GuidelineStore, limit int, log *zap.Logger) *GuidelineRetriever {
	if log == nil {
		log = zap.NewNop()
	}
	if limit <= 0 {
		limit = defaultGuidelineLimit
	}
	return &GuidelineRetriever{store: store, limit: limit, logger: log}
}

// Retrieve returns "" when there is no store, no embedding, or the search
// fails. Screening never depends on guidelines being available.
func (r *GuidelineRetriever) Retrieve(ctx context.Context, jobEmbedding []float32) string {
	if r == nil || r.store == nil || len(jobEmbedding) == 0 {
		return ""
	}

	results, err := r.store.SearchSimilar(ctx, jobEmbedding, "", r.limit)
	if err != nil {
		r.logger.Warn("guideline retrieval failed", zap.Error(err))
		return ""
	}

	r.logger.Debug("guidelines retrieved", zap.Int("chunks", len(results)))
	return FormatRAGContext(results)
}

// ReferenceDocument is a guideline PDF to ingest.
type ReferenceDocument struct {
	Path    string
	DocType string
}

type IngestReport struct {
	Source     string
	Pages      int
	Chunks     int
	Stored     int
	Failed     int
	Characters int
}

// GuidelineIngestor parses reference PDFs, chunks and embeds them, and
// stores the chunks. Re-ingesting a path replaces its previous chunks.
type GuidelineIngestor struct {
	parser     PDFParserService
	chunker    *TextChunker
	embeddings EmbeddingClient
	store      GuidelineStore
	logger     *zap.Logger
}

func NewGuidelineIngestor(parser PDFParserService, chunker *TextChunker, embeddings EmbeddingClient, store GuidelineStore, log *zap.Logger) *GuidelineIngestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &GuidelineIngestor{
		parser:     parser,
		chunker:    chunker,
		embeddings: embeddings,
		store:      store,
		logger:     log,
	}
}

func (g *GuidelineIngestor) Ingest(ctx context.Context, doc ReferenceDocument) (IngestReport, error) {
	source := filepath.Base(doc.Path)
	report := IngestReport{Source: source}

	docType := strings.TrimSpace(doc.DocType)
	if docType == "" {
		return report, errors.New("document type is required")
	}

	content, err := g.parser.ReadReference(doc.Path)
	if err != nil {
		return report, fmt.Errorf("failed to extract %s: %w", source, err)
	}
	report.Pages = content.PageCount
	report.Characters = len(content.Text)

	chunks := g.chunker.Chunk(content.Text)
	report.Chunks = len(chunks)

	if err := g.store.DeleteBySource(ctx, source); err != nil {
		return report, err
	}

	log := g.logger.With(zap.String("source", source), zap.String("doc_type", docType))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		embedding, err := g.embeddings.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Warn("failed to embed chunk", zap.Int("chunk", i+1), zap.Error(err))
			report.Failed++
			continue
		}

		docID := fmt.Sprintf("%s_chunk_%d", strings.TrimSuffix(source, filepath.Ext(source)), i)
		if err := g.store.UpsertDocument(ctx, docID, docType, source, chunk, embedding); err != nil {
			log.Warn("failed to store chunk", zap.Int("chunk", i+1), zap.Error(err))
			report.Failed++
			continue
		}
		report.Stored++
	}

	log.Info("reference document ingested",
		zap.Int("pages", report.Pages),
		zap.Int("chunks", report.Chunks),
		zap.Int("stored", report.Stored),
		zap.Int("failed", report.Failed),
	)

	if report.Stored == 0 && report.Chunks > 0 {
		return report, fmt.Errorf("no chunks of %s were stored", source)
	}
	return report, nil
}
