package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

const (
	defaultVectorSize = 768
	defaultGRPCPort   = 6334
)

// Payload keys stored with every guideline chunk.
const (
	payloadDocID   = "doc_id"
	payloadDocType = "doc_type"
	payloadSource  = "source"
	payloadText    = "text"
)

// GuidelineStore keeps embedded chunks of screening reference documents
// (rubrics, hiring guidelines). Résumés are never stored.
type GuidelineStore interface {
	InitCollection(ctx context.Context) error
	UpsertDocument(ctx context.Context, docID string, docType string, source string, text string, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error)
	DeleteBySource(ctx context.Context, source string) error
}

// SearchResult is one stored chunk and its cosine score against the query.
type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	DocType  string
	Metadata map[string]string
}

// pointsAPI is the subset of *qdrant.Client the store calls.
type pointsAPI interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Delete(ctx context.Context, request *qdrant.DeletePoints) (*qdrant.UpdateResult, error)
}

type qdrantService struct {
	client     pointsAPI
	collection string
	dimensions uint64
	logger     *zap.Logger
}

// NewQdrantService dials the gRPC endpoint named by rawURL. A URL without a
// port uses 6334, and an https scheme turns on TLS.
func NewQdrantService(rawURL, apiKey, collection string, log *zap.Logger) (GuidelineStore, error) {
	cfg, err := qdrantConfig(rawURL)
	if err != nil {
		return nil, err
	}
	cfg.APIKey = apiKey

	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return newQdrantService(client, collection, defaultVectorSize, log), nil
}

func qdrantConfig(rawURL string) (*qdrant.Config, error) {
	endpoint, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("qdrant url %q: %w", rawURL, err)
	}
	host := endpoint.Hostname()
	if host == "" {
		return nil, fmt.Errorf("qdrant url %q: missing host", rawURL)
	}

	port := defaultGRPCPort
	if v, err := strconv.Atoi(endpoint.Port()); err == nil {
		port = v
	}

	return &qdrant.Config{
		Host:   host,
		Port:   port,
		UseTLS: endpoint.Scheme == "https",
	}, nil
}

func newQdrantService(client pointsAPI, collection string, dimensions uint64, log *zap.Logger) *qdrantService {
	if log == nil {
		log = zap.NewNop()
	}
	return &qdrantService{
		client:     client,
		collection: collection,
		dimensions: dimensions,
		logger:     log.With(zap.String("collection", collection)),
	}
}

// InitCollection creates the cosine collection on first use.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	ok, err := q.client.CollectionExists(ctx, q.collection)
	switch {
	case err != nil:
		return fmt.Errorf("qdrant: checking collection %s: %w", q.collection, err)
	case ok:
		q.logger.Debug("guideline collection ready")
		return nil
	}

	vectors := qdrant.NewVectorsConfig(&qdrant.VectorParams{
		Size:     q.dimensions,
		Distance: qdrant.Distance_Cosine,
	})
	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig:  vectors,
	}); err != nil {
		return fmt.Errorf("qdrant: creating collection %s: %w", q.collection, err)
	}

	q.logger.Info("guideline collection created", zap.Uint64("dimensions", q.dimensions))
	return nil
}

func (q *qdrantService) UpsertDocument(ctx context.Context, docID string, docType string, source string, text string, embedding []float32) error {
	payload := qdrant.NewValueMap(map[string]any{
		payloadDocID:   docID,
		payloadDocType: docType,
		payloadSource:  source,
		payloadText:    text,
	})

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: payload,
		}},
	}); err != nil {
		return fmt.Errorf("qdrant: storing chunk %s: %w", docID, err)
	}
	return nil
}

// SearchSimilar returns up to limit chunks nearest to queryEmbedding. An
// empty docType searches every document type.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	req := &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if docType != "" {
		req.Filter = matchFilter(payloadDocType, docType)
	}

	points, err := q.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant: searching guidelines: %w", err)
	}

	results := make([]SearchResult, len(points))
	for i, point := range points {
		results[i] = toSearchResult(point)
	}
	return results, nil
}

// DeleteBySource removes every chunk ingested from source so re-ingesting a
// document replaces it.
func (q *qdrantService) DeleteBySource(ctx context.Context, source string) error {
	selector := &qdrant.PointsSelector{
		PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
			Filter: matchFilter(payloadSource, source),
		},
	}

	if _, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Points:         selector,
	}); err != nil {
		return fmt.Errorf("qdrant: deleting chunks of %s: %w", source, err)
	}
	return nil
}

func matchFilter(key, value string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(key, value)},
	}
}

func toSearchResult(point *qdrant.ScoredPoint) SearchResult {
	payload := point.GetPayload()
	res := SearchResult{
		Score:    point.GetScore(),
		Metadata: make(map[string]string, len(payload)),
	}

	for key, value := range payload {
		s := value.GetStringValue()
		switch key {
		case payloadDocID:
			res.ID = s
		case payloadDocType:
			res.DocType = s
		case payloadText:
			res.Text = s
		default:
			res.Metadata[key] = s
		}
	}
	return res
}
