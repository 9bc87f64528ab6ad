// Package bootstrap builds the screening pipeline from configuration for the
// API server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/resilience"
	"alfredoptarigan/cv-screener/internal/services"
)

func ResiliencePolicy(cfg *config.Config) resilience.Policy {
	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = cfg.Worker.RetryMaxAttempts
	policy.InitialBackoff = cfg.Worker.RetryInitialDelay
	policy.MaxBackoff = cfg.Worker.RetryMaxDelay
	policy.BreakerEnabled = cfg.Worker.BreakerEnabled
	return policy
}

func NewGemini(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.ScreeningMetrics) (*services.GeminiService, error) {
	executor := resilience.NewExecutor(ResiliencePolicy(cfg), log)

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		EmbedModel:      cfg.Gemini.EmbedModel,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	}, executor, log)
	if err != nil {
		return nil, err
	}
	return gemini.WithMetrics(m), nil
}

// NewGuidelineStore returns nil without error when QDRANT_URL is unset.
func NewGuidelineStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.GuidelineStore, error) {
	if !cfg.Qdrant.Enabled() {
		return nil, nil
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return nil, err
	}
	if err := store.InitCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize qdrant collection: %w", err)
	}
	return store, nil
}

// NewScreener wires Gemini, the optional guideline store and the page
// counter into a Screener.
func NewScreener(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.ScreeningMetrics) (*services.Screener, error) {
	gemini, err := NewGemini(ctx, cfg, log, m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini: %w", err)
	}

	store, err := NewGuidelineStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return newScreener(cfg, gemini, gemini, store, log, m), nil
}

func newScreener(cfg *config.Config, completion services.CompletionClient, embeddings services.EmbeddingClient, store services.GuidelineStore, log *zap.Logger, m *metrics.ScreeningMetrics) *services.Screener {
	deps := services.ScreenerDeps{
		Completion:  completion,
		Pages:       services.NewPDFParserService(),
		Metrics:     m,
		Logger:      log,
		Concurrency: cfg.Worker.Concurrency,
		MaxFileSize: cfg.Storage.MaxFileSize,
	}
	if cfg.Gemini.EnableSimilarity {
		deps.Embeddings = embeddings
	}
	if store != nil {
		deps.Guidelines = services.NewGuidelineRetriever(store, 0, log)
	}
	return services.NewScreener(deps)
}
