package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/resilience"
)

const maxEmbeddingInput = 40000

// CompletionClient is the text-completion endpoint used by the profile
// extractor and the match analyzer.
type CompletionClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EmbeddingClient is the embedding endpoint used for similarity scoring and
// guideline retrieval.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// modelsAPI is the subset of *genai.Models the service calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type GeminiOptions struct {
	APIKey          string
	Model           string
	EmbedModel      string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// GeminiService implements CompletionClient and EmbeddingClient on top of
// the Gemini API.
type GeminiService struct {
	models     modelsAPI
	opts       GeminiOptions
	executor   *resilience.Executor
	logger     *zap.Logger
	metrics    *metrics.ScreeningMetrics
	maxLogChar int
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, executor *resilience.Executor, log *zap.Logger) (*GeminiService, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, opts, executor, log), nil
}

func newGeminiService(m modelsAPI, opts GeminiOptions, executor *resilience.Executor, log *zap.Logger) *GeminiService {
	if log == nil {
		log = zap.NewNop()
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.Policy{MaxAttempts: 1}, log)
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	if opts.EmbedModel == "" {
		opts.EmbedModel = "text-embedding-004"
	}
	return &GeminiService{
		models:     m,
		opts:       opts,
		executor:   executor,
		logger:     log,
		maxLogChar: 200,
	}
}

// WithMetrics counts every completion and embedding call in m.
func (g *GeminiService) WithMetrics(m *metrics.ScreeningMetrics) *GeminiService {
	g.metrics = m
	return g
}

// GenerateText implements CompletionClient. The model is asked for a JSON
// response; callers still validate what comes back.
func (g *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := g.opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  g.opts.MaxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	var text string
	err := g.executor.Execute(ctx, "gemini.generate", func(ctx context.Context) error {
		callCtx, cancel := g.withTimeout(ctx)
		defer cancel()

		resp, err := g.models.GenerateContent(callCtx, g.opts.Model, genai.Text(prompt), config)
		if err != nil {
			return err
		}
		text = responseText(resp)
		if text == "" {
			return errEmptyCompletion
		}
		return nil
	}, classifyGeminiError)
	g.observeCall("generate", err)
	if err != nil {
		return "", fmt.Errorf("%w: generate text: %w", ErrExternalService, err)
	}

	g.logger.Debug("gemini completion received",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", len(text)),
		zap.String("response_preview", logger.TruncateForLog(text, g.maxLogChar)),
	)
	return text, nil
}

// GenerateEmbedding implements EmbeddingClient.
func (g *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncate(text, maxEmbeddingInput)

	var values []float32
	err := g.executor.Execute(ctx, "gemini.embed", func(ctx context.Context) error {
		callCtx, cancel := g.withTimeout(ctx)
		defer cancel()

		result, err := g.models.EmbedContent(callCtx, g.opts.EmbedModel, genai.Text(text), nil)
		if err != nil {
			return err
		}
		if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
			return errEmptyEmbedding
		}
		values = result.Embeddings[0].Values
		return nil
	}, classifyGeminiError)
	g.observeCall("embed", err)
	if err != nil {
		return nil, fmt.Errorf("%w: generate embedding: %w", ErrExternalService, err)
	}

	return values, nil
}

// observeCall counts the call by outcome. Calls rejected by an open breaker
// never reached the model and are counted apart from model errors.
func (g *GeminiService) observeCall(operation string, err error) {
	status := callStatus(err)
	if status == "circuit_open" {
		g.logger.Warn("gemini call rejected, circuit breaker open", zap.String("operation", operation))
	}
	g.metrics.RecordModelCall(operation, status)
}

func callStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case resilience.IsCircuitOpen(err):
		return "circuit_open"
	default:
		return "error"
	}
}

func (g *GeminiService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.opts.Timeout)
}

var (
	errEmptyCompletion = errors.New("gemini returned no text content")
	errEmptyEmbedding  = errors.New("gemini returned an empty embedding")
)

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// only the first candidate with content is used
		if builder.Len() > 0 {
			break
		}
	}
	return builder.String()
}

func classifyGeminiError(err error) resilience.Classification {
	switch {
	case err == nil:
		return resilience.Classification{}
	case errors.Is(err, context.Canceled):
		return resilience.Classification{Retryable: false, RecordFailure: false}
	case errors.Is(err, context.DeadlineExceeded):
		return resilience.Classification{Retryable: true, RecordFailure: true}
	case errors.Is(err, errEmptyCompletion), errors.Is(err, errEmptyEmbedding):
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}

	if code, ok := apiErrorCode(err); ok {
		return resilience.Classification{
			Retryable:     isRetryableStatus(code),
			RecordFailure: code >= http.StatusInternalServerError || code == http.StatusTooManyRequests,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}

	return resilience.Classification{Retryable: false, RecordFailure: true}
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
