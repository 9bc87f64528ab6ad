package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Gemini: config.GeminiConfig{Model: "gemini-2.0-flash", Timeout: time.Second},
		Worker: config.WorkerConfig{
			Concurrency:       2,
			RetryMaxAttempts:  5,
			RetryInitialDelay: 100 * time.Millisecond,
			RetryMaxDelay:     time.Second,
			BreakerEnabled:    false,
		},
	}
}

func TestResiliencePolicyFromConfig(t *testing.T) {
	policy := ResiliencePolicy(testConfig())

	assert.Equal(t, 5, policy.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, policy.InitialBackoff)
	assert.Equal(t, time.Second, policy.MaxBackoff)
	assert.False(t, policy.BreakerEnabled)
	assert.Equal(t, 2.0, policy.Multiplier)
}

func TestNewScreenerRequiresAPIKey(t *testing.T) {
	_, err := NewScreener(context.Background(), testConfig(), zap.NewNop(), nil)

	assert.ErrorContains(t, err, "api key is required")
}

func TestGuidelineStoreDisabledWithoutURL(t *testing.T) {
	store, err := NewGuidelineStore(context.Background(), testConfig(), zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, store)
}
