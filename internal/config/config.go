package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Qdrant  QdrantConfig
	Storage StorageConfig
	Worker  WorkerConfig

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool
}

type ServerConfig struct {
	Port      string
	Env       string
	LogFormat string
	LogLevel  string
}

type GeminiConfig struct {
	APIKey           string
	Model            string
	EmbedModel       string
	Temperature      float32
	MaxOutputTokens  int32
	Timeout          time.Duration
	EnableSimilarity bool
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// Enabled reports whether guideline retrieval should be wired.
func (q QdrantConfig) Enabled() bool {
	return strings.TrimSpace(q.URL) != ""
}

type StorageConfig struct {
	MaxFileSize  int64
	MaxBatchSize int64
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	BreakerEnabled    bool
}

func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		DotEnvLoaded: loaded,
		Server: ServerConfig{
			Port:      getEnv("PORT", "3000"),
			Env:       getEnv("ENV", "development"),
			LogFormat: getEnv("LOG_FORMAT", "console"),
			LogLevel:  getEnv("LOG_LEVEL", "info"),
		},
		Gemini: GeminiConfig{
			APIKey:           getEnv("GEMINI_API_KEY", ""),
			Model:            getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			EmbedModel:       getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			Temperature:      getEnvAsFloat32("GEMINI_TEMPERATURE", 0.2),
			MaxOutputTokens:  int32(getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 2048)),
			Timeout:          getEnvAsDuration("MODEL_TIMEOUT", "60s"),
			EnableSimilarity: getEnvAsBool("ENABLE_SIMILARITY", true),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_screening_guidelines"),
		},
		Storage: StorageConfig{
			MaxFileSize:  getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxBatchSize: getEnvAsInt64("MAX_BATCH_SIZE", 104857600),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 4),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "500ms"),
			RetryMaxDelay:     getEnvAsDuration("RETRY_MAX_DELAY", "4s"),
			BreakerEnabled:    getEnvAsBool("BREAKER_ENABLED", true),
		},
	}
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Env, "development")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
