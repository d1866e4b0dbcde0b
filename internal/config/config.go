package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Gemini   GeminiConfig
	Pipeline PipelineConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// GeminiConfig describes connectivity to the Gemini API.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// RateLimit is the maximum number of model calls per second.
	RateLimit float64
	Burst     int
}

// PipelineConfig holds processing limits and classification tuning.
type PipelineConfig struct {
	UseAI                bool
	MaxBatchSize         int
	MaxDescriptionLength int
	// TrendThresholdUpPct and TrendThresholdDownPct bound the "stable" band.
	TrendThresholdUpPct   float64
	TrendThresholdDownPct float64
	// LowConfidenceThreshold marks a classification as a likely fallback.
	LowConfidenceThreshold float64
}

const (
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	defaultModel     = "gemini-2.5-flash"
	defaultAITimeout = 10 * time.Second
	defaultRateLimit = 2.0
	defaultBurst     = 4

	defaultMaxBatchSize      = 200
	defaultMaxDescriptionLen = 100
	// minDescriptionLen leaves room for the truncation ellipsis.
	minDescriptionLen = 10
	defaultTrendUpPct        = 5
	defaultTrendDownPct      = -5
	defaultLowConfidence     = 0.6
)

// Load reads configuration from the environment, applying defaults. A .env
// file in the working directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTP: HTTPConfig{
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			ShutdownTimeout:   defaultShutdownTimeout,
			AllowedOriginsCSV: valueOrDefault("ALLOWED_ORIGINS", "*"),
		},
		Gemini: GeminiConfig{
			APIKey:    os.Getenv("GEMINI_API_KEY"),
			Model:     valueOrDefault("GEMINI_MODEL", defaultModel),
			Timeout:   defaultAITimeout,
			RateLimit: defaultRateLimit,
			Burst:     defaultBurst,
		},
		Pipeline: PipelineConfig{
			UseAI:                  parseBoolWithDefault("USE_AI", true),
			MaxBatchSize:           parseIntWithDefault("MAX_BATCH_SIZE", defaultMaxBatchSize),
			MaxDescriptionLength:   parseIntWithDefault("MAX_DESCRIPTION_LENGTH", defaultMaxDescriptionLen),
			TrendThresholdUpPct:    defaultTrendUpPct,
			TrendThresholdDownPct:  defaultTrendDownPct,
			LowConfidenceThreshold: defaultLowConfidence,
		},
	}

	port, err := parsePort("PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
		}
		cfg.Gemini.Timeout = d
	}

	if cfg.Pipeline.MaxBatchSize <= 0 {
		return Config{}, fmt.Errorf("MAX_BATCH_SIZE must be positive, got %d", cfg.Pipeline.MaxBatchSize)
	}
	if cfg.Pipeline.MaxDescriptionLength < minDescriptionLen {
		return Config{}, fmt.Errorf("MAX_DESCRIPTION_LENGTH must be at least %d, got %d", minDescriptionLen, cfg.Pipeline.MaxDescriptionLength)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
