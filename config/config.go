package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Fetcher  FetcherConfig
	Pipeline PipelineConfig
	Output   OutputConfig
	Log      LogConfig
}

// FetcherConfig controls the HTTP page fetcher.
type FetcherConfig struct {
	// Origin is the scheme and host search URLs are built against.
	Origin string // default: "https://www.amazon.com"

	// UserAgent is sent on every request.
	UserAgent string

	// AcceptLanguage is sent on every request.
	AcceptLanguage string // default: "en-US,en;q=0.9"

	// Timeout is the per-request deadline.
	Timeout time.Duration // default: 10s

	// RequestsPerSecond caps the sustained request rate. The randomized
	// inter-page delay keeps the pipeline well under this cap; the limiter
	// is a guard, not the pacing mechanism.
	RequestsPerSecond float64 // default: 1
}

// PipelineConfig controls the page loop.
type PipelineConfig struct {
	// MaxPages is the largest page count a caller may request.
	MaxPages int // default: 10

	// DelayMin and DelayMax bound the randomized pause between pages.
	DelayMin time.Duration // default: 2s
	DelayMax time.Duration // default: 4s
}

// OutputConfig controls the CSV sink.
type OutputConfig struct {
	// Dir is the directory output files are written to.
	Dir string // default: "."

	// Suffix is appended to the filename derived from the query.
	Suffix string // default: "_products.csv"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// defaultUserAgent mimics a desktop Chrome browser.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Fetcher: FetcherConfig{
			Origin:            envOr("SHELFSCAN_ORIGIN", "https://www.amazon.com"),
			UserAgent:         envOr("SHELFSCAN_USER_AGENT", defaultUserAgent),
			AcceptLanguage:    envOr("SHELFSCAN_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			Timeout:           envDurationOr("SHELFSCAN_FETCH_TIMEOUT", 10*time.Second),
			RequestsPerSecond: envFloatOr("SHELFSCAN_RATE_RPS", 1.0),
		},
		Pipeline: PipelineConfig{
			MaxPages: envIntOr("SHELFSCAN_MAX_PAGES", 10),
			DelayMin: envDurationOr("SHELFSCAN_DELAY_MIN", 2*time.Second),
			DelayMax: envDurationOr("SHELFSCAN_DELAY_MAX", 4*time.Second),
		},
		Output: OutputConfig{
			Dir:    envOr("SHELFSCAN_OUTPUT_DIR", "."),
			Suffix: envOr("SHELFSCAN_OUTPUT_SUFFIX", "_products.csv"),
		},
		Log: LogConfig{
			Level:  envOr("SHELFSCAN_LOG_LEVEL", "info"),
			Format: envOr("SHELFSCAN_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
