// Package config loads gomt settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Cache backends accepted by Config.Cache.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
	CacheNone   = "none"
)

// Providers accepted by Config.Provider.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderMock        = "mock"
)

// Config holds runtime settings for the CLI and web server.
type Config struct {
	Provider string `env:"GOMT_PROVIDER" envDefault:"huggingface"`

	HFToken        string `env:"HF_API_TOKEN"`
	HFBaseURL      string `env:"GOMT_HF_BASE_URL" envDefault:"https://huggingface.co"`
	HFInferenceURL string `env:"GOMT_HF_INFERENCE_URL" envDefault:"https://api-inference.huggingface.co"`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"GOMT_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	Device         int           `env:"GOMT_DEVICE" envDefault:"-1"`
	RequestTimeout time.Duration `env:"GOMT_REQUEST_TIMEOUT" envDefault:"60s"`
	Preload        bool          `env:"GOMT_PRELOAD" envDefault:"false"`

	Cache           string `env:"GOMT_CACHE" envDefault:"memory"`
	CacheTTL        int    `env:"GOMT_CACHE_TTL" envDefault:"3600"`
	CacheMaxEntries int    `env:"GOMT_CACHE_MAX_ENTRIES" envDefault:"10000"`
	RedisURL        string `env:"GOMT_REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath      string `env:"GOMT_SQLITE_PATH" envDefault:"gomt-cache.db"`

	ListenAddr string `env:"GOMT_LISTEN_ADDR" envDefault:":8501"`
	LogLevel   string `env:"GOMT_LOG_LEVEL" envDefault:"info"`
	PairsFile  string `env:"GOMT_PAIRS_FILE"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set in the environment take precedence
// over .env values.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv paths. Missing files are ignored.
func LoadFiles(paths ...string) (Config, error) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("invalid GOMT_PROVIDER %q (want huggingface, openai or mock)", c.Provider)
	}

	switch c.Cache {
	case CacheMemory, CacheRedis, CacheSQLite, CacheNone:
	default:
		return fmt.Errorf("invalid GOMT_CACHE %q (want memory, redis, sqlite or none)", c.Cache)
	}

	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("invalid GOMT_CACHE_MAX_ENTRIES %d", c.CacheMaxEntries)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid GOMT_REQUEST_TIMEOUT %s", c.RequestTimeout)
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown values fall back to info.
func (c Config) Level() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level := c.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}))
}
