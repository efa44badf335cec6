// Package config holds the service configuration: built-in defaults, an
// optional YAML file and the validation applied before startup.
// Environment variables and flags are layered on top by the command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/resumelens/internal/chunker"
	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// Session backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	CORSOrigins    []string `yaml:"cors_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// SessionConfig configures the session store.
type SessionConfig struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	MaxSessions   int           `yaml:"max_sessions"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// RedisConfig is used when the session backend is redis.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// ChunkingConfig holds the chunking defaults.
type ChunkingConfig struct {
	MaxChunkSize int     `yaml:"max_chunk_size"`
	Overlap      float64 `yaml:"overlap"`
}

// RetrievalConfig holds retrieval defaults.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"`
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url"`
	Concurrency       int     `yaml:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 disables client-side limiting
	Burst             int     `yaml:"burst"`
}

// LLMConfig selects and tunes the generation provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AIConfig controls provider startup behaviour.
type AIConfig struct {
	ValidateOnStart bool `yaml:"validate_on_start"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	AI        AIConfig        `yaml:"ai"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	chunking := chunker.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			CORSOrigins:    []string{"http://localhost:3000"},
			MaxUploadBytes: 10 << 20,
		},
		Session: SessionConfig{
			Backend:       BackendMemory,
			TTL:           25 * time.Minute,
			MaxSessions:   100,
			SweepInterval: time.Minute,
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		Chunking: ChunkingConfig{
			MaxChunkSize: chunking.MaxChunkSize,
			Overlap:      chunking.Overlap,
		},
		Retrieval: RetrievalConfig{
			TopK: domain.DefaultTopK,
		},
		Embedding: EmbeddingConfig{
			Provider:    string(domain.AIProviderGemini),
			Model:       "embedding-001",
			Concurrency: 4,
			Burst:       1,
		},
		LLM: LLMConfig{
			Provider:    string(domain.AIProviderGemini),
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every bound the service relies on.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Session.MaxSessions <= 0 {
		errs = append(errs, errors.New("session.max_sessions must be positive"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session.sweep_interval must be positive"))
	}
	switch c.Session.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.backend %q must be memory or redis", c.Session.Backend))
	}

	chunking := chunker.Config{MaxChunkSize: c.Chunking.MaxChunkSize, Overlap: c.Chunking.Overlap}
	if err := chunking.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chunking.max_chunk_size must be %d..%d and chunking.overlap 0..%.1f",
			chunker.MinChunkSize, chunker.MaxChunkSize, chunker.MaxOverlap))
	}
	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > domain.MaxTopK {
		errs = append(errs, fmt.Errorf("retrieval.top_k must be 1..%d", domain.MaxTopK))
	}

	if c.Embedding.Provider != "" && !domain.AIProvider(c.Embedding.Provider).IsValid() {
		errs = append(errs, fmt.Errorf("embedding.provider %q: %w", c.Embedding.Provider, domain.ErrInvalidProvider))
	}
	if c.LLM.Provider != "" && !domain.AIProvider(c.LLM.Provider).IsValid() {
		errs = append(errs, fmt.Errorf("llm.provider %q: %w", c.LLM.Provider, domain.ErrInvalidProvider))
	}
	if c.Embedding.Concurrency < 1 {
		errs = append(errs, errors.New("embedding.concurrency must be at least 1"))
	}
	if c.Embedding.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("embedding.requests_per_second must not be negative"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, errors.New("llm.temperature must be 0..2"))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	return errors.Join(errs...)
}

// AISettings converts the provider sections into domain settings.
func (c *Config) AISettings() domain.AISettings {
	return domain.AISettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProvider(c.Embedding.Provider),
			Model:    c.Embedding.Model,
			APIKey:   c.Embedding.APIKey,
			BaseURL:  c.Embedding.BaseURL,
		},
		LLM: domain.LLMSettings{
			Provider:    domain.AIProvider(c.LLM.Provider),
			Model:       c.LLM.Model,
			APIKey:      c.LLM.APIKey,
			BaseURL:     c.LLM.BaseURL,
			Temperature: c.LLM.Temperature,
			MaxTokens:   c.LLM.MaxTokens,
		},
	}
}

// ChunkerConfig returns the chunking defaults.
func (c *Config) ChunkerConfig() chunker.Config {
	return chunker.Config{MaxChunkSize: c.Chunking.MaxChunkSize, Overlap: c.Chunking.Overlap}
}

// ParseCORSOrigins splits a comma separated origin list, dropping blanks.
func ParseCORSOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}
