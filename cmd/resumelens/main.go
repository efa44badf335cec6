package main

// @title           ResumeLens API
// @version         1.0
// @description     Ephemeral, session-scoped retrieval-augmented question answering over a single resume or job description.

// @contact.name   ResumeLens
// @contact.url    https://github.com/custodia-labs/resumelens/issues

// @license.name  MIT

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	_ "github.com/custodia-labs/resumelens/docs"
	"github.com/custodia-labs/resumelens/internal/adapters/driven/ai"
	"github.com/custodia-labs/resumelens/internal/adapters/driven/memory"
	redisadapter "github.com/custodia-labs/resumelens/internal/adapters/driven/redis"
	"github.com/custodia-labs/resumelens/internal/adapters/driving/http"
	"github.com/custodia-labs/resumelens/internal/config"
	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/core/services"
	"github.com/custodia-labs/resumelens/internal/normalisers"
	"github.com/custodia-labs/resumelens/internal/runtime"
)

var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "resumelens",
		Usage:   "Session-scoped document question answering API",
		Version: version,
		Flags:   globalFlags(),
		Action:  serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serveCommand,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration with secrets redacted",
				Action: configCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML config file",
			EnvVars: []string{"RESUMELENS_CONFIG"},
		},
		&cli.StringFlag{Name: "host", Usage: "Listen host", EnvVars: []string{"API_HOST"}},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port", EnvVars: []string{"API_PORT", "PORT"}},
		&cli.StringFlag{Name: "cors-origins", Usage: "Comma separated allowed origins", EnvVars: []string{"CORS_ORIGINS"}},
		&cli.StringFlag{Name: "session-backend", Usage: "Session store: memory or redis", EnvVars: []string{"SESSION_BACKEND"}},
		&cli.IntFlag{Name: "session-ttl-minutes", Usage: "Session lifetime in minutes", EnvVars: []string{"SESSION_TTL_MINUTES"}},
		&cli.IntFlag{Name: "max-sessions", Usage: "Maximum live sessions", EnvVars: []string{"MAX_SESSIONS"}},
		&cli.StringFlag{Name: "redis-url", Usage: "Redis URL for the redis backend", EnvVars: []string{"REDIS_URL"}},
		&cli.IntFlag{Name: "chunk-size", Usage: "Default maximum chunk size", EnvVars: []string{"DEFAULT_CHUNK_SIZE"}},
		&cli.Float64Flag{Name: "chunk-overlap", Usage: "Default chunk overlap fraction", EnvVars: []string{"DEFAULT_OVERLAP"}},
		&cli.IntFlag{Name: "top-k", Usage: "Default number of retrieved chunks", EnvVars: []string{"DEFAULT_TOP_K"}},
		&cli.StringFlag{Name: "embedding-provider", Usage: "gemini, openai or ollama", EnvVars: []string{"EMBEDDING_PROVIDER"}},
		&cli.StringFlag{Name: "embedding-model", Usage: "Embedding model", EnvVars: []string{"EMBEDDING_MODEL", "GEMINI_EMBEDDING_MODEL"}},
		&cli.StringFlag{Name: "embedding-api-key", Usage: "Embedding provider API key", EnvVars: []string{"EMBEDDING_API_KEY", "GEMINI_API_KEY"}},
		&cli.StringFlag{Name: "embedding-base-url", Usage: "Embedding provider base URL", EnvVars: []string{"EMBEDDING_BASE_URL"}},
		&cli.Float64Flag{Name: "embedding-rps", Usage: "Embedding requests per second (0 = unlimited)", EnvVars: []string{"EMBEDDING_RPS"}},
		&cli.StringFlag{Name: "llm-provider", Usage: "gemini, openai or ollama", EnvVars: []string{"LLM_PROVIDER"}},
		&cli.StringFlag{Name: "llm-model", Usage: "Generation model", EnvVars: []string{"LLM_MODEL", "GEMINI_MODEL"}},
		&cli.StringFlag{Name: "llm-api-key", Usage: "Generation provider API key", EnvVars: []string{"LLM_API_KEY", "GEMINI_API_KEY"}},
		&cli.StringFlag{Name: "llm-base-url", Usage: "Generation provider base URL", EnvVars: []string{"LLM_BASE_URL"}},
		&cli.BoolFlag{Name: "validate-ai", Usage: "Check provider connectivity before serving", EnvVars: []string{"VALIDATE_AI_ON_START"}},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		&cli.StringFlag{Name: "log-format", Usage: "text or json", EnvVars: []string{"LOG_FORMAT"}},
	}
}

// loadConfig layers flags and environment over the YAML file and defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("cors-origins") {
		cfg.Server.CORSOrigins = config.ParseCORSOrigins(c.String("cors-origins"))
	}
	if c.IsSet("session-backend") {
		cfg.Session.Backend = c.String("session-backend")
	}
	if c.IsSet("session-ttl-minutes") {
		cfg.Session.TTL = time.Duration(c.Int("session-ttl-minutes")) * time.Minute
	}
	if c.IsSet("max-sessions") {
		cfg.Session.MaxSessions = c.Int("max-sessions")
	}
	if c.IsSet("redis-url") {
		cfg.Redis.URL = c.String("redis-url")
	}
	if c.IsSet("chunk-size") {
		cfg.Chunking.MaxChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("chunk-overlap") {
		cfg.Chunking.Overlap = c.Float64("chunk-overlap")
	}
	if c.IsSet("top-k") {
		cfg.Retrieval.TopK = c.Int("top-k")
	}
	if c.IsSet("embedding-provider") {
		cfg.Embedding.Provider = c.String("embedding-provider")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("embedding-api-key") {
		cfg.Embedding.APIKey = c.String("embedding-api-key")
	}
	if c.IsSet("embedding-base-url") {
		cfg.Embedding.BaseURL = c.String("embedding-base-url")
	}
	if c.IsSet("embedding-rps") {
		cfg.Embedding.RequestsPerSecond = c.Float64("embedding-rps")
	}
	if c.IsSet("llm-provider") {
		cfg.LLM.Provider = c.String("llm-provider")
	}
	if c.IsSet("llm-model") {
		cfg.LLM.Model = c.String("llm-model")
	}
	if c.IsSet("llm-api-key") {
		cfg.LLM.APIKey = c.String("llm-api-key")
	}
	if c.IsSet("llm-base-url") {
		cfg.LLM.BaseURL = c.String("llm-base-url")
	}
	if c.IsSet("validate-ai") {
		cfg.AI.ValidateOnStart = c.Bool("validate-ai")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger installs the process-wide slog handler.
func setupLogger(cfg config.LogConfig) *slog.Logger {
	level, _ := config.ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Embedding.APIKey != "" {
		cfg.Embedding.APIKey = "REDACTED"
	}
	if cfg.LLM.APIKey != "" {
		cfg.LLM.APIKey = "REDACTED"
	}

	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log)

	log.Printf("resumelens %s starting (session backend: %s)", version, cfg.Session.Backend)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runtimeConfig := domain.NewRuntimeConfig(cfg.Session.Backend)

	// Session store
	var (
		store  driven.SessionStore
		pinger http.Pinger
	)
	switch cfg.Session.Backend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Println("Connected to Redis")

		store = redisadapter.NewSessionStore(client, redisadapter.Config{
			TTL:           cfg.Session.TTL,
			MaxSessions:   cfg.Session.MaxSessions,
			SweepInterval: cfg.Session.SweepInterval,
			Logger:        logger,
		})
		pinger = redisPinger{client}
	default:
		store = memory.NewSessionStore(memory.Config{
			TTL:           cfg.Session.TTL,
			MaxSessions:   cfg.Session.MaxSessions,
			SweepInterval: cfg.Session.SweepInterval,
			Logger:        logger,
		})
	}
	store.Start(ctx)
	defer store.Close()

	// AI services
	var factoryOpts []ai.FactoryOption
	if cfg.Embedding.RequestsPerSecond > 0 {
		factoryOpts = append(factoryOpts, ai.WithRateLimit(ai.RateLimitConfig{
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
			Burst:             cfg.Embedding.Burst,
		}))
	}
	aiServices := runtime.NewServices(runtimeConfig)
	defer aiServices.Close()

	if err := aiServices.Configure(ctx, ai.NewFactory(factoryOpts...), cfg.AISettings(), cfg.AI.ValidateOnStart); err != nil {
		if cfg.AI.ValidateOnStart {
			return fmt.Errorf("ai services: %w", err)
		}
		logger.Warn("AI services not configured", "error", err)
	}
	if !runtimeConfig.CanEmbed() {
		logger.Warn("embedding service unavailable; embed and chat requests will fail until configured")
	} else if !runtimeConfig.CanAnswer() {
		logger.Warn("generation service unavailable; chat requests will fail until configured")
	}

	// Core services
	sessionService := services.NewSessionService(store, logger)
	docService := services.NewDocumentService(services.DocumentServiceConfig{
		Store:       store,
		Services:    aiServices,
		Normalisers: normalisers.DefaultRegistry(),
		Chunking:    cfg.ChunkerConfig(),
		Concurrency: cfg.Embedding.Concurrency,
		Logger:      logger,
	})
	searchService := services.NewSearchService(store, cfg.Retrieval.TopK, logger)
	ragService := services.NewRAGService(services.RAGServiceConfig{
		Store:       store,
		Services:    aiServices,
		DefaultTopK: cfg.Retrieval.TopK,
		Logger:      logger,
	})

	server := http.NewServer(http.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	}, sessionService, docService, searchService, ragService, runtimeConfig, pinger)

	log.Printf("Starting HTTP server on %s", server.Addr())
	if err := server.Start(ctx); err != nil {
		return err
	}

	log.Println("Shutdown complete")
	return nil
}

// redisPinger adapts the Redis client to the readiness check.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
