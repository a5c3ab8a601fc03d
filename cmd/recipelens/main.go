package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/vbonduro/recipelens/internal/config"
	"github.com/vbonduro/recipelens/internal/db"
	"github.com/vbonduro/recipelens/internal/detect"
	"github.com/vbonduro/recipelens/internal/detect/yolo"
	"github.com/vbonduro/recipelens/internal/imagestore/local"
	"github.com/vbonduro/recipelens/internal/llm"
	"github.com/vbonduro/recipelens/internal/llm/claude"
	"github.com/vbonduro/recipelens/internal/llm/groq"
	"github.com/vbonduro/recipelens/internal/llm/ollama"
	"github.com/vbonduro/recipelens/internal/logging"
	"github.com/vbonduro/recipelens/internal/service"
	"github.com/vbonduro/recipelens/internal/session"
	"github.com/vbonduro/recipelens/internal/store"
	"github.com/vbonduro/recipelens/internal/web"
)

func main() {
	os.Exit(start())
}

// start returns the process exit code so deferred cleanup runs before exit.
func start() int {
	envErr := godotenv.Load()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Printf("failed to initialize logger: %v", err)
		return 1
	}
	defer cleanup()

	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	logger.Info("server stopped")
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	images, err := local.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	labels, err := detect.LoadLabels(cfg.DetectorLabels)
	if err != nil {
		return err
	}
	detector := yolo.NewClient(cfg.DetectorURL, cfg.DetectorModel, labels)
	logger.Info("using YOLO detector", "url", cfg.DetectorURL, "model", cfg.DetectorModel, "fallback_labels", len(labels))

	sessions, closeSessions, err := newSessionStore(ctx, cfg, database, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	svc := service.NewKitchenService(
		images,
		store.NewUploadStore(database),
		detector,
		newCompleter(cfg, logger),
		sessions,
		service.Retention{Uploads: cfg.UploadTTL, Sessions: cfg.SessionTTL},
		logger,
	)

	if cfg.UploadTTL > 0 || cfg.SessionBackend == "sqlite" {
		go svc.RunJanitor(ctx, cfg.UploadPruneInterval)
	}

	server := web.NewServer(svc, cfg.MaxUploadBytes, logger)
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

func newCompleter(cfg *config.Config, logger *slog.Logger) llm.Completer {
	switch cfg.LLMBackend {
	case "claude":
		logger.Info("using Claude LLM backend", "model", cfg.ClaudeModel)
		return claude.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel, "", cfg.LLMTimeout)
	case "ollama":
		logger.Info("using Ollama LLM backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel, cfg.LLMTimeout)
	default:
		logger.Info("using Groq LLM backend", "model", cfg.GroqModel)
		return groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqAPIURL, cfg.LLMTimeout)
	}
}

// newSessionStore returns the configured session backend and a func that
// releases it.
func newSessionStore(ctx context.Context, cfg *config.Config, database *sql.DB, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("using Redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		return session.NewRedisStore(client, cfg.SessionTTL), func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}, nil
	case "sqlite":
		logger.Info("using SQLite session store", "ttl", cfg.SessionTTL)
		return store.NewSessionStore(database), func() {}, nil
	default:
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}
}
