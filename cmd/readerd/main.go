package main

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"

	httpadapter "github.com/randomtoy/raas-go/internal/adapters/http"
	"github.com/randomtoy/raas-go/internal/adapters/llm/openai"
	"github.com/randomtoy/raas-go/internal/adapters/postgres"
	"github.com/randomtoy/raas-go/internal/app"
	"github.com/randomtoy/raas-go/internal/config"
	"github.com/randomtoy/raas-go/internal/telemetry"
)

// stdRNG delegates to math/rand (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.Intn(n) }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.CreateSchema(db); err != nil {
		logger.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.Seed(db); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready")

	store := postgres.NewStore(db)

	llmClient := openai.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		logger,
	)

	recorder := telemetry.NewRecorder(store, logger)

	svc := app.NewReadingService(store, store, store, llmClient, recorder, stdRNG{},
		app.Defaults{
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
		},
		logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc)
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// Drain in-flight telemetry writes before the process exits.
	recorder.Close()
}
