// Interview Labs - AI Mock Interview Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/interview-labs/internal/api"
	"github.com/ashureev/interview-labs/internal/config"
	"github.com/ashureev/interview-labs/internal/groq"
	"github.com/ashureev/interview-labs/internal/identity"
	"github.com/ashureev/interview-labs/internal/interview"
	"github.com/ashureev/interview-labs/internal/middleware"
	"github.com/ashureev/interview-labs/internal/problems"
	"github.com/ashureev/interview-labs/internal/runner"
	"github.com/ashureev/interview-labs/internal/session"
	"github.com/ashureev/interview-labs/internal/store"
	"github.com/ashureev/interview-labs/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Model pipeline: one client, two models.
	groqClient := groq.New(cfg.Groq.BaseURL, cfg.Groq.APIKey)
	classifier := interview.NewClassifier(groqClient, cfg.Groq.StageModel)
	generator := interview.NewGenerator(groqClient, cfg.Groq.ResponseModel)
	orchestrator := interview.NewOrchestrator(classifier, generator)
	evaluator := interview.NewEvaluator(groqClient, cfg.Groq.ResponseModel)

	transcripts, err := interview.NewTranscriptLogger(cfg.TranscriptLog, logger)
	if err != nil {
		slog.Error("Failed to initialize transcript logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := transcripts.Close(); closeErr != nil {
			slog.Error("Failed to close transcript logger", "error", closeErr)
		}
	}()

	problemClient := problems.New(cfg.ProblemAPIURL)
	codeRunner := runner.New(cfg.PistonAPIURL)

	// Initialize services.
	sessions := session.NewManager()

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, sessions, cfg.FrontendURL)
	interviewHandler := api.NewInterviewHandler(baseHandler, orchestrator, evaluator, problemClient, codeRunner, transcripts, cfg)
	healthHandler := api.NewHealthHandler(repo)
	wsHandler := api.NewWebSocketHandler(repo, sessions, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// All routes use identity middleware (no auth needed).
	interviewHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/interview", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start TTL worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartTTLWorker(ctx, repo, sessions, cfg.SessionTTL)
	slog.Info("TTL worker started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
