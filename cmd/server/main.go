// Horizon chat — conversational front-end for the Horizon web studio.
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/horizonweb/horizon-chat/internal/api"
	"github.com/horizonweb/horizon-chat/internal/catalog"
	"github.com/horizonweb/horizon-chat/internal/chat"
	"github.com/horizonweb/horizon-chat/internal/config"
	"github.com/horizonweb/horizon-chat/internal/gate"
	"github.com/horizonweb/horizon-chat/internal/identity"
	"github.com/horizonweb/horizon-chat/internal/middleware"
	"github.com/horizonweb/horizon-chat/internal/provider"
	"github.com/horizonweb/horizon-chat/internal/reply"
	"github.com/horizonweb/horizon-chat/internal/store"
	"github.com/horizonweb/horizon-chat/web"
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

	slog.Info("Starting server", "port", cfg.Port, "site", cfg.SiteName, "dev", cfg.IsDevelopment())

	cat := catalog.Load(cfg.PlanCatalogFile, cfg.PlanCatalogJSON)
	slog.Info("Plan catalog ready", "plans", cat.Keys())

	// Initialize dependencies.
	sessions := store.NewMemory(cfg.SessionCacheSize)

	var remote provider.Provider
	if cfg.RemoteEnabled() {
		remote = provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.SiteName, cat, cfg.Contact)
		slog.Info("Remote answer provider enabled", "model", cfg.OpenAIModel)
	} else {
		remote = provider.Disabled{}
		slog.Info("Remote answer provider disabled (OPENAI_API_KEY not set)")
	}

	transcript, err := chat.NewTranscript(cfg.Transcript)
	if err != nil {
		slog.Error("Failed to initialize transcript logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := transcript.Close(); closeErr != nil {
			slog.Error("Failed to close transcript logger", "error", closeErr)
		}
	}()

	g := gate.New(cfg.MaxMsgsPerSession, cfg.Cooldown, cfg.RateLimitPerMin, cfg.Contact)
	resolver := reply.New(cat, cfg.Contact, cfg.SiteName, cfg.MaxMsgsPerSession, remote)
	svc := chat.New(sessions, g, resolver, cfg.MaxMsgsPerSession, cfg.Cooldown, transcript)

	// Initialize handlers.
	chatHandler := api.NewChatHandler(svc, cat, cfg.SiteName)
	wsHandler := api.NewWSHandler(svc, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	corsOrigins := []string{"*"}
	if !cfg.IsDevelopment() {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))

	// The identity middleware mints the anon cookie for the HTTP chat routes.
	// The WebSocket route sits outside it and derives its key from the
	// handshake request, falling back to the remote IP.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		chatHandler.RegisterRoutes(r)
	})
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Embedded chat page for manual testing.
	r.Handle("/widget/*", http.StripPrefix("/widget/", web.Handler()))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
