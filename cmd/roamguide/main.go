package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/RoamGuide/internal/adapter/catalogsvc"
	rghttp "github.com/Strob0t/RoamGuide/internal/adapter/http"
	"github.com/Strob0t/RoamGuide/internal/adapter/llmagent"
	"github.com/Strob0t/RoamGuide/internal/adapter/memory"
	rgotel "github.com/Strob0t/RoamGuide/internal/adapter/otel"
	"github.com/Strob0t/RoamGuide/internal/adapter/ristretto"
	"github.com/Strob0t/RoamGuide/internal/adapter/usagesvc"
	"github.com/Strob0t/RoamGuide/internal/adapter/ws"
	"github.com/Strob0t/RoamGuide/internal/config"
	"github.com/Strob0t/RoamGuide/internal/domain/gate"
	"github.com/Strob0t/RoamGuide/internal/domain/intent"
	"github.com/Strob0t/RoamGuide/internal/logger"
	rgmw "github.com/Strob0t/RoamGuide/internal/middleware"
	"github.com/Strob0t/RoamGuide/internal/ratelimit"
	"github.com/Strob0t/RoamGuide/internal/resilience"
	"github.com/Strob0t/RoamGuide/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"session_ttl", cfg.Session.TTL,
	)

	shutdownTracer := rgotel.InitTracer("roamguide")
	defer func() { _ = shutdownTracer(context.Background()) }()

	metrics, err := rgotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	planCache, err := ristretto.New(cfg.Catalog.CacheSizeMB << 20)
	if err != nil {
		return fmt.Errorf("plan cache: %w", err)
	}
	defer planCache.Close()

	catalogClient := catalogsvc.NewClient(cfg.Catalog.URL, planCache, cfg.Catalog.CacheTTL)
	catalogClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Cooldown))

	usageClient := usagesvc.NewClient(cfg.Usage.URL)
	usageClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Cooldown))

	runner := newLazyRunner(cfg, catalogClient, usageClient)

	store := memory.NewSessionStore(cfg.Session.TTL)
	limiter := ratelimit.New(cfg.Rate.Window, cfg.Rate.MaxRequests)

	// --- Services ---

	hub := ws.NewHub()
	sessionSvc := service.NewSessionService(store)
	chatSvc := service.NewChatService(
		store,
		runner,
		intent.NewKeyword(),
		gate.Default(),
		hub,
		metrics,
		cfg.Agent.MaxResumeRounds,
	)

	// --- HTTP ---

	handlers := rghttp.NewHandlers(chatSvc, sessionSvc, limiter, metrics)

	r := chi.NewRouter()
	r.Use(rghttp.CORS(cfg.Server.CORSOrigin))
	r.Use(rghttp.SecurityHeaders)
	r.Use(rgmw.RequestID)
	r.Use(rghttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(2 * cfg.Agent.RunTimeout))
	r.Use(rgotel.HTTPMiddleware("roamguide"))

	rghttp.MountRoutes(r, handlers, hub.HandleWS)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * cfg.Agent.RunTimeout,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopSweeper := store.StartSweeper(cfg.Session.SweepInterval)
	defer stopSweeper()
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval)
	defer stopCleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLazyRunner defers constructing the reasoning-layer client until the
// first turn needs it, with construct-once semantics, and bounds every call
// with the configured run timeout.
func newLazyRunner(cfg *config.Config, cat *catalogsvc.Client, usg *usagesvc.Client) *lazyRunner {
	return &lazyRunner{
		timeout: cfg.Agent.RunTimeout,
		build: func() *llmagent.Runner {
			slog.Info("constructing agent runner", "model", cfg.LLM.Model, "url", cfg.LLM.URL)
			return llmagent.NewRunner(cfg.LLM, cat, usg)
		},
	}
}
