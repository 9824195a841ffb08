package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/mr1hm/ward-risk-dashboard/internal/api"
	"github.com/mr1hm/ward-risk-dashboard/internal/config"
	"github.com/mr1hm/ward-risk-dashboard/internal/dashboard"
	"github.com/mr1hm/ward-risk-dashboard/internal/floodapi"
	"github.com/mr1hm/ward-risk-dashboard/internal/logging"
	"github.com/mr1hm/ward-risk-dashboard/internal/metrics"
	"github.com/mr1hm/ward-risk-dashboard/internal/notify"
	"github.com/mr1hm/ward-risk-dashboard/internal/repository"
	"github.com/mr1hm/ward-risk-dashboard/internal/session"
	"github.com/mr1hm/ward-risk-dashboard/internal/view"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

const sessionSweepInterval = 15 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	if err := cfg.Auth.Validate(); err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "upstream", cfg.Upstream.BaseURL)

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		logging.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector()
	client := floodapi.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, floodapi.WithObserver(collector))

	// Toasts fan out to every connected browser
	broadcaster := notify.NewBroadcaster()

	dash := dashboard.New(client, wardstore.New(), broadcaster, dashboard.Options{
		PredictionHours: cfg.Dashboard.PredictionHours,
		PriorityCount:   cfg.Dashboard.PriorityCount,
		Locale:          language.Make(cfg.Dashboard.Locale),
		Metrics:         collector,
	})

	refresher := dashboard.NewRefresher(cfg, dash)
	refresher.Start(ctx)
	refresher.Trigger("startup")

	auth, err := session.NewStaticAuthenticator(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		logging.Fatalf("Failed to configure authentication: %v", err)
	}
	sessions := session.NewManager(db, db, auth, cfg.Auth.SessionTTL)
	go sweepSessions(ctx, sessions)

	renderer, err := view.NewRenderer()
	if err != nil {
		logging.Fatalf("Failed to parse templates: %v", err)
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(api.Deps{
		Dashboard:     dash,
		Sessions:      sessions,
		Notifications: broadcaster,
		Renderer:      renderer,
		Metrics:       collector,
		Upstream:      client,
		Database:      db,
		CookieSecure:  cfg.Auth.CookieSecure,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	refresher.Stop()
	broadcaster.Close() // closes notification streams

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func corsConfig(origins []string) cors.Config {
	wildcard := len(origins) == 1 && origins[0] == "*"
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !wildcard, // not allowed with wildcard origins
	}
}

func sweepSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
