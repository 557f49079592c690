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
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/hosteldesk/complaints-backend/internal/adapters/primary/http"
	mw "github.com/hosteldesk/complaints-backend/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/hosteldesk/complaints-backend/internal/adapters/primary/websocket"
	"github.com/hosteldesk/complaints-backend/internal/adapters/secondary/postgres"
	"github.com/hosteldesk/complaints-backend/internal/adapters/secondary/telegram"
	"github.com/hosteldesk/complaints-backend/internal/auth"
	"github.com/hosteldesk/complaints-backend/internal/config"
	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/services"
	"github.com/hosteldesk/complaints-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	registry := wsAdapter.NewRegistry(logger)

	scopePolicy := wsAdapter.ScopeGlobal
	if cfg.WebSocket.ScopeUpdates {
		scopePolicy = wsAdapter.ScopeHostel
	}
	router := wsAdapter.NewRouter(registry, scopePolicy, logger)

	notifier := telegram.NewNotifier(
		telegram.NewBotSender(cfg.Notification.BotToken),
		telegram.Config{
			Enabled:          cfg.Notification.Enabled,
			HighSeverityOnly: cfg.Notification.HighSeverityOnly,
			RateLimitWindow:  cfg.Notification.RateLimitWindow,
			MaxPerWindow:     cfg.Notification.MaxPerWindow,
			Recipients:       cfg.Notification.AdminChatIDs,
		},
		logger,
	)

	dispatcher := services.NewDispatcher(router, notifier, logger)

	// Periodic sweep for sockets that died without a clean close signal.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go runSweeper(sweepCtx, registry, cfg.Sweep, logger)

	// 5. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	userRepo := postgres.NewUserRepository(pool)
	complaintRepo := postgres.NewComplaintRepository(pool)

	// Services (Core)
	authService := services.NewAuthService(userRepo)
	complaintService := services.NewComplaintService(complaintRepo, dispatcher, logger)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger)
	complaintHandler := httpAdapter.NewComplaintHandler(complaintService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(registry, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, registry, cfg.App.Version)
	statsHandler := httpAdapter.NewStatsHandler(registry)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/complaints", complaintHandler.RegisterRoutes)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(string(domain.RoleAdmin)))
				r.Get("/ws/stats", statsHandler.HandleStats)
			})
		})
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

// runSweeper periodically removes connections that have gone quiet. It
// stops cleanly when the context is cancelled at shutdown.
func runSweeper(ctx context.Context, registry *wsAdapter.Registry, cfg config.SweepConfig, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := registry.Sweep(cfg.MaxIdle); removed > 0 {
				logger.Info("sweep removed idle connections", "removed", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
