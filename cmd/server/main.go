package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/config"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/handler"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/metrics"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/middleware"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/repository"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/migrations"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	slog.SetDefault(newLogger(cfg.Log))

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	portalMetrics := metrics.NewPortalMetrics(reg)
	storeMetrics := metrics.NewStoreMetrics(reg)

	// Initialize database connection
	conn := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := conn.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("namespace", cfg.Database.Namespace),
		slog.String("database", cfg.Database.Database),
	)

	db := database.NewBreaker(conn, database.BreakerConfig{
		MaxFailures: cfg.Database.BreakerMaxFailures,
		OpenTimeout: cfg.Database.BreakerOpenTimeout,
	}, storeMetrics)

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		slog.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize session tokens
	tokens, err := jwt.NewService(jwt.Config{
		Secret:     cfg.Session.AccessKey,
		Issuer:     cfg.Session.Issuer,
		Expiration: cfg.Session.TTL,
	})
	if err != nil {
		slog.Error("failed to initialize session tokens", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	// Initialize services
	sessionService := service.NewSessionService(service.SessionServiceConfig{
		Tokens:  tokens,
		Metrics: portalMetrics,
	})
	jobService := service.NewJobService(service.JobServiceConfig{
		JobRepo: jobRepo,
		Metrics: portalMetrics,
	})
	applicationService := service.NewApplicationService(service.ApplicationServiceConfig{
		ApplicationRepo: applicationRepo,
		JobRepo:         jobRepo,
		Metrics:         portalMetrics,
		OwnerCheck:      cfg.ApplicantsOwnerCheck,
	})

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	sessionHandler := handler.NewSessionHandler(handler.SessionHandlerConfig{
		Sessions:   sessionService,
		Production: cfg.IsProduction(),
	})
	jobHandler := handler.NewJobHandler(jobService)
	applicationHandler := handler.NewApplicationHandler(applicationService)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore, closeStore := newIdempotencyStore(ctx, cfg)
	defer closeStore()

	requireSession := middleware.Session(sessionService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler(reg))

	// Session endpoints
	mux.HandleFunc("POST /jwt", sessionHandler.Issue)
	mux.HandleFunc("POST /logout", sessionHandler.Logout)

	// Job endpoints
	mux.HandleFunc("GET /jobs", jobHandler.List)
	mux.HandleFunc("POST /jobs", jobHandler.Create)
	mux.HandleFunc("GET /jobs/{id}", jobHandler.Get)

	// Application endpoints
	mux.Handle("GET /apply-jobs", requireSession(http.HandlerFunc(applicationHandler.ListMine)))
	mux.Handle("GET /apply-jobs/jobs/{id}", requireSession(http.HandlerFunc(applicationHandler.ListForJob)))
	mux.HandleFunc("POST /apply-jobs", applicationHandler.Create)
	mux.HandleFunc("PATCH /apply-jobs/{id}", applicationHandler.UpdateStatus)

	// Apply global middleware. Metrics wraps the mux directly so the matched
	// pattern is visible as the route label.
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Metrics(httpMetrics),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newIdempotencyStore returns the Redis store when REDIS_URL is set and the
// in-process store otherwise. The returned func releases the store.
func newIdempotencyStore(ctx context.Context, cfg *config.Config) (middleware.IdempotencyStore, func()) {
	if cfg.Redis.URL == "" {
		store := middleware.NewMemoryIdempotencyStore(middleware.IdempotencyConfig{TTL: cfg.Idempotency.TTL})
		slog.Info("using in-memory idempotency store")
		return store, store.Stop
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.Error("invalid REDIS_URL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rdb := redis.NewClient(opts)

	store := middleware.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL, 0)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		slog.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("using redis idempotency store", slog.String("addr", opts.Addr))
	return store, func() { _ = rdb.Close() }
}
