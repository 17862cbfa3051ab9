package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/itemservice/docs/swagger"
	"github.com/ghuser/itemservice/pkg/app"
	"github.com/ghuser/itemservice/pkg/cache"
	"github.com/ghuser/itemservice/pkg/config"
	"github.com/ghuser/itemservice/pkg/database"
	"github.com/ghuser/itemservice/pkg/events"
	"github.com/ghuser/itemservice/pkg/httpx"
	"github.com/ghuser/itemservice/pkg/logger"
	"github.com/ghuser/itemservice/pkg/migrator"
	"github.com/ghuser/itemservice/pkg/telemetry"
	itemApi "github.com/ghuser/itemservice/services/item/application/api"
	itemEvents "github.com/ghuser/itemservice/services/item/domain/events"
)

// @title			Item Service
// @version		1.0.0
// @description	CRUD API for items backed by a relational store.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8000
// @BasePath		/api/v1
// @schemes		http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	storeMetrics, err := telemetry.NewStoreMetrics()
	if err != nil {
		log.Warn("failed to register store metrics, continuing without them", "error", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected", "dialect", pool.Dialect())

	if cfg.AutoMigrate {
		if err := migrate(ctx, pool, log); err != nil {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	var eventBus *events.EventBus
	if cfg.EventBusEnabled && pool.Dialect() == database.DialectPostgres {
		eventBus, err = events.New(pool, events.Options{UseForwarder: true}, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck

		if err := eventBus.InitializeTopics(itemEvents.Topics()...); err != nil {
			log.Error("failed to initialize event topics", "error", err)
			os.Exit(1) //nolint:gocritic
		}

		fwdCtx, cancelFwd := context.WithCancel(ctx)
		defer cancelFwd()
		if err := eventBus.StartForwarder(fwdCtx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	} else {
		log.Info("event bus disabled", "enabled", cfg.EventBusEnabled, "dialect", pool.Dialect())
	}

	var redisClient *cache.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
	}

	appConfig := &app.Application{
		Config:       cfg,
		Db:           pool,
		Logger:       log,
		EventBus:     eventBus,
		Redis:        redisClient,
		StoreMetrics: storeMetrics,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/", httpx.InfoHandler(cfg.AppTitle, cfg.AppVersion))
	r.Get("/health", httpx.LivenessHandler(cfg.AppVersion))
	r.Get("/ready", httpx.ReadinessHandler(readinessChecks(appConfig)))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	swagger.SwaggerInfo.Version = cfg.AppVersion
	r.Get("/docs", http.RedirectHandler("/docs/index.html", http.StatusMovedPermanently).ServeHTTP)
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
	r.Route("/api/v1", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(cfg.Addr(), r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// migrate applies pending schema migrations before the listener starts.
func migrate(ctx context.Context, pool *database.Database, log logger.Logger) error {
	m, err := migrator.New(pool)
	if err != nil {
		return err
	}
	applied, err := m.Up(ctx)
	if err != nil {
		return err
	}
	log.Info("migrations applied", "count", len(applied), "versions", applied)
	return nil
}

// readinessChecks lists the dependencies /ready checks. Optional ones that
// are not configured stay nil and report "disabled".
func readinessChecks(a *app.Application) map[string]httpx.HealthChecker {
	checks := map[string]httpx.HealthChecker{
		"database": a.Db,
		"redis":    nil,
		"events":   nil,
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis
	}
	if a.EventBus != nil {
		checks["events"] = a.EventBus
	}
	return checks
}

// registerRoutes mounts all service routes under /api/v1.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	itemApi.ItemRoutes(r, a)
}
