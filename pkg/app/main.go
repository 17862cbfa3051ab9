package app

import (
	"github.com/ghuser/itemservice/pkg/cache"
	"github.com/ghuser/itemservice/pkg/config"
	"github.com/ghuser/itemservice/pkg/database"
	"github.com/ghuser/itemservice/pkg/events"
	"github.com/ghuser/itemservice/pkg/logger"
	"github.com/ghuser/itemservice/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service ItemRoutes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "processing item", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// EventBus, Redis and StoreMetrics are optional and nil when not configured.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	StoreMetrics *telemetry.StoreMetrics
}
