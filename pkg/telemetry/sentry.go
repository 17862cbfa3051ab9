package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/itemservice/pkg/config"
)

const (
	sentryTraceSampleRate = 0.2
	sentryFlushTimeout    = 2 * time.Second
)

// SetupSentry turns on crash reporting when SENTRY_DSN is set. Without a DSN
// there is no client and captures are dropped.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	opts := sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          fmt.Sprintf("%s@%s", cfg.ServiceName, cfg.AppVersion),
		Debug:            cfg.Debug,
		AttachStacktrace: true,
		TracesSampleRate: sentryTraceSampleRate,
	}
	if err := sentry.Init(opts); err != nil {
		return fmt.Errorf("telemetry: sentry init: %w", err)
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", cfg.ServiceName)
	})
	return nil
}

func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware gives every request its own hub. Panics are re-raised so
// logger.Recovery still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}
