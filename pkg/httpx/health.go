package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (Database, RedisClient, EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// InfoHandler serves the service banner at "/".
func InfoHandler(title, version string) http.HandlerFunc {
	body := map[string]string{
		"message": "Welcome to " + title,
		"docs":    "/docs",
		"version": version,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, body)
	}
}

// LivenessHandler always answers 200 while the process is serving. It does
// not touch the store; use ReadinessHandler for dependency checks.
func LivenessHandler(version string) http.HandlerFunc {
	body := map[string]string{"status": "healthy", "version": version}
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, body)
	}
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ReadinessHandler returns an http.HandlerFunc that checks every named
// HealthChecker and reports degraded status if any of them fail. Nil
// checkers are optional dependencies that were not configured and are
// reported as "disabled".
func ReadinessHandler(checks map[string]HealthChecker) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readinessResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			c := checks[name]
			switch {
			case c == nil:
				resp.Checks[name] = "disabled"
			case c.Ping(ctx) != nil:
				resp.Status = "degraded"
				resp.Checks[name] = "unreachable"
			default:
				resp.Checks[name] = "ok"
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
