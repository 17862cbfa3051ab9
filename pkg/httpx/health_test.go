package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/itemservice/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serveReadiness(t *testing.T, checks map[string]httpx.HealthChecker) (*httptest.ResponseRecorder, readiness) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.ReadinessHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))
	var resp readiness
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr, resp
}

func TestInfoHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.InfoHandler("Item Service", "1.0.0").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{"message": "Welcome to Item Service", "docs": "/docs", "version": "1.0.0"}
	for k, v := range want {
		if resp[k] != v {
			t.Errorf("%s: got %q, want %q", k, resp[k], v)
		}
	}
}

func TestLivenessHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.LivenessHandler("2.3.4").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "healthy" || resp["version"] != "2.3.4" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	rr, resp := serveReadiness(t, map[string]httpx.HealthChecker{
		"database":  &stubChecker{},
		"redis":     &stubChecker{},
		"event_bus": &stubChecker{},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
}

func TestReadinessHandler_DatabaseDown(t *testing.T) {
	rr, resp := serveReadiness(t, map[string]httpx.HealthChecker{
		"database": &stubChecker{err: errors.New("conn refused")},
		"redis":    &stubChecker{},
	})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if resp.Status != "degraded" || resp.Checks["database"] != "unreachable" || resp.Checks["redis"] != "ok" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestReadinessHandler_NilCheckerIsDisabled(t *testing.T) {
	rr, resp := serveReadiness(t, map[string]httpx.HealthChecker{
		"database": &stubChecker{},
		"redis":    nil,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if resp.Checks["redis"] != "disabled" {
		t.Errorf("redis: got %q, want disabled", resp.Checks["redis"])
	}
}

func TestReadinessHandler_AllDown(t *testing.T) {
	rr, resp := serveReadiness(t, map[string]httpx.HealthChecker{
		"database":  &stubChecker{err: errors.New("down")},
		"redis":     &stubChecker{err: errors.New("down")},
		"event_bus": &stubChecker{err: errors.New("down")},
	})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	for name, state := range resp.Checks {
		if state != "unreachable" {
			t.Errorf("%s: got %q, want unreachable", name, state)
		}
	}
}

func TestReadinessHandler_ContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.ReadinessHandler(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))

	ct := rr.Header().Get("Content-Type")
	if ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json; charset=utf-8")
	}
}
