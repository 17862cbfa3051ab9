package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/itemservice/pkg/httpx"
)

func TestJSON_setsHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if xct := w.Header().Get("X-Content-Type-Options"); xct != "nosniff" {
		t.Errorf("expected nosniff, got %q", xct)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusNotFound, "Item with id 7 not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["error"] != "Item with id 7 not found" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.NoContent(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.ValidationError(w, []httpx.Violation{
		{Field: "name", Constraint: "required", Message: "This field is required"},
		{Field: "name", Constraint: "max", Message: "Maximum length is 255"},
		{Field: "skip", Constraint: "gte", Message: "Must be greater than or equal to 0"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var body httpx.ValidationResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error != "Validation failed" {
		t.Errorf("unexpected error: %q", body.Error)
	}
	if len(body.Violations) != 3 {
		t.Errorf("expected 3 violations, got %d", len(body.Violations))
	}
	if body.Fields["name"] != "This field is required" {
		t.Errorf("first message per field should win, got %q", body.Fields["name"])
	}
	if body.Violations[2].Constraint != "gte" {
		t.Errorf("unexpected constraint: %q", body.Violations[2].Constraint)
	}
}

func TestValidationError_nilViolationsEncodesEmptyArray(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.ValidationError(w, nil)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(body["violations"]) != "[]" {
		t.Errorf("expected [], got %s", body["violations"])
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New("pq: relation \"items\" does not exist")

	if got := httpx.SafeError(err, http.StatusInternalServerError); got != "Internal Server Error" {
		t.Errorf("5xx should be generic, got %q", got)
	}
	if got := httpx.SafeError(err, http.StatusServiceUnavailable); got != "Service Unavailable" {
		t.Errorf("5xx should be generic, got %q", got)
	}
	if got := httpx.SafeError(err, http.StatusNotFound); got != err.Error() {
		t.Errorf("4xx should pass through, got %q", got)
	}
}
