package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as JSON with the given status code. Content-Type and
// X-Content-Type-Options headers are set automatically. Encoding errors are
// silently discarded; use this for handler responses, not for streaming.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NoContent writes a bodiless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Violation is one failed constraint on one input field.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// ValidationResponse is the 422 body. Fields keeps the flat field → message
// map older clients read; Violations carries the constraint names too.
type ValidationResponse struct {
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields"`
	Violations []Violation       `json:"violations"`
}

// ValidationError writes a 422 listing every violation.
func ValidationError(w http.ResponseWriter, violations []Violation) {
	fields := make(map[string]string, len(violations))
	for _, v := range violations {
		if _, seen := fields[v.Field]; !seen {
			fields[v.Field] = v.Message
		}
	}
	if violations == nil {
		violations = []Violation{}
	}
	JSON(w, http.StatusUnprocessableEntity, ValidationResponse{
		Error:      "Validation failed",
		Fields:     fields,
		Violations: violations,
	})
}

// SafeError returns the error message for client responses.
// Server errors (5xx) are replaced with the generic status text so store
// and driver details never reach the client.
func SafeError(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
