// Package errhttp maps domain errors to HTTP responses.
// Add a case to Status for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/ghuser/itemservice/pkg/httpx"
	itemdomain "github.com/ghuser/itemservice/services/item/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is()/errors.As() so wrapped errors are matched correctly.
//
//   - *domain.FieldError anywhere in the chain → 422 with every field violation
//   - ErrItemNotFound → 404 {"error":"Item with id N not found"}
//   - ErrStoreUnavailable → 503, anything else → 500, both with a generic
//     body; the error itself goes to Sentry through the request's hub
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if violations := FieldViolations(err); len(violations) > 0 {
		httpx.ValidationError(w, violations)
		return
	}

	status := Status(err)
	if status >= http.StatusInternalServerError {
		capture(r, err)
	}
	httpx.JSONError(w, status, message(err, status))
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	var fe *itemdomain.FieldError
	switch {
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrInvalidItemName),
		errors.Is(err, itemdomain.ErrInvalidPagination):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, itemdomain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// FieldViolations collects every *domain.FieldError in err's tree,
// following both single and joined wrapping.
func FieldViolations(err error) []httpx.Violation {
	var out []httpx.Violation
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if fe, ok := e.(*itemdomain.FieldError); ok {
			out = append(out, httpx.Violation{
				Field:      fe.Field,
				Constraint: fe.Constraint,
				Message:    fe.Message,
			})
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

func message(err error, status int) string {
	var nf *itemdomain.NotFoundError
	if status == http.StatusNotFound && errors.As(err, &nf) {
		return nf.Error()
	}
	return httpx.SafeError(err, status)
}

func capture(r *http.Request, err error) {
	if r != nil {
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
			return
		}
	}
	sentry.CaptureException(err)
}
