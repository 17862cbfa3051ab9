package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/ghuser/itemservice/pkg/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validator: registering notblank: %v", err))
	}
}

// Normalizer is implemented by request types that clean up their fields
// (trimming, case folding) after decoding and before validation.
type Normalizer interface {
	Normalize()
}

// RegisterStructValidation adds a struct-level rule for each of types.
// Call it from package init; the shared validator is not safe to mutate
// while requests are in flight.
func RegisterStructValidation(fn validator.StructLevelFunc, types ...any) {
	validate.RegisterStructValidation(fn, types...)
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	for _, v := range Violations(err) {
		errs[v.Field] = v.Message
	}
	return errs
}

// Violations flattens validator.ValidationErrors into the 422 response
// shape. Any other error yields nil.
func Violations(err error) []httpx.Violation {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]httpx.Violation, 0, len(ve))
	for _, e := range ve {
		out = append(out, httpx.Violation{
			Field:      e.Field(),
			Constraint: e.Tag(),
			Message:    formatFieldError(e),
		})
	}
	return out
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notnull":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Minimum length is %s", e.Param())
		}
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Maximum length is %s", e.Param())
		}
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "integer", "numeric":
		return "Must be an integer"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// ValidateRequest decodes the JSON request body into T, normalizes and
// validates it, and writes an appropriate error response if any step fails.
//
//	malformed JSON        → 422 on "body" (constraint "json")
//	empty body            → 422 on "body"
//	oversized body        → 413
//	wrong JSON value type → 422 on the offending field
//	failed validation     → 422 with every violated constraint
//
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			httpx.ValidationError(w, []httpx.Violation{{
				Field:      typeErr.Field,
				Constraint: "type",
				Message:    fmt.Sprintf("Must be of type %s", jsonKind(typeErr.Type)),
			}})
		case errors.As(err, &maxErr):
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			httpx.ValidationError(w, []httpx.Violation{{
				Field:      "body",
				Constraint: "required",
				Message:    "This field is required",
			}})
		default:
			httpx.ValidationError(w, []httpx.Violation{{
				Field:      "body",
				Constraint: "json",
				Message:    "Invalid JSON",
			}})
		}
		return nil, false
	}
	if n, ok := any(&req).(Normalizer); ok {
		n.Normalize()
	}
	if err := Validate(&req); err != nil {
		httpx.ValidationError(w, Violations(err))
		return nil, false
	}
	return &req, true
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
