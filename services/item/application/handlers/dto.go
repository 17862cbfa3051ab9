package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ghuser/itemservice/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemservice/pkg/validator"
	"github.com/ghuser/itemservice/services/item/domain/models"
)

func init() {
	pkgvalidator.RegisterStructValidation(validateUpdateItemRequest, UpdateItemRequest{})
}

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255" example:"Test Item"`
	Description *string `json:"description" example:"A short description"`
} // @name CreateItemRequest

// Normalize trims the name before validation so whitespace-only names fail
// "required" and padding does not count towards the length limit.
func (r *CreateItemRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateItemRequest is the request body for PUT /items/{id}. Omitted
// fields are left untouched; "description": null clears the description.
type UpdateItemRequest struct {
	Name        models.Optional[string] `json:"name" swaggertype:"string" example:"Renamed Item"`
	Description models.Optional[string] `json:"description" swaggertype:"string" example:"New description"`
} // @name UpdateItemRequest

func (r *UpdateItemRequest) Normalize() {
	if r.Name.Set && !r.Name.Null {
		r.Name.Value = strings.TrimSpace(r.Name.Value)
	}
}

func validateUpdateItemRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(UpdateItemRequest)
	if !req.Name.Set {
		return
	}
	switch {
	case req.Name.Null:
		sl.ReportError(req.Name.Value, "name", "Name", "notnull", "")
	case req.Name.Value == "":
		sl.ReportError(req.Name.Value, "name", "Name", "notblank", "")
	case utf8.RuneCountInString(req.Name.Value) > models.MaxItemNameLength:
		sl.ReportError(req.Name.Value, "name", "Name", "max", strconv.Itoa(models.MaxItemNameLength))
	}
}

// ItemResponse is the JSON representation of an Item. description is
// always present and null when unset.
type ItemResponse struct {
	ID          int64     `json:"id"          example:"1"`
	Name        string    `json:"name"        example:"Test Item"`
	Description *string   `json:"description" example:"A short description"`
	CreatedAt   time.Time `json:"created_at"  example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ErrorResponse is returned on 404, 413 and 5xx responses.
type ErrorResponse struct {
	Error string `json:"error" example:"Item with id 1 not found"`
} // @name ErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}

// parseID reads the {id} path parameter. On failure it has already written
// a 422 naming the "id" field.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.ValidationError(w, []httpx.Violation{{
			Field:      "id",
			Constraint: "integer",
			Message:    "Must be an integer",
		}})
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, *httpx.Violation) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &httpx.Violation{Field: name, Constraint: "integer", Message: "Must be an integer"}
	}
	return n, nil
}
