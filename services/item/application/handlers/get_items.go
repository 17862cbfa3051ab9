package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/itemservice/pkg/errhttp"
	"github.com/ghuser/itemservice/pkg/httpx"
	appsvcs "github.com/ghuser/itemservice/services/item/application/services"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute lists items, newest first. The total number of items is returned
// in the X-Total-Count header.
//
//	@Summary		List items
//	@Tags			items
//	@Produce		json
//	@Param			skip	query		int	false	"Items to skip"		default(0)	minimum(0)
//	@Param			limit	query		int	false	"Maximum items"		default(100)	minimum(0)
//	@Success		200		{array}		ItemResponse
//	@Header			200		{integer}	X-Total-Count	"Total number of items"
//	@Failure		422		{object}	httpx.ValidationResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var violations []httpx.Violation
	skip, v := queryInt(r, "skip", defaultSkip)
	if v != nil {
		violations = append(violations, *v)
	}
	limit, v := queryInt(r, "limit", defaultLimit)
	if v != nil {
		violations = append(violations, *v)
	}
	if len(violations) > 0 {
		httpx.ValidationError(w, violations)
		return
	}

	items, total, err := h.svc.Item.List(r.Context(), skip, limit)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	httpx.JSON(w, http.StatusOK, resp)
}
