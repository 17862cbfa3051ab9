package handlers

import (
	"net/http"

	"github.com/ghuser/itemservice/pkg/errhttp"
	"github.com/ghuser/itemservice/pkg/httpx"
	appsvcs "github.com/ghuser/itemservice/services/item/application/services"
	itemdomain "github.com/ghuser/itemservice/services/item/domain"
)

// DeleteItemHandler handles DELETE /items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute deletes an item permanently.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		id	path	int	true	"Item ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	httpx.ValidationResponse
//	@Router		/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.svc.Item.Delete(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	if !deleted {
		errhttp.WriteError(w, r, itemdomain.NewNotFound(id))
		return
	}

	httpx.NoContent(w)
}
