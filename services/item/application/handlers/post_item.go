package handlers

import (
	"net/http"

	"github.com/ghuser/itemservice/pkg/errhttp"
	"github.com/ghuser/itemservice/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemservice/pkg/validator"
	appsvcs "github.com/ghuser/itemservice/services/item/application/services"
)

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates an item. The store assigns id and created_at.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item to create"
//	@Success		201		{object}	ItemResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		422		{object}	httpx.ValidationResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
