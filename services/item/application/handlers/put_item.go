package handlers

import (
	"net/http"

	"github.com/ghuser/itemservice/pkg/errhttp"
	"github.com/ghuser/itemservice/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemservice/pkg/validator"
	appsvcs "github.com/ghuser/itemservice/services/item/application/services"
)

// PutItemHandler handles PUT /items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
}

func NewPutItemHandler(svc *appsvcs.Services) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute applies a partial update. Only fields present in the body change;
// an empty object returns the item unchanged.
//
//	@Summary		Update item
//	@Description	Updates the fields present in the body. "description": null clears it; "name": null is rejected.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Item ID"
//	@Param			request	body		UpdateItemRequest	true	"Fields to change"
//	@Success		200		{object}	ItemResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		422		{object}	httpx.ValidationResponse
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
