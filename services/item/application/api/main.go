package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemservice/pkg/app"
	"github.com/ghuser/itemservice/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemservice/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router. Both
// /items and /items/ address the collection.
func ItemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
			r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutItemHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs).Execute)
		})
	})
}
