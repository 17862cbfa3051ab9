package services

import (
	"github.com/ghuser/itemservice/pkg/app"
	"github.com/ghuser/itemservice/pkg/cache"
	"github.com/ghuser/itemservice/services/item/infrastructure/persistence/sqlstore"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := sqlstore.NewItemRepository(a.Db, a.EventBus, a.StoreMetrics)

	// A nil *ItemCache must not be stored in the interface.
	var itemCache ItemCache
	if c := cache.NewItemCache(a.Redis); c != nil {
		itemCache = c
	}

	return &Services{
		Item: NewItemService(repo, itemCache, a.Logger),
	}
}
