package services

import (
	"context"
	"fmt"

	pkgcache "github.com/ghuser/itemservice/pkg/cache"
	"github.com/ghuser/itemservice/pkg/logger"
	"github.com/ghuser/itemservice/services/item/domain/models"
	"github.com/ghuser/itemservice/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemservice/services/item/domain/services"
)

// ItemCache is the read model the service keeps in step with the store.
// Set and Delete must ignore writes older than the stored revision, since a
// read-through can race a concurrent write. *cache.ItemCache satisfies it.
type ItemCache interface {
	Get(ctx context.Context, id int64) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) (bool, error)
	Delete(ctx context.Context, id, revision int64) (bool, error)
	Evict(ctx context.Context, id int64) error
}

// ItemService orchestrates Item CRUD on top of the repository.
// Event publishing is handled by the repository layer (outbox pattern).
// Reads are served from the cache when one is configured; cache failures
// are logged and never fail the request.
type ItemService struct {
	repo  repositories.ItemRepository
	cache ItemCache
	log   logger.Logger
}

// NewItemService returns an ItemService wired with the given repository and
// cache. Pass a nil cache to disable caching.
func NewItemService(repo repositories.ItemRepository, cache ItemCache, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, cache: cache, log: log}
}

// Create validates and persists an Item. The repository publishes ItemCreatedEvent.
func (s *ItemService) Create(ctx context.Context, name string, description *string) (*models.Item, error) {
	in, err := models.NewCreateInput(name, description)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	item, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.cacheSet(ctx, item)
	return item, nil
}

// GetByID retrieves an Item using a read-through cache pattern:
//  1. Check the cache first.
//  2. On miss, cache error or a corrupt entry, query the store.
//  3. Warm the cache with the store result. The warm is dropped if a write
//     committed a newer revision or a tombstone in the meantime.
func (s *ItemService) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	if item, ok := s.cacheGet(ctx, id); ok {
		return item, nil
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	s.cacheSet(ctx, item)
	return item, nil
}

// List returns a page of items, newest first, plus the total count.
// skip and limit must be non-negative; limit has no upper bound.
func (s *ItemService) List(ctx context.Context, skip, limit int) ([]*models.Item, int, error) {
	if err := domainsvcs.ValidatePagination(skip, limit); err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	items, total, err := s.repo.List(ctx, repositories.QueryOpts{Offset: skip, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// Update applies the fields present in the request. A null name is
// rejected; a null description clears it. With nothing present the current
// item is returned unchanged.
func (s *ItemService) Update(ctx context.Context, id int64, name, description models.Optional[string]) (*models.Item, error) {
	in, err := models.NewUpdateInput(name, description)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	item, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.cacheSet(ctx, item)
	return item, nil
}

// Delete removes an item by ID and leaves a cache tombstone so a racing
// read-through cannot bring it back. It reports false when there was none.
func (s *ItemService) Delete(ctx context.Context, id int64) (bool, error) {
	revision, deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	if deleted {
		s.cacheTombstone(ctx, id, revision)
	}
	return deleted, nil
}

func (s *ItemService) cacheGet(ctx context.Context, id int64) (*models.Item, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		if !pkgcache.IsMiss(err) {
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
		return nil, false
	}
	item := &models.Item{
		ID:          cached.ID,
		Name:        models.ItemName(cached.Name),
		Description: cached.Description,
		CreatedAt:   cached.CreatedAt,
		Revision:    cached.Revision,
	}
	if err := domainsvcs.ValidateStoredItem(item); err != nil || item.ID != id {
		s.log.WarnContext(ctx, "discarding corrupt item cache entry", "item_id", id, "error", err)
		if err := s.cache.Evict(ctx, id); err != nil {
			s.log.WarnContext(ctx, "item cache evict failed", "item_id", id, "error", err)
		}
		return nil, false
	}
	return item, true
}

func (s *ItemService) cacheSet(ctx context.Context, item *models.Item) {
	if s.cache == nil {
		return
	}
	applied, err := s.cache.Set(ctx, ToCachedItem(item))
	if err != nil {
		s.log.WarnContext(ctx, "item cache write failed", "item_id", item.ID, "error", err)
		return
	}
	if !applied {
		s.log.DebugContext(ctx, "item cache holds a newer revision", "item_id", item.ID, "revision", item.Revision)
	}
}

func (s *ItemService) cacheTombstone(ctx context.Context, id, revision int64) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Delete(ctx, id, revision); err != nil {
		s.log.WarnContext(ctx, "item cache tombstone failed", "item_id", id, "error", err)
	}
}

// ToCachedItem converts a domain item to its cache representation.
func ToCachedItem(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		Revision:    item.Revision,
	}
}
