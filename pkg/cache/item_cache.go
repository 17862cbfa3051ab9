package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items and tombstones.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"

	// watchAttempts bounds the optimistic retries of a guarded write when
	// another writer touches the same key between WATCH and EXEC.
	watchAttempts = 5

	fieldRevision = "revision"
	fieldDeleted  = "deleted"
)

// ErrMiss is returned by Get when the key does not exist, has expired or
// holds a tombstone.
var ErrMiss = redis.Nil

// ErrContended is returned when a guarded write lost the WATCH race on
// every attempt.
var ErrContended = errors.New("cache: too much contention on item key")

// CachedItem is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash. A nil Description is stored by
// leaving the "description" field out of the hash.
type CachedItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Revision    int64     `json:"revision"`
}

// ItemCache provides revision-guarded read/write operations for item cache
// entries. Key format: "item:{itemID}"
//
// Every entry records the revision it was written at. A write only lands
// when its revision is newer than the stored one, and a delete leaves a
// tombstone holding the deleting revision. Out-of-order writers (a slow
// read-through, a late event) therefore never put back older data.
type ItemCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
// A nil client yields a nil *ItemCache, which callers treat as "caching off".
func NewItemCache(r *RedisClient) *ItemCache {
	if r == nil {
		return nil
	}
	return &ItemCache{client: r, ttl: ItemCacheTTL}
}

// Get retrieves a cached item by ID.
// Returns ErrMiss when the key does not exist, has expired or is a tombstone.
func (c *ItemCache) Get(ctx context.Context, itemID int64) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrMiss
	}
	if _, gone := vals[fieldDeleted]; gone {
		return nil, ErrMiss
	}

	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	revision, err := strconv.ParseInt(vals[fieldRevision], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse revision: %w", err)
	}

	item := &CachedItem{
		ID:        id,
		Name:      vals["name"],
		CreatedAt: createdAt,
		Revision:  revision,
	}
	if d, ok := vals["description"]; ok {
		item.Description = &d
	}
	return item, nil
}

// Set stores item unless the entry already holds the same or a newer
// revision, tombstones included. It reports whether the write landed; a
// skipped stale write is not an error.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) (bool, error) {
	fields := []any{
		"id", strconv.FormatInt(item.ID, 10),
		"name", item.Name,
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if item.Description != nil {
		fields = append(fields, "description", *item.Description)
	}
	applied, err := c.writeIfNewer(ctx, item.ID, item.Revision, fields)
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return applied, nil
}

// Delete replaces the entry with a tombstone at revision, which must be
// newer than any revision the item was stored with. The tombstone expires
// with the regular TTL. It reports whether the tombstone landed.
func (c *ItemCache) Delete(ctx context.Context, itemID, revision int64) (bool, error) {
	applied, err := c.writeIfNewer(ctx, itemID, revision, []any{fieldDeleted, "1"})
	if err != nil {
		return false, fmt.Errorf("cache delete: %w", err)
	}
	return applied, nil
}

// Evict drops whatever is stored for the item, tombstone or not. Use it for
// entries that cannot be decoded; deletes of stored items go through Delete.
func (c *ItemCache) Evict(ctx context.Context, itemID int64) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	return nil
}

// writeIfNewer replaces the hash with fields at revision when the stored
// revision is older or absent. WATCH makes the read and the replace atomic
// against other writers of the same key.
func (c *ItemCache) writeIfNewer(ctx context.Context, itemID, revision int64, fields []any) (bool, error) {
	key := c.key(itemID)
	var applied bool
	guarded := func(tx *redis.Tx) error {
		applied = false
		stored, err := tx.HGet(ctx, key, fieldRevision).Int64()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		case stored >= revision:
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, append([]any{fieldRevision, revision}, fields...)...)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		if err == nil {
			applied = true
		}
		return err
	}

	for range watchAttempts {
		err := c.client.Client().Watch(ctx, guarded, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, err
		}
		return applied, nil
	}
	return false, ErrContended
}

// IsMiss reports whether err means the entry was absent.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}

// key builds the Redis key: "item:{itemID}"
func (c *ItemCache) key(itemID int64) string {
	return fmt.Sprintf("%s:%d", itemCacheKeyPrefix, itemID)
}
