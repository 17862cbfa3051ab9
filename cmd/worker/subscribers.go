package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/itemservice/pkg/app"
	"github.com/ghuser/itemservice/pkg/cache"
	"github.com/ghuser/itemservice/pkg/logger"
	itemEvents "github.com/ghuser/itemservice/services/item/domain/events"
)

// readModel is the part of the item cache the worker writes to. Both
// writes are revision-guarded and report whether they landed.
type readModel interface {
	Set(ctx context.Context, item *cache.CachedItem) (bool, error)
	Delete(ctx context.Context, id, revision int64) (bool, error)
}

type handlerFunc = func(context.Context, *message.Message) error

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	rm := cache.NewItemCache(a.Redis)
	handlers := map[string]handlerFunc{
		itemEvents.TopicItemCreated: handleItemCreated(rm, a.Logger),
		itemEvents.TopicItemUpdated: handleItemUpdated(rm, a.Logger),
		itemEvents.TopicItemDeleted: handleItemDeleted(rm, a.Logger),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// Handlers must be idempotent and order-free: the EventBus retries up to 3
// times, the SQL transport delivers at least once and each topic is consumed
// on its own. The read model keeps the highest revision it has seen, so a
// redelivered or late event is a no-op.

func handleItemCreated(rm readModel, log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := decode(msg, &evt); err != nil {
			return err
		}
		return applySnapshot(ctx, rm, log, evt.Item, evt.EventID.String())
	}
}

func handleItemUpdated(rm readModel, log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemUpdatedEvent
		if err := decode(msg, &evt); err != nil {
			return err
		}
		return applySnapshot(ctx, rm, log, evt.Item, evt.EventID.String())
	}
}

func handleItemDeleted(rm readModel, log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemDeletedEvent
		if err := decode(msg, &evt); err != nil {
			return err
		}
		applied, err := rm.Delete(ctx, evt.ItemID, evt.Revision)
		if err != nil {
			return fmt.Errorf("tombstone item %d: %w", evt.ItemID, err)
		}
		log.InfoContext(ctx, "cache tombstoned",
			"item_id", evt.ItemID, "revision", evt.Revision, "applied", applied, "event_id", evt.EventID)
		return nil
	}
}

func applySnapshot(ctx context.Context, rm readModel, log logger.Logger, snap itemEvents.ItemSnapshot, eventID string) error {
	applied, err := rm.Set(ctx, fromSnapshot(snap))
	if err != nil {
		return fmt.Errorf("cache item %d: %w", snap.ID, err)
	}
	if !applied {
		log.InfoContext(ctx, "stale item event skipped", "item_id", snap.ID, "revision", snap.Revision, "event_id", eventID)
		return nil
	}
	log.InfoContext(ctx, "cache refreshed", "item_id", snap.ID, "revision", snap.Revision, "event_id", eventID)
	return nil
}

// decode unmarshals the payload and rejects schema versions this worker
// does not understand.
func decode(msg *message.Message, v interface{ SchemaVersion() int }) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode message %s: %w", msg.UUID, err)
	}
	if got := v.SchemaVersion(); got != itemEvents.EventVersion {
		return fmt.Errorf("message %s: unsupported event version %d", msg.UUID, got)
	}
	return nil
}

func fromSnapshot(s itemEvents.ItemSnapshot) *cache.CachedItem {
	return &cache.CachedItem{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		Revision:    s.Revision,
	}
}
