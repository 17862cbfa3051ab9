package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the item repository inside the write
// transaction.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// Topics lists every item topic, in publish order for one item's life.
func Topics() []string {
	return []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}
}

// EventVersion is the schema version stamped on every item event.
// Increment on breaking payload changes. Version 2 added revisions.
const EventVersion = 2

// ItemSnapshot is the full state of an item carried by created and
// updated events, enough for consumers to rebuild a read model. Topics are
// consumed independently, so consumers must order snapshots by Revision
// rather than by arrival.
type ItemSnapshot struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Revision    int64     `json:"revision"`
}

// ItemCreatedEvent is published after a new Item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID    uuid.UUID    `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int          `json:"version"`
	Item       ItemSnapshot `json:"item"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// ItemUpdatedEvent is published after an update commits. Item is the
// state after the update.
type ItemUpdatedEvent struct {
	EventID    uuid.UUID    `json:"event_id"`
	Version    int          `json:"version"`
	Item       ItemSnapshot `json:"item"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// ItemDeletedEvent is published after a delete commits. Revision is one
// past the last stored revision, so it outranks every snapshot of the item.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	Revision   int64     `json:"revision"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SchemaVersion reports the payload version a consumer decoded.
func (e ItemCreatedEvent) SchemaVersion() int { return e.Version }

func (e ItemUpdatedEvent) SchemaVersion() int { return e.Version }

func (e ItemDeletedEvent) SchemaVersion() int { return e.Version }
