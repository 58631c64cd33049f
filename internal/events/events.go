// Package events publishes inventory changes to an external broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// Event types.
const (
	TypeItemAdded   = "item_added"
	TypeItemRented  = "item_rented"
	TypeItemUpdated = "item_updated"
	TypeItemDeleted = "item_deleted"
)

// Event describes one change to the inventory.
type Event struct {
	Type       string               `json:"type"`
	ItemID     string               `json:"item_id"`
	Item       *model.InventoryItem `json:"item,omitempty"`
	Days       int                  `json:"days,omitempty"`
	Total      float64              `json:"total,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NewEvent creates an event for item. The image payload is dropped to
// keep messages small.
func NewEvent(eventType string, item model.InventoryItem) Event {
	item.ImageURL = ""
	return Event{
		Type:       eventType,
		ItemID:     item.ID,
		Item:       &item,
		OccurredAt: time.Now().UTC(),
	}
}

// Marshal encodes the event as JSON.
func (e Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Publisher sends events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
