// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// Store errors.
var (
	ErrNotFound      = errors.New("item not found")
	ErrAlreadyExists = errors.New("item already exists")
	ErrInvalidID     = errors.New("invalid item ID")
	ErrNilItem       = errors.New("item cannot be nil")
)

// MutateFunc changes an item in place during Update.
type MutateFunc func(item *model.InventoryItem)

// Store defines the interface for inventory storage operations.
//
// Items are kept newest first. Implementations must never expose a
// partially applied mutation to concurrent readers.
type Store interface {
	// List returns all items, newest first.
	List(ctx context.Context) ([]model.InventoryItem, error)

	// Get retrieves an item by its ID.
	Get(ctx context.Context, id string) (*model.InventoryItem, error)

	// Prepend adds a new item at the front of the collection.
	Prepend(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error)

	// Update applies mutate to the item with the given ID, keeping its position.
	Update(ctx context.Context, id string, mutate MutateFunc) (*model.InventoryItem, error)

	// Delete removes an item by its ID and returns it.
	// Deleting an unknown ID returns (nil, nil).
	Delete(ctx context.Context, id string) (*model.InventoryItem, error)

	// Len returns the number of stored items.
	Len(ctx context.Context) (int, error)
}
