package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// MemoryStore implements Store with an ordered in-memory slice.
//
// Every mutation builds a fresh slice and swaps it in, so a slice handed
// out by snapshot is never written to again.
type MemoryStore struct {
	mu    sync.RWMutex
	items []model.InventoryItem
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: []model.InventoryItem{},
	}
}

// List returns all items, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]model.InventoryItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	items := s.snapshot()
	out := make([]model.InventoryItem, len(items))
	copy(out, items)

	return out, nil
}

// Get retrieves an item by its ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.InventoryItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrInvalidID
	}

	items := s.snapshot()
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	item := items[idx]
	return &item, nil
}

// Prepend adds a new item at the front of the collection. A missing ID,
// status or timestamp is filled in.
func (s *MemoryStore) Prepend(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("prepend item: %w", ctx.Err())
	default:
	}

	if item == nil {
		return nil, ErrNilItem
	}

	newItem := *item
	if newItem.ID == "" {
		newItem.ID = uuid.New().String()
	}
	if newItem.Status == "" {
		newItem.Status = model.StatusAvailable
	}
	now := time.Now().UTC()
	if newItem.CreatedAt.IsZero() {
		newItem.CreatedAt = now
	}
	if newItem.UpdatedAt.IsZero() {
		newItem.UpdatedAt = newItem.CreatedAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, newItem.ID) >= 0 {
		return nil, ErrAlreadyExists
	}

	next := make([]model.InventoryItem, 0, len(s.items)+1)
	next = append(next, newItem)
	next = append(next, s.items...)
	s.items = next

	return &newItem, nil
}

// Update applies mutate to a copy of the matching item and replaces the
// collection with one holding the result at the same position. The ID and
// creation time cannot be changed by mutate.
func (s *MemoryStore) Update(ctx context.Context, id string, mutate MutateFunc) (*model.InventoryItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrInvalidID
	}

	if mutate == nil {
		return nil, fmt.Errorf("update item: mutate func cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	existing := s.items[idx]
	updated := existing
	mutate(&updated)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	next := make([]model.InventoryItem, len(s.items))
	copy(next, s.items)
	next[idx] = updated
	s.items = next

	return &updated, nil
}

// Delete removes an item by its ID. An unknown ID is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id string) (*model.InventoryItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("delete item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil, nil
	}

	removed := s.items[idx]

	next := make([]model.InventoryItem, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.items = next

	return &removed, nil
}

// Len returns the number of stored items.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("count items: %w", ctx.Err())
	default:
	}

	return len(s.snapshot()), nil
}

// snapshot returns the current collection. The returned slice is never
// mutated afterwards and must not be mutated by the caller.
func (s *MemoryStore) snapshot() []model.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func indexOf(items []model.InventoryItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
