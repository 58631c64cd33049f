// Package handler provides the HTTP handlers for the inventory pages, the
// JSON API and the toast feed.
package handler

import (
	"context"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// Inventory is the coordinator the handlers drive. Handlers never touch the
// store or the toast queue directly.
type Inventory interface {
	AddItem(ctx context.Context, in model.AddItemInput) (*model.InventoryItem, error)
	Rent(ctx context.Context, id string, days int) (*model.RentalReceipt, error)
	Edit(ctx context.Context, id string, in model.EditItemInput) (*model.InventoryItem, error)
	Delete(ctx context.Context, id string) error
	Items(ctx context.Context) ([]model.InventoryItem, error)
	Item(ctx context.Context, id string) (*model.InventoryItem, error)
	Toasts() []model.Toast
	DismissToast(id int64) bool
	Submitting() int64
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
}

// StatusResponse reports the session state the add form depends on.
type StatusResponse struct {
	Submitting int64 `json:"submitting"`
	Items      int   `json:"items"`
}

// RentResponse is returned by a confirmed rental.
type RentResponse struct {
	Item           model.InventoryItem `json:"item"`
	Days           int                 `json:"days"`
	Total          float64             `json:"total"`
	FormattedTotal string              `json:"formattedTotal"`
}

func newRentResponse(r *model.RentalReceipt) RentResponse {
	return RentResponse{
		Item:           r.Item,
		Days:           r.Days,
		Total:          r.Total,
		FormattedTotal: r.FormattedTotal(),
	}
}
