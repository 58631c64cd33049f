// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"math"
	"time"
)

// RentalStatus is the availability state of an inventory item.
type RentalStatus string

// Rental statuses. Rented is terminal: there is no return flow.
const (
	StatusAvailable RentalStatus = "Available"
	StatusRented    RentalStatus = "Rented"
)

// Validation errors for add-item input.
var (
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrEmptyUserDescription = errors.New("description cannot be empty")
	ErrInvalidPrice         = errors.New("price per day must be a non-zero number")
	ErrMissingImage         = errors.New("an image must be selected")
)

// InventoryItem represents one rentable thing.
type InventoryItem struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	UserDescription string       `json:"userDescription"`
	AIDescription   string       `json:"aiDescription"`
	PricePerDay     float64      `json:"pricePerDay"`
	ImageURL        string       `json:"imageUrl"`
	Status          RentalStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// IsAvailable reports whether the item can be rented.
func (i *InventoryItem) IsAvailable() bool {
	return i.Status == StatusAvailable
}

// Upload is an image file selected by the user.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AddItemInput carries the fields of the add-item form.
type AddItemInput struct {
	Name            string
	UserDescription string
	PricePerDay     float64
	Image           *Upload
}

// Validate checks the required add-item fields.
//
// A price of exactly zero is rejected and negative prices are accepted.
// This matches the truthiness check the product has always shipped with.
func (in *AddItemInput) Validate() error {
	if in.Name == "" {
		return ErrEmptyName
	}

	if in.UserDescription == "" {
		return ErrEmptyUserDescription
	}

	if in.PricePerDay == 0 || math.IsNaN(in.PricePerDay) {
		return ErrInvalidPrice
	}

	if in.Image == nil {
		return ErrMissingImage
	}

	return nil
}

// EditItemInput carries the editable fields of an item.
type EditItemInput struct {
	Name            string  `json:"name"`
	UserDescription string  `json:"userDescription"`
	PricePerDay     float64 `json:"pricePerDay"`
}

// Apply copies the editable fields onto item, leaving identity,
// generated description, image and status untouched.
func (in *EditItemInput) Apply(item *InventoryItem) {
	item.Name = in.Name
	item.UserDescription = in.UserDescription
	item.PricePerDay = in.PricePerDay
}

// APIResponse is a generic wrapper for API responses.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error API response.
func NewErrorResponse[T any](errMsg string) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Error:   errMsg,
	}
}
