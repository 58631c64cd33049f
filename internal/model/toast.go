package model

import "time"

// ToastType classifies a notification.
type ToastType string

// Toast types.
const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
)

// Toast is a transient notification shown to the user.
type Toast struct {
	// ID is the creation time in Unix milliseconds, bumped when needed so
	// that toasts created within the same millisecond stay distinct.
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Type      ToastType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// WebSocketMessage represents a message sent over WebSocket connection.
type WebSocketMessage struct {
	Type      string    `json:"type"`
	Toast     *Toast    `json:"toast,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WebSocket message types.
const (
	WSMessageTypeToastAdded   = "toast_added"
	WSMessageTypeToastRemoved = "toast_removed"
)

// NewToastMessage creates a WebSocket message describing a toast change.
func NewToastMessage(msgType string, toast Toast) WebSocketMessage {
	return WebSocketMessage{
		Type:      msgType,
		Toast:     &toast,
		Timestamp: time.Now().UTC(),
	}
}
