// Package notify keeps the queue of transient user notifications.
package notify

import (
	"sync"
	"time"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// DefaultDisplayDuration is how long a toast stays visible unless dismissed.
const DefaultDisplayDuration = 3 * time.Second

// subscriberBuffer is the per-subscriber event backlog. Events to a
// subscriber whose buffer is full are dropped.
const subscriberBuffer = 32

// EventKind tells subscribers what happened to a toast.
type EventKind string

// Event kinds.
const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
)

// Event is delivered to subscribers on every queue change.
type Event struct {
	Kind  EventKind
	Toast model.Toast
}

// Center owns the toast queue. Each toast removes itself after the
// display duration unless dismissed earlier.
type Center struct {
	duration time.Duration
	now      func() time.Time

	mu          sync.Mutex
	toasts      []model.Toast
	timers      map[int64]*time.Timer
	lastID      int64
	subscribers map[int]chan Event
	nextSub     int
	closed      bool
}

// NewCenter creates a Center. A non-positive duration uses
// DefaultDisplayDuration.
func NewCenter(duration time.Duration) *Center {
	if duration <= 0 {
		duration = DefaultDisplayDuration
	}
	return &Center{
		duration:    duration,
		now:         time.Now,
		toasts:      []model.Toast{},
		timers:      make(map[int64]*time.Timer),
		subscribers: make(map[int]chan Event),
	}
}

// Success pushes a success toast.
func (c *Center) Success(message string) model.Toast {
	return c.Push(message, model.ToastSuccess)
}

// Error pushes an error toast.
func (c *Center) Error(message string) model.Toast {
	return c.Push(message, model.ToastError)
}

// Push appends a toast and schedules its removal.
func (c *Center) Push(message string, typ model.ToastType) model.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id

	toast := model.Toast{
		ID:        id,
		Message:   message,
		Type:      typ,
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	}

	if c.closed {
		return toast
	}

	next := make([]model.Toast, 0, len(c.toasts)+1)
	next = append(next, c.toasts...)
	next = append(next, toast)
	c.toasts = next

	c.timers[id] = time.AfterFunc(c.duration, func() {
		c.remove(id)
	})

	c.broadcast(Event{Kind: EventAdded, Toast: toast})

	return toast
}

// Dismiss removes a toast before it expires. It reports whether the
// toast was still queued.
func (c *Center) Dismiss(id int64) bool {
	return c.remove(id)
}

// List returns the queued toasts in creation order.
func (c *Center) List() []model.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Subscribe returns a channel of queue events and a function that ends
// the subscription.
func (c *Center) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close stops all timers, empties the queue and closes subscriptions.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.toasts = []model.Toast{}

	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
}

func (c *Center) remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.toasts {
		if c.toasts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	removed := c.toasts[idx]

	next := make([]model.Toast, 0, len(c.toasts)-1)
	next = append(next, c.toasts[:idx]...)
	next = append(next, c.toasts[idx+1:]...)
	c.toasts = next

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}

	c.broadcast(Event{Kind: EventRemoved, Toast: removed})

	return true
}

// broadcast must be called with c.mu held.
func (c *Center) broadcast(ev Event) {
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
