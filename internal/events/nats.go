package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultNATSSubject is the subject inventory events go to.
const DefaultNATSSubject = "inventory.events"

// NATSPublisher publishes events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("rental-inventory"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{
		conn:    conn,
		subject: DefaultNATSSubject,
	}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", p.subject, ctx.Err())
	default:
	}

	data, err := event.Marshal()
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}

	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
