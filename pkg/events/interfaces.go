package events

import (
	"context"
)

// ConnectionManager defines the interface for managing console connections.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// Publisher defines the interface for pushing messages to connected consoles.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}
