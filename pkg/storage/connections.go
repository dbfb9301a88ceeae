package storage

import "context"

// ConsoleConnectionManager defines the interface for storing and retrieving
// the websocket connection IDs of live admin console sessions.
type ConsoleConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetAllConnections(ctx context.Context) ([]string, error)
}
