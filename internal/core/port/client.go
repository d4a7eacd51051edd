package port

import (
	"context"

	"github.com/Wyydra/yasignal/internal/core/domain"
)

// Client is the outbound side of one live peer connection.
type Client interface {
	ID() domain.PeerID
	Send(msg domain.Message) error
	Close() error
}

// Conn is the inbound side of a peer connection. ReadMessage blocks until the
// next payload arrives; any error ends the session.
type Conn interface {
	Client
	ReadMessage(ctx context.Context) ([]byte, error)
}
