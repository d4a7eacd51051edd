package domain

import (
	"github.com/google/uuid"
)

// PeerID identifies one connected client for the lifetime of its connection.
type PeerID string

// RoomID is the opaque room key taken from the connection path.
type RoomID string

func NewPeerID() PeerID {
	return PeerID(uuid.New().String())
}

func (id PeerID) String() string {
	return string(id)
}

func (id RoomID) String() string {
	return string(id)
}
