package port

import (
	"errors"

	"github.com/Wyydra/yasignal/internal/core/domain"
)

var ErrDuplicatePeer = errors.New("peer id already registered")

// Member pairs a registered peer id with its connection.
type Member struct {
	ID     domain.PeerID
	Client Client
}

// Registry maps rooms to their connected peers. Every operation on a room is
// linearizable with respect to every other operation on that room.
type Registry interface {
	Register(roomID domain.RoomID, peerID domain.PeerID, client Client) error
	// Unregister is idempotent and returns the ids still in the room.
	Unregister(roomID domain.RoomID, peerID domain.PeerID) []domain.PeerID
	// Join and Leave change membership like Register and Unregister, then
	// hand the resulting members to announce while the room is still locked,
	// so announcements reach every peer in membership order. announce must
	// only queue sends and must not call back into the registry.
	Join(roomID domain.RoomID, peerID domain.PeerID, client Client, announce func([]Member)) error
	Leave(roomID domain.RoomID, peerID domain.PeerID, announce func([]Member)) []domain.PeerID
	Lookup(roomID domain.RoomID, peerID domain.PeerID) (Client, bool)
	Roster(roomID domain.RoomID) []domain.PeerID
	Members(roomID domain.RoomID) []Member
}
