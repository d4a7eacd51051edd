package port

import "github.com/Wyydra/yasignal/internal/core/domain"

// Relay delivers messages to peers of a room.
type Relay interface {
	RelayTo(client Client, msg domain.Message)
	Broadcast(roomID domain.RoomID, msg domain.Message)
	Fanout(members []Member, msg domain.Message)
	Forward(roomID domain.RoomID, from domain.PeerID, msg domain.Message) error
}
