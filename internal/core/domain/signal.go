package domain

type MessageType string

const (
	// server -> client
	TypeID    MessageType = "id"
	TypePeers MessageType = "peers"

	// relayed negotiation payloads
	TypeOffer     MessageType = "offer"
	TypeAnswer    MessageType = "answer"
	TypeCandidate MessageType = "candidate"

	// client -> server, "leave" is also the server's departure notice
	TypeJoin  MessageType = "join"
	TypeLeave MessageType = "leave"
)

// IsRelay reports whether messages of this type are forwarded point-to-point.
func (t MessageType) IsRelay() bool {
	switch t {
	case TypeOffer, TypeAnswer, TypeCandidate:
		return true
	}
	return false
}
