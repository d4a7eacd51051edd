package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedMessage = errors.New("malformed message")

// Message is one signaling record. The routing fields are typed, every other
// field is kept as raw JSON and written back untouched, so negotiation
// payloads pass through the relay as the sender wrote them.
type Message struct {
	Type  MessageType
	ID    PeerID
	Peers []PeerID
	To    PeerID
	From  PeerID

	hasFrom bool
	extra   map[string]json.RawMessage
}

func NewIDMessage(id PeerID) Message {
	return Message{Type: TypeID, ID: id}
}

func NewPeersMessage(peers []PeerID) Message {
	if peers == nil {
		peers = []PeerID{}
	}
	return Message{Type: TypePeers, Peers: peers}
}

func NewLeaveMessage(id PeerID) Message {
	return Message{Type: TypeLeave, ID: id}
}

// DecodeMessage parses an inbound payload. Anything that is not a JSON object
// with a string type is reported as ErrMalformedMessage, as is a non-relay
// message whose id or peers field has the wrong shape.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return msg, nil
}

// HasFrom reports whether the sender already set a from field.
func (m Message) HasFrom() bool {
	return m.hasFrom
}

// StampFrom sets from to id unless the message already carries one.
func (m *Message) StampFrom(id PeerID) {
	if m.hasFrom {
		return
	}
	m.From = id
	m.hasFrom = true
}

// Field returns a preserved payload field by name.
func (m Message) Field(name string) (json.RawMessage, bool) {
	raw, ok := m.extra[name]
	return raw, ok
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("message is null")
	}

	out := Message{}
	if raw, ok := fields["type"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("field type: %w", err)
		}
		out.Type = MessageType(s)
	}
	// A relayed message is delivered as sent, so only its routing fields
	// are interpreted.
	relay := out.Type.IsRelay()

	for key, raw := range fields {
		switch {
		case key == "type":
		case key == "to" || key == "from":
			var id *string
			if json.Unmarshal(raw, &id) != nil || id == nil {
				out.keep(key, raw)
			} else if key == "to" {
				out.To = PeerID(*id)
			} else {
				out.From = PeerID(*id)
			}
			if key == "from" {
				out.hasFrom = true
			}
		case key == "id" && !relay:
			if err := unmarshalPeerID(raw, &out.ID); err != nil {
				return fmt.Errorf("field id: %w", err)
			}
		case key == "peers" && !relay:
			if err := json.Unmarshal(raw, &out.Peers); err != nil {
				return fmt.Errorf("field peers: %w", err)
			}
		default:
			out.keep(key, raw)
		}
	}
	*m = out
	return nil
}

func (m *Message) keep(key string, raw json.RawMessage) {
	if m.extra == nil {
		m.extra = make(map[string]json.RawMessage)
	}
	m.extra[key] = raw
}

func (m Message) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(m.extra)+4)
	for key, raw := range m.extra {
		fields[key] = raw
	}
	fields["type"] = m.Type
	if m.ID != "" {
		fields["id"] = m.ID
	}
	if m.To != "" {
		fields["to"] = m.To
	}
	if _, raw := m.extra["from"]; m.From != "" || (m.hasFrom && !raw) {
		fields["from"] = m.From
	}
	if m.Type == TypePeers {
		peers := m.Peers
		if peers == nil {
			peers = []PeerID{}
		}
		fields["peers"] = peers
	} else if m.Peers != nil {
		fields["peers"] = m.Peers
	}
	return json.Marshal(fields)
}

// unmarshalPeerID accepts a JSON string or null.
func unmarshalPeerID(raw json.RawMessage, dst *PeerID) error {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if s != nil {
		*dst = PeerID(*s)
	}
	return nil
}
