package service

import (
	"errors"

	"github.com/Wyydra/yasignal/internal/core/domain"
	"github.com/Wyydra/yasignal/internal/core/port"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingTarget = errors.New("relay message has no target")
	ErrSelfTarget    = errors.New("relay message targets its sender")
	ErrUnknownTarget = errors.New("relay target is not in the room")
)

// Router delivers messages to peers found through the registry. Delivery is
// best effort per recipient: a failed send is logged and dropped, and never
// stops delivery to the remaining recipients.
type Router struct {
	registry port.Registry
}

func NewRouter(registry port.Registry) *Router {
	return &Router{registry: registry}
}

func (r *Router) RelayTo(client port.Client, msg domain.Message) {
	if client == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("peer_id", client.ID().String()).Msg("Recovered from panic while sending")
		}
	}()

	if err := client.Send(msg); err != nil {
		log.Debug().Err(err).
			Str("peer_id", client.ID().String()).
			Str("type", string(msg.Type)).
			Msg("Dropping undeliverable message")
	}
}

// Broadcast sends msg to every peer registered in the room when it is called,
// using a snapshot so the sends happen outside the registry lock.
func (r *Router) Broadcast(roomID domain.RoomID, msg domain.Message) {
	r.Fanout(r.registry.Members(roomID), msg)
}

// Fanout sends msg to each member in order. It never touches the registry,
// so it is safe to call from a Join or Leave announcement.
func (r *Router) Fanout(members []port.Member, msg domain.Message) {
	for _, m := range members {
		r.RelayTo(m.Client, msg)
	}
}

// Forward routes an offer, answer or candidate to its target in the same
// room, stamping the sender's id into from when the sender left it out. The
// returned error only explains a drop; nothing is reported to the sender.
func (r *Router) Forward(roomID domain.RoomID, from domain.PeerID, msg domain.Message) error {
	if msg.To == "" {
		return ErrMissingTarget
	}
	if msg.To == from {
		return ErrSelfTarget
	}
	target, ok := r.registry.Lookup(roomID, msg.To)
	if !ok {
		return ErrUnknownTarget
	}
	msg.StampFrom(from)
	r.RelayTo(target, msg)
	return nil
}
