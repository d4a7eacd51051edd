package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Wyydra/yasignal/internal/core/domain"
	"github.com/Wyydra/yasignal/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Session owns one peer connection from registration to departure. It talks
// to other peers only through the registry and the relay.
type Session struct {
	roomID   domain.RoomID
	conn     port.Conn
	registry port.Registry
	relay    port.Relay

	state     atomic.Int32
	closeOnce sync.Once
	l         zerolog.Logger
}

func NewSession(roomID domain.RoomID, conn port.Conn, registry port.Registry, relay port.Relay) *Session {
	return &Session{
		roomID:   roomID,
		conn:     conn,
		registry: registry,
		relay:    relay,
		l: log.With().
			Str("peer_id", conn.ID().String()).
			Str("room_id", roomID.String()).
			Logger(),
	}
}

func (s *Session) ID() domain.PeerID {
	return s.conn.ID()
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Run registers the peer, announces it, and relays its messages until it
// leaves, its connection fails, or ctx is cancelled. It always returns with
// the peer unregistered and the connection closed.
func (s *Session) Run(ctx context.Context) error {
	if err := s.open(); err != nil {
		s.state.Store(int32(StateClosed))
		if cerr := s.conn.Close(); cerr != nil {
			s.l.Debug().Err(cerr).Msg("Error closing rejected connection")
		}
		return err
	}

	// A cancelled context unblocks the read by closing the connection.
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.Close()
	})
	defer stop()

	reason := s.receive(ctx)
	s.close(reason)
	return nil
}

func (s *Session) open() error {
	id := s.conn.ID()
	// The roster is taken from the same locked membership the announcement
	// is sent to, so a concurrent join or leave cannot reorder rosters.
	err := s.registry.Join(s.roomID, id, s.conn, func(members []port.Member) {
		s.relay.RelayTo(s.conn, domain.NewIDMessage(id))

		roster := domain.NewPeersMessage(memberIDs(members))
		s.relay.RelayTo(s.conn, roster)
		s.relay.Fanout(members, roster)
	})
	if err != nil {
		return fmt.Errorf("register peer: %w", err)
	}
	s.l.Info().Msg("Peer joined room")

	s.state.Store(int32(StateActive))
	return nil
}

func (s *Session) receive(ctx context.Context) string {
	for {
		data, err := s.conn.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "shutdown"
			}
			s.l.Debug().Err(err).Msg("Read failed")
			return "disconnect"
		}

		msg, err := domain.DecodeMessage(data)
		if err != nil {
			s.l.Debug().Err(err).Msg("Discarding malformed message")
			continue
		}

		if !s.dispatch(msg) {
			return "leave"
		}
	}
}

// dispatch handles one decoded message and reports whether the session
// should keep reading.
func (s *Session) dispatch(msg domain.Message) bool {
	switch {
	case msg.Type.IsRelay():
		if err := s.relay.Forward(s.roomID, s.conn.ID(), msg); err != nil {
			lvl := zerolog.DebugLevel
			if errors.Is(err, ErrSelfTarget) {
				lvl = zerolog.WarnLevel
			}
			s.l.WithLevel(lvl).Err(err).
				Str("type", string(msg.Type)).
				Str("to", msg.To.String()).
				Msg("Dropping relay message")
		}
	case msg.Type == domain.TypeJoin:
		// joined at connect time
	case msg.Type == domain.TypeLeave:
		return false
	default:
		s.l.Debug().Str("type", string(msg.Type)).Msg("Ignoring unknown message type")
	}
	return true
}

func (s *Session) close(reason string) {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosing))
		id := s.conn.ID()

		remaining := s.registry.Leave(s.roomID, id, func(members []port.Member) {
			s.relay.Fanout(members, domain.NewLeaveMessage(id))
		})

		if err := s.conn.Close(); err != nil {
			s.l.Debug().Err(err).Msg("Error closing connection")
		}
		s.state.Store(int32(StateClosed))
		s.l.Info().Str("reason", reason).Int("remaining", len(remaining)).Msg("Peer left room")
	})
}

func memberIDs(members []port.Member) []domain.PeerID {
	ids := make([]domain.PeerID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
