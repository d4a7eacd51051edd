package service

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Wyydra/yasignal/internal/core/domain"
)

var errFakeClosed = errors.New("fake connection closed")

// fakeConn is an in-memory port.Conn. Inbound payloads are pushed with
// deliver, outbound messages are collected on sent.
type fakeConn struct {
	id      domain.PeerID
	in      chan []byte
	sent    chan domain.Message
	sendErr error

	closeOnce sync.Once
	closed    chan struct{}
	mu        sync.Mutex
	closes    int
}

func newFakeConn(id domain.PeerID) *fakeConn {
	return &fakeConn{
		id:     id,
		in:     make(chan []byte, 16),
		sent:   make(chan domain.Message, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ID() domain.PeerID { return c.id }

func (c *fakeConn) Send(msg domain.Message) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}
	c.sent <- msg
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) ReadMessage(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-c.in:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-c.closed:
		return nil, errFakeClosed
	}
}

func (c *fakeConn) deliver(payload string) {
	c.in <- []byte(payload)
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func expectMessage(t *testing.T, c *fakeConn, want domain.Message) domain.Message {
	t.Helper()
	select {
	case got := <-c.sent:
		if got.Type != want.Type || got.ID != want.ID || got.To != want.To || got.From != want.From {
			t.Fatalf("%s received %+v, want %+v", c.id, got, want)
		}
		if want.Type == domain.TypePeers && !slices.Equal(got.Peers, want.Peers) {
			t.Fatalf("%s received peers %v, want %v", c.id, got.Peers, want.Peers)
		}
		return got
	case <-time.After(time.Second):
		t.Fatalf("%s: timed out waiting for %s message", c.id, want.Type)
	}
	return domain.Message{}
}

func expectNoMessage(t *testing.T, c *fakeConn) {
	t.Helper()
	select {
	case got := <-c.sent:
		t.Fatalf("%s received unexpected %+v", c.id, got)
	case <-time.After(50 * time.Millisecond):
	}
}
