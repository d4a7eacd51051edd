package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Wyydra/yasignal/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrQueueFull    = errors.New("send queue full")
)

type Options struct {
	SendQueueSize  int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	// PingPeriod must be less than PongWait.
	PingPeriod time.Duration
}

func DefaultOptions() Options {
	return Options{
		SendQueueSize:  256,
		MaxMessageSize: 64 * 1024,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
	}
}

// Client wraps one websocket connection. Outbound messages go through a
// buffered queue drained by the client's own write pump, so a slow peer
// never blocks the goroutine that sends to it.
type Client struct {
	id   domain.PeerID
	conn *websocket.Conn
	opts Options
	l    zerolog.Logger

	mu     sync.Mutex
	closed bool
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

// NewClient configures conn and starts its write pump.
func NewClient(id domain.PeerID, conn *websocket.Conn, opts Options) *Client {
	c := &Client{
		id:   id,
		conn: conn,
		opts: opts,
		l:    log.With().Str("peer_id", id.String()).Logger(),
		send: make(chan []byte, opts.SendQueueSize),
		done: make(chan struct{}),
	}

	conn.SetReadLimit(opts.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(opts.PongWait)); err != nil {
		c.l.Debug().Err(err).Msg("Error setting read deadline")
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	})

	go c.writePump()
	return c
}

func (c *Client) ID() domain.PeerID {
	return c.id
}

// Send encodes msg and queues it without blocking.
func (c *Client) Send(msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// ReadMessage returns the next data frame. Cancellation is driven by Close.
func (c *Client) ReadMessage(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
			c.l.Error().Err(err).Msg("Unexpected close error")
		}
		return nil, err
	}
	return data, nil
}

// Close stops the write pump and closes the connection. Safe to call more
// than once and from any goroutine.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.done)
		c.mu.Unlock()

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.opts.WriteWait))
		err = c.conn.Close()
	})
	return err
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				c.fail(err)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.fail(err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				c.fail(err)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

// fail tears the connection down after a write error; the blocked reader
// then sees the failure and the session cleans up.
func (c *Client) fail(err error) {
	c.l.Debug().Err(err).Msg("Write failed, closing connection")
	_ = c.Close()
}
