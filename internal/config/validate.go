package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must be >= 0")
	}

	ws := c.WebSocket
	if ws.MaxMessageSize < 1 {
		return errors.New("websocket.max_message_size must be >= 1")
	}
	if ws.SendQueueSize < 1 {
		return errors.New("websocket.send_queue_size must be >= 1")
	}
	if ws.ReadBufferSize < 0 || ws.WriteBufferSize < 0 {
		return errors.New("websocket buffer sizes must be >= 0")
	}
	if ws.PongWait <= 0 || ws.WriteWait <= 0 {
		return errors.New("websocket.pong_wait and websocket.write_wait must be > 0")
	}
	if ws.PingPeriod <= 0 || ws.PingPeriod >= ws.PongWait {
		return fmt.Errorf("websocket.ping_period must be between 0 and pong_wait (%s), got %s", ws.PongWait, ws.PingPeriod)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
