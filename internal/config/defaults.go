package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAddr              = ":8000"
	DefaultReadHeaderTimeout = 15 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultReadBufferSize    = 4 * 1024
	DefaultWriteBufferSize   = 4 * 1024
	DefaultMaxMessageSize    = 64 * 1024 // room for large SDP bodies
	DefaultSendQueueSize     = 256
	DefaultWriteWait         = 10 * time.Second
	DefaultPongWait          = 60 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	ws := &c.WebSocket
	if ws.ReadBufferSize == 0 {
		ws.ReadBufferSize = DefaultReadBufferSize
	}
	if ws.WriteBufferSize == 0 {
		ws.WriteBufferSize = DefaultWriteBufferSize
	}
	if ws.MaxMessageSize == 0 {
		ws.MaxMessageSize = DefaultMaxMessageSize
	}
	if ws.SendQueueSize == 0 {
		ws.SendQueueSize = DefaultSendQueueSize
	}
	if ws.WriteWait == 0 {
		ws.WriteWait = DefaultWriteWait
	}
	if ws.PongWait == 0 {
		ws.PongWait = DefaultPongWait
	}
	if ws.PingPeriod == 0 {
		ws.PingPeriod = (ws.PongWait * 9) / 10
	}
	if len(ws.AllowedOrigins) == 0 {
		ws.AllowedOrigins = []string{"*"}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
