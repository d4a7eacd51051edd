package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Wyydra/yasignal/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/yasignal/internal/config"
	"github.com/Wyydra/yasignal/internal/core/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Registry port.Registry
	Relay    port.Relay
	Hub      *ws.Hub

	upgrader websocket.Upgrader
	opts     ws.Options
}

func NewHandler(registry port.Registry, relay port.Relay, hub *ws.Hub, cfg config.WebSocketConfig) *Handler {
	origins := newOriginPolicy(cfg.AllowedOrigins)
	return &Handler{
		Registry: registry,
		Relay:    relay,
		Hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     origins.check,
		},
		opts: ws.Options{
			SendQueueSize:  cfg.SendQueueSize,
			MaxMessageSize: cfg.MaxMessageSize,
			WriteWait:      cfg.WriteWait,
			PongWait:       cfg.PongWait,
			PingPeriod:     cfg.PingPeriod,
		},
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Get("/ws/{roomID}", h.ServeWS)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"connections": h.Hub.Len(),
	})
}
