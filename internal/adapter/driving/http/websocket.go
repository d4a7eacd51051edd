package http

import (
	"net/http"
	"net/url"

	"github.com/Wyydra/yasignal/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/yasignal/internal/core/domain"
	"github.com/Wyydra/yasignal/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// ServeWS upgrades the request and runs the peer's session until it leaves.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	l := hlog.FromRequest(r)

	raw, err := roomParam(r)
	if err != nil || raw == "" {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	roomID := domain.RoomID(raw)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := ws.NewClient(domain.NewPeerID(), conn, h.opts)
	if !h.Hub.Register(client) {
		_ = client.Close()
		return
	}
	defer h.Hub.Unregister(client)

	session := service.NewSession(roomID, client, h.Registry, h.Relay)
	if err := session.Run(r.Context()); err != nil {
		l.Error().Err(err).Str("room_id", roomID.String()).Msg("Session failed")
	}
}

// roomParam returns the decoded room id. chi matches against RawPath when the
// request carries one, and only then is the parameter still escaped.
func roomParam(r *http.Request) (string, error) {
	param := chi.URLParam(r, "roomID")
	if r.URL.RawPath == "" {
		return param, nil
	}
	return url.PathUnescape(param)
}
