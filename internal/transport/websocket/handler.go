package websocket

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"pulseboard/internal/config"
	"pulseboard/internal/logger"
	"pulseboard/internal/pkg"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
	verify   func(token string) error
}

func NewHandler(hub *Hub, cfg *config.Config, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if !slices.Contains(cfg.AllowedOrigins, origin) {
				log.Warn("ws: origin rejected", "origin", origin)
				return false
			}
			return true
		},
	}

	verify := func(token string) error {
		_, err := pkg.ValidateToken(token, cfg.JWTSecret)
		return err
	}

	return &Handler{hub: hub, upgrader: upgrader, log: log, verify: verify}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie("access_token"); err == nil {
		token = cookie.Value
	}
	if authHeader := r.Header.Get("Authorization"); len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	if err := h.verify(token); err != nil {
		h.log.Warn("ws: jwt verification failed", "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws: upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log)
	h.hub.register <- client
	go client.writePump()
	go client.readPump()
}
