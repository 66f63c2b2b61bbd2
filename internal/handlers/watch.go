package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tripnest-backend/internal/config"
	"tripnest-backend/internal/dto"
	"tripnest-backend/internal/middleware"
	"tripnest-backend/internal/utils"
	"tripnest-backend/internal/watch"
)

const (
	watchWriteWait  = 10 * time.Second
	watchPongWait   = 60 * time.Second
	watchPingPeriod = 54 * time.Second
)

// WatchHandler upgrades /api/watch to a websocket and streams full
// snapshots of the caller's trips and pending invitations.
type WatchHandler struct {
	hub      *watch.Hub
	jwtCfg   *config.JWTConfig
	upgrader websocket.Upgrader
}

// NewWatchHandler creates a new WatchHandler
func NewWatchHandler(hub *watch.Hub, jwtCfg *config.JWTConfig) *WatchHandler {
	return &WatchHandler{
		hub:    hub,
		jwtCfg: jwtCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origin enforcement is left to the CORS layer in front
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Watch handles GET /api/watch?token=<jwt>
// Browsers cannot set headers on websocket dials, so the token rides in
// the query string instead of the Authorization header.
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "token query parameter required")
		return
	}
	claims, err := middleware.ValidateToken(token, h.jwtCfg)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("watch: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Snapshot delivery and pings share the connection; writes serialize
	// through writeMu.
	var writeMu sync.Mutex

	sub := h.hub.Subscribe("trips", claims.UserID, func(snap *watch.Snapshot) {
		trips := make([]dto.TripResponse, 0, len(snap.Trips))
		for i := range snap.Trips {
			trips = append(trips, tripToResponse(&snap.Trips[i]))
		}
		msg := dto.SnapshotResponse{
			Type:        "snapshot",
			Trips:       trips,
			Invitations: pendingToResponse(snap.Invitations),
		}

		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("watch: write failed for user %s: %v", claims.UserID, err)
		}
	})
	defer sub.Cancel()

	conn.SetReadDeadline(time.Now().Add(watchPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(watchPongWait))
		return nil
	})

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(watchPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	// Clients send nothing meaningful; the read loop only notices
	// disconnects and pong timeouts.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
}
