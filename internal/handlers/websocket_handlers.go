// internal/handlers/websocket_handlers.go
package handlers

import (
	"log"
	"net/http"

	"campus-swamp/internal/middleware"
	"campus-swamp/internal/websocket"

	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades an authenticated request to a live session:
// the client is registered with the hub (starting their presence
// heartbeat) and its aggregator begins streaming merged events.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}
		userID, err := middleware.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %s: %v", userID, err)
			return
		}

		client := websocket.NewClient(s.Hub, userID, conn)
		s.Hub.Register <- client

		go client.WritePump()
		go client.PumpEvents()
		go client.ReadPump()
	}
}
