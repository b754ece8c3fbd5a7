// internal/websocket/hub.go
package websocket

import (
	"log"
	"sync"

	"campus-swamp/internal/database"
	"campus-swamp/internal/live"
	"campus-swamp/internal/presence"

	"github.com/google/uuid"
)

// Hub tracks active client connections per user. A user's first connection
// starts their presence heartbeat; closing their last one stops it and
// flips them offline. Live updates flow through each client's aggregator,
// not the hub; the hub only manages connection lifecycle.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	clients       map[uuid.UUID]map[*Client]bool
	presenceStops map[uuid.UUID]func()
	mu            sync.RWMutex

	tracker *presence.Tracker
	bus     *live.Bus
	mongodb *database.MongoDB
}

func NewHub(tracker *presence.Tracker, bus *live.Bus, mongodb *database.MongoDB) *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[uuid.UUID]map[*Client]bool),
		presenceStops: make(map[uuid.UUID]func()),
		tracker:       tracker,
		bus:           bus,
		mongodb:       mongodb,
	}
}

// Run is the hub's processing loop. Call it once, in its own goroutine.
func (h *Hub) Run() {
	log.Println("WebSocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	if _, beating := h.presenceStops[client.UserID]; !beating {
		h.presenceStops[client.UserID] = h.tracker.Start(client.UserID)
	}
	log.Printf("WebSocket client registered for user %s (%d connections)", client.UserID, len(h.clients[client.UserID]))
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	userClients, ok := h.clients[client.UserID]
	if ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	stop := h.presenceStops[client.UserID]
	lastConnection := stop != nil && len(h.clients[client.UserID]) == 0
	if lastConnection {
		delete(h.presenceStops, client.UserID)
	}
	h.mu.Unlock()

	client.close()
	if lastConnection {
		stop()
		log.Printf("WebSocket client unregistered, user %s offline", client.UserID)
	}
}

// ConnectedUsers returns how many distinct users have open connections.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
