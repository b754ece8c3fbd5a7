// internal/websocket/client.go
package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	stdctx "context"

	"campus-swamp/internal/live"
	"campus-swamp/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBuffer = 256
)

// inboundMessage is what clients send upstream. The only control verb is
// switching which direct message thread they are watching.
type inboundMessage struct {
	Type        string `json:"type"`
	OtherUserID string `json:"otherUserId,omitempty"`
}

// Client bridges one websocket connection, its live aggregator, and the
// hub.
type Client struct {
	Hub    *Hub
	UserID uuid.UUID
	Conn   *websocket.Conn

	send      chan []byte
	agg       *live.Aggregator
	closeOnce sync.Once
}

func NewClient(hub *Hub, userID uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Conn:   conn,
		send:   make(chan []byte, sendBuffer),
		agg:    live.NewAggregator(hub.bus, userID),
	}
}

// queue enqueues a payload, dropping it if the connection cannot keep up.
func (c *Client) queue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		log.Printf("WebSocket send buffer full for user %s, dropping payload", c.UserID)
	}
}

// close shuts the aggregator down. The send channel is closed by
// PumpEvents once the event stream has drained, so nothing can queue into
// a closed channel.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.agg.Close()
	})
}

// PumpEvents marshals aggregator events into the send queue, then closes
// it once the aggregator shuts down. Run in its own goroutine.
func (c *Client) PumpEvents() {
	for event := range c.agg.Out() {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("WebSocket failed to marshal event for user %s: %v", c.UserID, err)
			continue
		}
		c.queue(payload)
	}
	close(c.send)
}

// ReadPump reads control messages from the peer until the connection
// drops, then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for user %s: %v", c.UserID, err)
			}
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("WebSocket bad message from user %s: %v", c.UserID, err)
			continue
		}
		c.handleInbound(&msg)
	}
}

// handleInbound switches the watched conversation. The thread key always
// contains the caller's own ID, so a client can only ever watch threads it
// participates in.
func (c *Client) handleInbound(msg *inboundMessage) {
	switch msg.Type {
	case "select_conversation":
		if msg.OtherUserID == "" {
			c.agg.SelectConversation("", nil)
			return
		}
		otherID, err := uuid.Parse(msg.OtherUserID)
		if err != nil {
			log.Printf("WebSocket invalid user ID from user %s: %v", c.UserID, err)
			return
		}
		conversationID := models.ConversationID(c.UserID, otherID)
		c.agg.SelectConversation(conversationID, c.seedConversation(conversationID))
	default:
		log.Printf("WebSocket unknown message type %q from user %s", msg.Type, c.UserID)
	}
}

// seedConversation loads the stored thread history as events so a freshly
// selected conversation starts fully populated.
func (c *Client) seedConversation(conversationID string) []live.Event {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	messages, err := c.Hub.mongodb.GetConversation(ctx, conversationID)
	if err != nil {
		log.Printf("WebSocket failed to seed conversation %s: %v", conversationID, err)
		return nil
	}
	events := make([]live.Event, 0, len(messages))
	for _, message := range messages {
		events = append(events, live.Event{
			Kind:    "message",
			Key:     message.ID.String(),
			At:      message.CreatedAt,
			Payload: message,
		})
	}
	return events
}

// WritePump drains the send queue to the peer and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(payload)

			// Fold queued payloads into the same frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
