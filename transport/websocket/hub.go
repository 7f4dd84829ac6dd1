package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"terrainwalk/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Notification is the UI-facing broadcast consumed by presentation
// components (debug panel, legend, settings). It carries everything a
// panel needs without it ever touching engine-owned state.
type Notification struct {
	SessionID      string                        `json:"session_id"`
	State          *engine.PlayerState           `json:"state,omitempty"`
	World          *engine.WorldMap              `json:"world,omitempty"`
	CurrentTerrain engine.TerrainKind            `json:"current_terrain,omitempty"`
	TerrainColors  map[engine.TerrainKind]string `json:"terrain_colors,omitempty"`
	TerrainNames   map[engine.TerrainKind]string `json:"terrain_names,omitempty"`
	Message        string                        `json:"message,omitempty"`
	Status         engine.Status                 `json:"status,omitempty"`
	ProgressStep   int                           `json:"progress_step,omitempty"`
	ProgressTotal  int                           `json:"progress_total,omitempty"`
	ProgressResult int                           `json:"progress_result,omitempty"`
}

// FromEvent converts an engine event into a UI notification, attaching the
// static terrain lookups presentation components rely on.
func FromEvent(sessionID string, ev engine.Event) *Notification {
	n := &Notification{
		SessionID:      sessionID,
		State:          ev.State,
		World:          ev.World,
		Message:        ev.Message,
		Status:         ev.Status,
		ProgressStep:   ev.ProgressStep,
		ProgressTotal:  ev.ProgressTotal,
		ProgressResult: ev.ProgressResult,
	}
	if ev.State != nil {
		n.CurrentTerrain = ev.State.CurrentTerrain
	}
	if ev.World != nil {
		n.TerrainColors = engine.TerrainColors()
		n.TerrainNames = engine.TerrainNames()
	}
	return n
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients and broadcasts notifications
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound notifications
	broadcast chan *Notification

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Notification, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case n := <-h.broadcast:
			h.broadcastNotification(n)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// Broadcast queues a notification for every client watching its session.
func (h *Hub) Broadcast(n *Notification) {
	select {
	case h.broadcast <- n:
	default:
		// Hub is saturated; the notification stream is lossy.
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client registered for session %s (total clients: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client unregistered from session %s (remaining clients: %d)",
				client.sessionID, len(clients))
		}
	}
}

// broadcastNotification sends a notification to all clients in a session
func (h *Hub) broadcastNotification(n *Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("Failed to marshal notification: %v", err)
		return
	}

	if clients, ok := h.sessions[n.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, close it
				h.unregisterClient(client)
			}
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients are consumers only; incoming messages just keep the
		// connection alive.
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
