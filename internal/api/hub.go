/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes refresh hints to connected clients.

    The game engine notifies its observers after every accepted action; the
    Hub turns each notification into a "state_changed" envelope and fans it
    out to every socket. Clients then fetch /api/state. Commands never travel
    over the socket; they go through the REST handlers.

    Architecture:
    - Hub: owns the client registry, run as a goroutine.
    - Client: one browser connection with its outbound buffer.
    - ServeWs: upgrades GET /ws to a WebSocket and registers the client.
*/

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/everforgeworks/power-crude/internal/game"
)

const (
	MsgStateChanged = "state_changed" // Something changed; refetch /api/state
	MsgHello        = "hello"         // First frame on every socket

	// Time allowed to write one frame to the peer.
	writeWait = 10 * time.Second
)

// Message is the JSON envelope for everything sent over the socket.
type Message struct {
	Type    string    `json:"type"`    // MsgStateChanged, MsgHello
	Game    uuid.UUID `json:"game"`    // Session the message belongs to
	Payload any       `json:"payload"` // game.Change for state_changed
	Sender  string    `json:"sender"`  // Always "engine" for now
}

// Client is one connected browser tab.
// It sits between the websocket connection and the Hub.
type Client struct {
	hub  *Hub            // Hub this client is registered with
	conn *websocket.Conn // Underlying WebSocket connection
	send chan []byte     // Buffered outbound frames; closed by the Hub on drop
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients. Only Run touches this map.
	clients map[*Client]bool

	// Outbound envelopes, already encoded.
	// Buffered so engine observers never wait on slow sockets.
	Broadcast chan []byte

	// Register requests from ServeWs.
	register chan *Client

	// Unregister requests from readPump.
	unregister chan *Client

	// Closed when Run exits. Pumps select on it so they never block on a
	// stopped Hub.
	done chan struct{}

	connected atomic.Int32 // Mirror of len(clients), safe to read from any goroutine
	log       *slog.Logger
}

// NewHub creates a Hub. Start it with `go hub.Run(ctx)`.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger.With("component", "hub"),
	}
}

// ClientCount reports how many sockets are registered.
func (h *Hub) ClientCount() int { return int(h.connected.Load()) }

// Run is the Hub event loop. It returns when ctx is cancelled, closing every
// client's outbound channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Shutdown. Release waiting pumps, then close every socket's queue.
			close(h.done)
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			// A new browser connected.
			h.clients[client] = true
			h.connected.Add(1)
			h.log.Debug("client registered", "clients", len(h.clients))

		case client := <-h.unregister:
			// A browser disconnected. It may already have been dropped.
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case message := <-h.Broadcast:
			// An accepted action changed the game. Tell everyone.
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Full buffer: the client is stuck or gone.
					h.drop(client)
				}
			}
		}
	}
}

// drop forgets a client and closes its queue, which ends its writePump.
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.connected.Add(-1)
}

// Publish encodes an envelope and queues it for broadcast. When the queue is
// full the message is dropped; clients recover on the next change.
func (h *Hub) Publish(msgType string, gameID uuid.UUID, payload any) {
	data, err := json.Marshal(Message{Type: msgType, Game: gameID, Payload: payload, Sender: "engine"})
	if err != nil {
		h.log.Error("encoding message", "type", msgType, "err", err)
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		h.log.Warn("broadcast queue full, message dropped", "type", msgType)
	}
}

// Attach subscribes the Hub to a game's change notifications.
func (h *Hub) Attach(g *game.GameState) {
	id := g.ID
	g.OnChange(func(c game.Change) {
		h.Publish(MsgStateChanged, id, c)
	})
}

// upgrader allows any origin; the server is meant for a local client.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and registers the new client. The first
// message on every socket is a hello carrying the game id.
func ServeWs(hub *Hub, gameID uuid.UUID, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	// Create the client wrapper and queue the hello before the Hub can
	// broadcast to it.
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	if hello, err := json.Marshal(Message{Type: MsgHello, Game: gameID, Sender: "engine"}); err == nil {
		client.send <- hello
	}
	// Register with the Hub loop, unless it has already stopped.
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	// One goroutine per direction.
	go client.writePump()
	go client.readPump()
}

// readPump only watches for the connection closing. Inbound messages are
// discarded.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// Block until the peer closes or the connection fails.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read", "err", err)
			}
			return
		}
	}
}

// writePump drains the client's outbound channel until the Hub closes it.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		// Any write failure means the socket is dead; readPump unregisters it.
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}
	// The Hub closed the channel. Say goodbye politely.
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
