package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/maze-escape/internal/session"
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

// EventStateUpdate is the event name of snapshot broadcasts.
const EventStateUpdate = "state_update"

// EventError reports a rejected inbound command to its sender.
const EventError = "error"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope of every frame sent to clients.
type Message struct {
	Event     string            `json:"event"`
	SessionID string            `json:"session_id"`
	State     *session.Snapshot `json:"state,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// CommandFunc applies a command received from a client of sessionID.
type CommandFunc func(sessionID string, cmd session.Command) error

// Client is one websocket connection subscribed to a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type directMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and broadcasts messages.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	sessions   map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	drop       chan string
	direct     chan directMessage
	stopped    chan struct{}
	onCommand  CommandFunc
	logger     *log.Logger
}

// NewHub creates a hub. onCommand handles inbound client frames; nil makes
// the stream read-only.
func NewHub(onCommand CommandFunc, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		drop:       make(chan string),
		direct:     make(chan directMessage),
		stopped:    make(chan struct{}),
		onCommand:  onCommand,
		logger:     logger,
	}
}

// Run starts the hub's event loop. It returns when ctx is done, closing
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			for id := range h.sessions {
				h.dropSession(id)
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case id := <-h.drop:
			h.dropSession(id)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			if h.sessions[dm.client.sessionID][dm.client] {
				select {
				case dm.client.send <- dm.data:
				default:
				}
			}
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, initial session.Snapshot) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	// The first frame is the current state, queued before any broadcast.
	if data, err := json.Marshal(&Message{Event: EventStateUpdate, SessionID: sessionID, State: &initial}); err == nil {
		client.send <- data
	}
	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends a snapshot to all clients of a session.
func (h *Hub) BroadcastToSession(sessionID string, snap session.Snapshot) {
	select {
	case h.broadcast <- &Message{Event: EventStateUpdate, SessionID: sessionID, State: &snap}:
	case <-h.stopped:
	}
}

// CloseSession disconnects every client of a session.
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.drop <- sessionID:
	case <-h.stopped:
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug("client registered", "session", client.sessionID, "clients", len(h.sessions[client.sessionID]))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug("client unregistered", "session", client.sessionID, "clients", len(clients))
}

func (h *Hub) dropSession(id string) {
	for client := range h.sessions[id] {
		h.unregisterClient(client)
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("cannot marshal broadcast", "error", err)
		return
	}

	for client := range h.sessions[message.SessionID] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, close it
			h.unregisterClient(client)
		}
	}
}

// readPump reads command frames until the connection closes.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // Deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "error", err)
			}
			return
		}
		if c.hub.onCommand == nil {
			continue
		}

		var cmd session.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.reply(err)
			continue
		}
		if err := c.hub.onCommand(c.sessionID, cmd); err != nil {
			c.reply(err)
		}
	}
}

// reply sends an error frame to this client only. The snapshot of an
// accepted command reaches it through the session broadcast.
func (c *Client) reply(err error) {
	data, mErr := json.Marshal(&Message{Event: EventError, SessionID: c.sessionID, Error: err.Error()})
	if mErr != nil {
		return
	}
	select {
	case c.hub.direct <- directMessage{client: c, data: data}:
	case <-c.hub.stopped:
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // A failed deadline shows up as a write error
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				//nolint:errcheck // Best-effort close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // A failed deadline shows up as a write error
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
