package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"partygames/metrics"

	"github.com/gorilla/websocket"
)

// Hub bridges the bus to websocket clients. Every client independently
// subscribes to its session's roster and round topics (and its own player
// topic), so each connection receives the current snapshot on attach and
// then the full update sequence.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	bus        *Bus
}

type Client struct {
	hub       *Hub
	id        string
	socket    *websocket.Conn
	send      chan []byte
	code      string
	playerKey string
	unsubs    []func()
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Fan-out message types pushed to clients.
const (
	MessageRoster = "roster"
	MessageRound  = "round"
	MessagePlayer = "player"
)

func NewHub(bus *Bus) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.attach(client)
			metrics.ConnectedClients.Inc()
			log.Printf("Client registered: %s for session %s (player %q) - total clients: %d",
				client.id, client.code, client.playerKey, h.count())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for _, unsub := range client.unsubs {
					unsub()
				}
				close(client.send)
				metrics.ConnectedClients.Dec()
				log.Printf("Client unregistered: %s for session %s (player %q) - total clients: %d",
					client.id, client.code, client.playerKey, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

// attach wires the client's bus subscriptions. Subscribing delivers the
// retained snapshots immediately, which is the initial state sync.
func (h *Hub) attach(client *Client) {
	client.unsubs = append(client.unsubs,
		h.bus.Subscribe(PlayersTopic(client.code), client.relay(MessageRoster)),
		h.bus.Subscribe(RoundTopic(client.code), client.relay(MessageRound)),
	)
	if client.playerKey != "" {
		client.unsubs = append(client.unsubs,
			h.bus.Subscribe(PlayerTopic(client.code, client.playerKey), client.relay(MessagePlayer)))
	}
}

// relay forwards one topic's payloads to the client's socket. Bus callbacks
// must not block, so a client with a full send buffer drops the update; it
// can always request a fresh snapshot.
func (c *Client) relay(messageType string) func(interface{}) {
	return func(payload interface{}) {
		data, err := json.Marshal(Message{Type: messageType, Payload: payload})
		if err != nil {
			log.Printf("Error marshaling %s message: %v", messageType, err)
			return
		}
		select {
		case c.send <- data:
			metrics.EventsDelivered.WithLabelValues(messageType).Inc()
		default:
			log.Printf("Client %s send buffer full, dropping %s update", c.id, messageType)
		}
	}
}

func (h *Hub) count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// IsPlayerConnected reports whether a player has at least one live socket in
// the session.
func (h *Hub) IsPlayerConnected(code, playerKey string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.code == code && client.playerKey == playerKey {
			return true
		}
	}
	return false
}

func (h *Hub) RegisterClient(conn *websocket.Conn, code, playerKey string) *Client {
	client := &Client{
		hub:       h,
		id:        generateClientID(),
		socket:    conn,
		send:      make(chan []byte, 256),
		code:      code,
		playerKey: playerKey,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		data, _ := json.Marshal(Message{Type: "pong", Payload: "pong"})
		select {
		case c.send <- data:
		default:
		}

	case "request_state":
		// Full resync from the retained snapshots, e.g. after the client
		// dropped updates or came back from the background.
		c.resync(MessageRoster, PlayersTopic(c.code))
		c.resync(MessageRound, RoundTopic(c.code))
		if c.playerKey != "" {
			c.resync(MessagePlayer, PlayerTopic(c.code, c.playerKey))
		}

	default:
		log.Printf("Unknown message type: %s from client %s in session %s", msg.Type, c.id, c.code)
	}
}

func (c *Client) resync(messageType, topic string) {
	if snapshot, ok := c.hub.bus.Retained(topic); ok {
		c.relay(messageType)(snapshot)
	}
}

var clientSeq atomic.Uint64

func generateClientID() string {
	return fmt.Sprintf("client_%d", clientSeq.Add(1))
}
