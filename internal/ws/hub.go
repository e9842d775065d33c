package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
	"github.com/playmatatu/hoopshot/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware.WebSocketCORSCheck
	},
}

// Outgoing message types.
const (
	TypeFrame      = "frame"
	TypeTransition = "transition"
	TypeClosed     = "closed"
	TypeAck        = "ack"
	TypeState      = "state"
	TypeError      = "error"
)

// WSMessage is the envelope for messages read from clients.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Envelope is the envelope for messages written to clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// TransitionData accompanies a transition message.
type TransitionData struct {
	Snapshot    game.Snapshot     `json:"snapshot"`
	Transitions []game.Transition `json:"transitions"`
}

// Hub tracks the sockets attached to each room and fans room output to them.
// It implements room.Observer.
type Hub struct {
	room.NopObserver

	rooms      map[string]map[*Client]struct{} // roomID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	manager *room.Manager
	secret  string

	// cache is set by StartEventSubscriber. It lets sockets watch sessions
	// hosted by another instance.
	cache *store.Cache
}

func NewHub(manager *room.Manager, jwtSecret string) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		manager:    manager,
		secret:     jwtSecret,
	}
}

// SetManager attaches the room manager. The hub is an observer of the
// manager's rooms, so the two are built one after the other.
func (h *Hub) SetManager(m *room.Manager) {
	h.manager = m
}

// Broadcast sends a message to every socket watching roomID.
func (h *Hub) Broadcast(roomID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			// Slow reader; frames are superseded by the next one anyway.
			log.Printf("[WS] Send buffer full for client in room %s, dropping message", roomID)
		}
	}
}

// ClientCount returns how many sockets watch roomID.
func (h *Hub) ClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) Frame(roomID string, snap game.Snapshot) {
	h.Broadcast(roomID, Envelope{Type: TypeFrame, Data: snap})
}

func (h *Hub) Transitions(roomID string, snap game.Snapshot, trs []game.Transition) {
	h.Broadcast(roomID, Envelope{Type: TypeTransition, Data: TransitionData{Snapshot: snap, Transitions: trs}})
}

func (h *Hub) RoomClosed(roomID string, snap game.Snapshot) {
	h.Broadcast(roomID, Envelope{Type: TypeClosed, Data: snap})
}
