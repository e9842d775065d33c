package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/hoopshot/internal/auth"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	commandWait  = 2 * time.Second
	maxMessageSz = 4096
)

// Client is one websocket attached to a room. Only a client that presented
// the session's token may drive it; everyone else spectates. A remote client
// watches a session hosted by another instance through the redis relay.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	roomID  string
	canPlay bool
	remote  bool
	send    chan []byte
}

// DragData is the payload of aim and shoot messages.
type DragData struct {
	Start game.Vec2 `json:"start"`
	End   game.Vec2 `json:"end"`
}

// ClickData is the payload of click messages.
type ClickData struct {
	Pointer game.Vec2 `json:"pointer"`
}

// Run registers and unregisters clients until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for roomID, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
				delete(h.rooms, roomID)
			}
			h.mu.Unlock()
			log.Println("[WS] Hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.roomID]; !exists {
				h.rooms[client.roomID] = make(map[*Client]struct{})
			}
			h.rooms[client.roomID][client] = struct{}{}
			size := len(h.rooms[client.roomID])
			h.mu.Unlock()
			log.Printf("[WS] Client connected to room %s (player=%v room_size=%d)", client.roomID, client.canPlay, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.roomID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.roomID)
					}
					log.Printf("[WS] Client disconnected from room %s", client.roomID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Handler upgrades GET /sessions/:id/ws. A token query parameter issued for
// the session makes the socket a player; without one it only watches.
// Sessions hosted by another instance can be watched when their snapshot is
// in the redis cache.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		ctx, cancel := context.WithTimeout(context.Background(), commandWait)
		defer cancel()

		var (
			snap   game.Snapshot
			remote bool
		)
		r, err := h.manager.Get(roomID)
		if err == nil {
			snap, err = r.Snapshot(ctx)
		} else {
			r = nil
			snap, err = h.remoteSnapshot(ctx, roomID)
			remote = true
		}
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		canPlay := false
		if token := c.Query("token"); token != "" {
			if _, err := auth.Authorize(h.secret, token, roomID); err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			canPlay = !remote
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:     h,
			conn:    conn,
			roomID:  roomID,
			canPlay: canPlay,
			remote:  remote,
			send:    make(chan []byte, 256),
		}

		// Late joiners get the current state first. Nothing else can write to
		// send before the client is registered.
		if data, err := json.Marshal(Envelope{Type: TypeState, Data: snap}); err == nil {
			client.send <- data
		}

		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump(r)
	}
}

// remoteSnapshot reads the cached state of a session this instance does not host.
func (h *Hub) remoteSnapshot(ctx context.Context, roomID string) (game.Snapshot, error) {
	if h.cache == nil {
		return game.Snapshot{}, room.ErrRoomNotFound
	}
	snap, err := h.cache.LoadSnapshot(ctx, roomID)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("remote session %s: %w", roomID, err)
	}
	return snap, nil
}

// writePump writes messages to the WebSocket connection
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error in room %s: %v", c.roomID, err)
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

// readPump reads client messages until the connection drops. r is nil for
// remote clients.
func (c *Client) readPump(r *room.Room) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSz)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Unexpected close in room %s: %v", c.roomID, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		c.handleMessage(r, msg)
	}
}

func (c *Client) handleMessage(r *room.Room, msg WSMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), commandWait)
	defer cancel()

	if msg.Type == "get_state" {
		var (
			snap game.Snapshot
			err  error
		)
		if r != nil {
			snap, err = r.Snapshot(ctx)
		} else {
			snap, err = c.hub.remoteSnapshot(ctx, c.roomID)
		}
		if err != nil {
			c.sendError(errorMessage(err))
			return
		}
		c.sendEnvelope(Envelope{Type: TypeState, Data: snap})
		return
	}

	if !c.canPlay || r == nil {
		c.sendError("spectators cannot play")
		return
	}

	var (
		accepted bool
		err      error
	)
	switch msg.Type {
	case "start":
		accepted, err = r.Start(ctx)
	case "restart":
		accepted, err = r.Restart(ctx)
	case "aim", "shoot":
		var data DragData
		if jerr := json.Unmarshal(msg.Data, &data); jerr != nil {
			c.sendError("invalid drag data")
			return
		}
		if msg.Type == "aim" {
			accepted, err = r.Aim(ctx, data.Start, data.End)
		} else {
			accepted, err = r.Shoot(ctx, data.Start, data.End)
		}
	case "click":
		var data ClickData
		if jerr := json.Unmarshal(msg.Data, &data); jerr != nil {
			c.sendError("invalid click data")
			return
		}
		accepted, err = r.Click(ctx, data.Pointer)
	default:
		c.sendError("unknown message type")
		return
	}

	if err != nil {
		c.sendError(errorMessage(err))
		return
	}
	c.sendEnvelope(Envelope{Type: TypeAck, Data: gin.H{"action": msg.Type, "accepted": accepted}})
}

func errorMessage(err error) string {
	if errors.Is(err, room.ErrRoomClosed) {
		return "session closed"
	}
	return "session busy"
}

func (c *Client) sendEnvelope(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("[WS] Error marshaling %s message: %v", env.Type, err)
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	// send is closed under the write lock on unregister; only write while
	// the client is still registered.
	if _, ok := c.hub.rooms[c.roomID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Send buffer full in room %s, dropping %s", c.roomID, env.Type)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendEnvelope(Envelope{Type: TypeError, Data: gin.H{"message": message}})
}
