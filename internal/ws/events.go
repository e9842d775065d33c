package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/hoopshot/internal/store"
)

// StartEventSubscriber forwards session events published by other instances
// to the sockets watching those sessions here. Rooms hosted by this instance
// reach their sockets directly, so their events are skipped.
// Call it before the hub starts serving.
func (h *Hub) StartEventSubscriber(ctx context.Context, cache *store.Cache) {
	if cache == nil {
		log.Println("[WS] Redis cache not set; event subscriber not started")
		return
	}
	h.cache = cache

	events := cache.Subscribe(ctx)
	go func() {
		log.Printf("[WS] %s subscriber started", store.EventsChannel)
		for ev := range events {
			h.relay(ev)
		}
		log.Printf("[WS] %s subscriber stopped", store.EventsChannel)
	}()
}

// relay delivers an event to the sockets watching a session hosted elsewhere.
// Sockets of local rooms already got it from the room itself.
func (h *Hub) relay(ev store.SessionEvent) {
	var msg Envelope
	switch ev.Type {
	case store.EventTransition:
		msg = Envelope{Type: TypeTransition, Data: TransitionData{Snapshot: ev.Snapshot, Transitions: ev.Transitions}}
	case store.EventClosed:
		msg = Envelope{Type: TypeClosed, Data: ev.Snapshot}
	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Error marshaling relayed %s: %v", ev.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[ev.SessionID] {
		if !client.remote {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send buffer full for client in room %s, dropping relayed %s", ev.SessionID, ev.Type)
		}
	}
}
