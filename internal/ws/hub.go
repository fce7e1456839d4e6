// Package ws pushes live SwapExecution status updates to subscribed
// clients over a websocket connection at /ws/executions/:id. Grounded on
// the teacher's services/websocket_push_service.go subscriber-registry +
// broadcast-over-channel pattern, narrowed from a user-address-keyed fan
// out of checkbook/check/withdrawal events to a quote-id-keyed fan out of
// one event type (execution status).
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"crossfund/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscriber is one open websocket connection watching a single quote id.
type subscriber struct {
	quoteID string
	send    chan []byte
}

// Hub fans SwapExecution updates out to every subscriber watching a given
// quote id. Safe for concurrent use by HTTP handler goroutines and the
// executor goroutine driving execution forward.
type Hub struct {
	mutex sync.RWMutex
	subs  map[string][]*subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string][]*subscriber)}
}

// ServeExecution upgrades the request to a websocket and streams
// SwapExecution snapshots for quoteID until the client disconnects.
func (h *Hub) ServeExecution(w http.ResponseWriter, r *http.Request, quoteID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{quoteID: quoteID, send: make(chan []byte, 16)}
	h.register(sub)
	defer h.unregister(sub)

	go h.readPump(conn, sub)
	h.writePump(conn, sub)
	return nil
}

func (h *Hub) register(sub *subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.subs[sub.quoteID] = append(h.subs[sub.quoteID], sub)
}

func (h *Hub) unregister(sub *subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	peers := h.subs[sub.quoteID]
	for i, s := range peers {
		if s == sub {
			h.subs[sub.quoteID] = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	if len(h.subs[sub.quoteID]) == 0 {
		delete(h.subs, sub.quoteID)
	}
	close(sub.send)
}

// readPump discards inbound frames (clients never send data) but keeps
// reading so ping/pong control frames and close frames are handled.
func (h *Hub) readPump(conn *websocket.Conn, sub *subscriber) {
	defer conn.Close()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, sub *subscriber) {
	defer conn.Close()
	for payload := range sub.send {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// Broadcast pushes a SwapExecution snapshot to every subscriber watching
// its quote id. Called by the execute handler with the final
// SwapExecution once Execute returns.
func (h *Hub) Broadcast(exec *types.SwapExecution) {
	payload, err := json.Marshal(exec)
	if err != nil {
		log.Printf("ws: failed to marshal execution %s: %v", exec.QuoteID, err)
		return
	}

	h.mutex.RLock()
	peers := append([]*subscriber(nil), h.subs[exec.QuoteID]...)
	h.mutex.RUnlock()

	for _, sub := range peers {
		select {
		case sub.send <- payload:
		default:
			log.Printf("ws: dropping slow subscriber for quote %s", exec.QuoteID)
		}
	}
}

// SubscriberCount reports how many clients currently watch quoteID.
func (h *Hub) SubscriberCount(quoteID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subs[quoteID])
}
