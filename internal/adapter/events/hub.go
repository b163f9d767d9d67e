package events

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
)

const writeWait = 5 * time.Second

// OccupancyCounter reads the current slot counts.
type OccupancyCounter interface {
	Occupancy(ctx context.Context) (domain.Occupancy, error)
}

// Hub pushes slot availability to websocket clients after every occupancy
// event. It is an EventPublisher so it sits next to Kafka in a Fanout.
type Hub struct {
	counter  OccupancyCounter
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

// client serialises writes to one connection. h.mu is never held while
// writing, so a slow client only stalls its own updates.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewHub(counter OccupancyCounter, log *logger.Logger) *Hub {
	return &Hub{
		counter: counter,
		log:     log.With("component", "SlotHub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]*client),
	}
}

// ServeHTTP upgrades the connection and sends the current counts right away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()

	if occ, err := h.counter.Occupancy(r.Context()); err == nil {
		h.send(c, occ)
	}

	// reads only serve to notice the client going away
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) Publish(ctx context.Context, event domain.LedgerEvent) error {
	if event.Type != domain.EventOccupancyOpened && event.Type != domain.EventOccupancyClosed {
		return nil
	}
	occ, err := h.counter.Occupancy(ctx)
	if err != nil {
		return err
	}
	h.Broadcast(occ)
	return nil
}

func (h *Hub) Broadcast(occ domain.Occupancy) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.send(c, occ)
	}
}

func (h *Hub) send(c *client, occ domain.Occupancy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(occ); err != nil {
		h.log.Debug("websocket write failed", "error", err)
		h.drop(c.conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
