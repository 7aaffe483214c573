// Package ws pushes deadline events to the owner's open websocket
// connections.
package ws

import (
	"encoding/json"
	"sync"

	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	connections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections",
		Help: "Open deadline event connections",
	})
	eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ws_events_dropped_total",
		Help: "Deadline events dropped because a client buffer was full",
	})
)

func init() {
	prometheus.MustRegister(connections)
	prometheus.MustRegister(eventsDropped)
}

// Hub tracks connections per user. Events never cross users.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	connections.Inc()
	logger.Debug("ws client registered", "user_id", c.UserID)
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			close(c.Send)
			connections.Dec()
		}
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
}

// Publish sends ev to every connection of userID without blocking. A client
// whose buffer is full misses the event.
func (h *Hub) Publish(userID int64, ev domain.DeadlineEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error("ws marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			eventsDropped.Inc()
			logger.Warn("ws client buffer full, event dropped", "user_id", userID, "event", ev.Type)
		}
	}
}

// Count returns the number of open connections for userID.
func (h *Hub) Count(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
