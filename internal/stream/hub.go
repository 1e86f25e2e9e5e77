// Package stream broadcasts finished backtest results to websocket clients.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vaibhavblayer/cryptobacktest/internal/backtest"
)

// HubConfig controls buffering and timeouts for the result broadcaster.
type HubConfig struct {
	SubscriberBufferSize int
	WriteTimeout         time.Duration
}

// DefaultHubConfig returns sane defaults for a single-operator CLI server.
func DefaultHubConfig() HubConfig {
	return HubConfig{SubscriberBufferSize: 16, WriteTimeout: 5 * time.Second}
}

// Hub fans completed backtest results out to every connected websocket
// client, non-blocking: a slow or stalled client has results dropped rather
// than backpressuring the run that produced them.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}

	dropped uint64
	metrMu  sync.Mutex
}

type subscriber struct {
	ch chan []byte
}

// NewHub creates a result broadcaster with default configuration.
func NewHub() *Hub { return NewHubWithConfig(DefaultHubConfig()) }

// NewHubWithConfig creates a result broadcaster with custom configuration.
func NewHubWithConfig(cfg HubConfig) *Hub {
	return &Hub{
		config:      cfg,
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and streams
// every subsequently published result to it until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := &subscriber{ch: make(chan []byte, h.config.SubscriberBufferSize)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.subscribers, sub)
		h.mu.Unlock()
	}()

	for payload := range sub.ch {
		conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
	return nil
}

// PublishResult broadcasts a finished backtest result to every connected
// client. Encoding failures are swallowed: a malformed result must not crash
// the run that produced it.
func (h *Hub) PublishResult(result backtest.BacktestResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	h.broadcast(payload)
}

// PublishComparison broadcasts a strategy comparison table.
func (h *Hub) PublishComparison(comparisons []backtest.StrategyComparison) {
	payload, err := json.Marshal(comparisons)
	if err != nil {
		return
	}
	h.broadcast(payload)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub.ch <- payload:
		default:
			h.metrMu.Lock()
			h.dropped++
			h.metrMu.Unlock()
		}
	}
}

// SubscriberCount returns the number of currently connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// DroppedCount returns the number of broadcasts dropped due to a full
// subscriber buffer since the hub was created.
func (h *Hub) DroppedCount() uint64 {
	h.metrMu.Lock()
	defer h.metrMu.Unlock()
	return h.dropped
}
