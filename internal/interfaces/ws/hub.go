// Package ws provides the live stock feed over WebSocket. The hub
// subscribes to stock movement events on the event bus and fans each
// one out to the connected clients of the same tenant, so registers
// and back-office screens see stock levels change in near real time.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StockUpdate is the message sent to subscribed clients for every
// stock movement at one of the tenant's branches.
type StockUpdate struct {
	Type          string          `json:"type"`
	BranchID      uuid.UUID       `json:"branch_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type tenantMessage struct {
	tenantID uuid.UUID
	payload  []byte
}

// Hub tracks connected clients per tenant and broadcasts stock
// updates to them. It implements shared.EventHandler so it can be
// subscribed directly on the event bus.
type Hub struct {
	logger *zap.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan tenantMessage
	done       chan struct{}

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates a hub. Call Run before subscribing it on the bus.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan tenantMessage, 256),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Run processes register, unregister, and broadcast requests until
// Stop is called. Intended to run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.deliver(msg)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client
func (h *Hub) Stop() {
	close(h.done)
}

// EventTypes subscribes the hub to both stock movement events
func (h *Hub) EventTypes() []string {
	return []string{
		inventory.EventTypeStockIncreased,
		inventory.EventTypeStockDecreased,
	}
}

// Handle converts a stock movement event into a StockUpdate and
// queues it for broadcast. A full queue drops the update rather than
// blocking the publisher; clients resynchronize from the REST API.
func (h *Hub) Handle(_ context.Context, event shared.DomainEvent) error {
	var level inventory.StockLevelEvent
	switch e := event.(type) {
	case *inventory.StockIncreasedEvent:
		level = e.StockLevelEvent
	case *inventory.StockDecreasedEvent:
		level = e.StockLevelEvent
	default:
		return nil
	}

	update := StockUpdate{
		Type:          event.EventType(),
		BranchID:      level.BranchID,
		ProductID:     level.ProductID,
		SKU:           level.SKU,
		Quantity:      level.Quantity,
		PreviousStock: level.PreviousStock,
		NewStock:      level.NewStock,
		OccurredAt:    event.OccurredAt(),
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- tenantMessage{tenantID: event.TenantID(), payload: payload}:
	default:
		h.logger.Warn("stock feed broadcast queue full, dropping update",
			zap.String("event_type", event.EventType()),
			zap.String("tenant_id", event.TenantID().String()),
		)
	}
	return nil
}

// ClientCount returns the number of connected clients for a tenant
func (h *Hub) ClientCount(tenantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tenantID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.tenantID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.tenantID] = set
	}
	set[client] = struct{}{}
	h.logger.Debug("stock feed client connected",
		zap.String("tenant_id", client.tenantID.String()),
		zap.Int("tenant_clients", len(set)),
	)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[client.tenantID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.tenantID)
	}
}

// deliver sends the payload to every client of the tenant. A client
// whose send buffer is full is disconnected; it is too slow to keep
// up with the feed.
func (h *Hub) deliver(msg tenantMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[msg.tenantID]
	for client := range set {
		select {
		case client.send <- msg.payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, msg.tenantID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for tenantID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, tenantID)
	}
}

var _ shared.EventHandler = (*Hub)(nil)
