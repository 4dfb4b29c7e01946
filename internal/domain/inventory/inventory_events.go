package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

const (
	AggregateTypeInventoryItem = "InventoryItem"

	EventTypeStockIncreased = "inventory.stock_increased"
	EventTypeStockDecreased = "inventory.stock_decreased"
)

// StockLevelEvent carries the fields shared by both stock movement
// events. Consumers include the live stock feed and the Kafka sink.
type StockLevelEvent struct {
	shared.BaseDomainEvent
	BranchID      uuid.UUID       `json:"branch_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
}

// StockIncreasedEvent is raised when stock is added at a branch.
type StockIncreasedEvent struct {
	StockLevelEvent
}

func NewStockIncreasedEvent(item *InventoryItem, quantity, previousStock decimal.Decimal) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		StockLevelEvent: StockLevelEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, AggregateTypeInventoryItem, item.ID, item.TenantID),
			BranchID:        item.BranchID,
			ProductID:       item.ProductID,
			SKU:             item.SKU,
			Quantity:        quantity,
			PreviousStock:   previousStock,
			NewStock:        item.Stock,
		},
	}
}

// StockDecreasedEvent is raised when stock is removed at a branch.
type StockDecreasedEvent struct {
	StockLevelEvent
}

func NewStockDecreasedEvent(item *InventoryItem, quantity, previousStock decimal.Decimal) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		StockLevelEvent: StockLevelEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, AggregateTypeInventoryItem, item.ID, item.TenantID),
			BranchID:        item.BranchID,
			ProductID:       item.ProductID,
			SKU:             item.SKU,
			Quantity:        quantity,
			PreviousStock:   previousStock,
			NewStock:        item.Stock,
		},
	}
}
