package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

const (
	AggregateTypeProduct = "Product"

	EventTypeProductCreated      = "product.created"
	EventTypeProductPriceChanged = "product.price_changed"
	EventTypeProductDisabled     = "product.disabled"
)

// ProductCreatedEvent is raised when a product is added to the catalog.
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.TenantID),
		SKU:             p.SKU,
		Name:            p.Name,
	}
}

// ProductPriceChangedEvent is raised when cost or sell price changes.
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	SKU          string          `json:"sku"`
	OldCostPrice decimal.Decimal `json:"old_cost_price"`
	OldSellPrice decimal.Decimal `json:"old_sell_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
}

func NewProductPriceChangedEvent(p *Product, oldCost, oldSell decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, p.ID, p.TenantID),
		SKU:             p.SKU,
		OldCostPrice:    oldCost,
		OldSellPrice:    oldSell,
		CostPrice:       p.CostPrice,
		SellPrice:       p.SellPrice,
	}
}

// ProductDisabledEvent is raised when a product is taken off sale.
type ProductDisabledEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

func NewProductDisabledEvent(p *Product) *ProductDisabledEvent {
	return &ProductDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDisabled, AggregateTypeProduct, p.ID, p.TenantID),
		SKU:             p.SKU,
	}
}
