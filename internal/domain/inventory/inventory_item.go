package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// InventoryItem tracks the stock level of one product at one branch.
// The composite identifier is BranchID + ProductID. SKU and Name are
// denormalized from the catalog so stock listings and audit records
// stay readable even after a product is renamed.
type InventoryItem struct {
	shared.TenantAggregateRoot
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_branch_product,priority:2"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_branch_product,priority:3"`
	SKU       string          `gorm:"type:varchar(50);not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Stock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a zero-stock inventory record for a
// branch-product combination.
func NewInventoryItem(tenantID, branchID, productID uuid.UUID, sku, name string) (*InventoryItem, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}

	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		ProductID:           productID,
		SKU:                 sku,
		Name:                name,
		Stock:               decimal.Zero,
		CostPrice:           decimal.Zero,
	}, nil
}

// IncreaseStock adds quantity to the stock level. Quantity must be
// strictly positive. The caller is responsible for recording the
// matching audit entry.
func (i *InventoryItem) IncreaseStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	previous := i.Stock
	i.Stock = i.Stock.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockIncreasedEvent(i, quantity, previous))

	return nil
}

// DecreaseStock removes quantity from the stock level. Fails when the
// remaining stock would go negative.
func (i *InventoryItem) DecreaseStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.Stock.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+i.Name)
	}

	previous := i.Stock
	i.Stock = i.Stock.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockDecreasedEvent(i, quantity, previous))

	return nil
}

// SetCostPrice updates the unit cost carried for this branch's stock.
func (i *InventoryItem) SetCostPrice(costPrice decimal.Decimal) error {
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}

	i.CostPrice = costPrice
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Rename refreshes the denormalized product name and SKU.
func (i *InventoryItem) Rename(sku, name string) {
	i.SKU = sku
	i.Name = name
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// HasStock returns true if any stock is on hand.
func (i *InventoryItem) HasStock() bool {
	return i.Stock.GreaterThan(decimal.Zero)
}

// CanFulfill returns true if the stock level covers the requested quantity.
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.Stock.GreaterThanOrEqual(quantity)
}

// StockValue returns the stock valuation at cost.
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.Stock.Mul(i.CostPrice)
}
