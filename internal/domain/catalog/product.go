package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDisabled ProductStatus = "disabled"
)

// Product is a sellable item in the tenant's catalog. Stock levels are
// tracked per branch in the inventory module, keyed by product ID and SKU.
type Product struct {
	shared.TenantAggregateRoot
	SKU       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Barcode   string          `gorm:"type:varchar(50);index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Unit      string          `gorm:"type:varchar(20);not null"` // base unit, e.g. "pcs", "kg", "box"
	Category  string          `gorm:"type:varchar(100);index"`
	CostPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status    ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with zero prices.
func NewProduct(tenantID uuid.UUID, sku, name, unit string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Unit:                unit,
		CostPrice:           decimal.Zero,
		SellPrice:           decimal.Zero,
		Status:              ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields.
func (p *Product) Update(name, unit, category string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateUnit(unit); err != nil {
		return err
	}

	p.Name = name
	p.Unit = unit
	p.Category = category
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetBarcode sets the product barcode.
func (p *Product) SetBarcode(barcode string) error {
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices sets cost and sell prices. Prices cannot be negative.
func (p *Product) SetPrices(costPrice, sellPrice decimal.Decimal) error {
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if sellPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sell price cannot be negative")
	}

	oldCost := p.CostPrice
	oldSell := p.SellPrice

	p.CostPrice = costPrice
	p.SellPrice = sellPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if !oldCost.Equal(costPrice) || !oldSell.Equal(sellPrice) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldCost, oldSell))
	}

	return nil
}

// Disable takes the product off sale. Existing inventory and history
// keep referring to it.
func (p *Product) Disable() error {
	if p.Status == ProductStatusDisabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Product is already disabled")
	}

	p.Status = ProductStatusDisabled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductDisabledEvent(p))

	return nil
}

// Enable puts a disabled product back on sale.
func (p *Product) Enable() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsActive returns true if the product can be sold or received.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Margin returns the profit margin percentage, or zero when the cost
// price is zero.
func (p *Product) Margin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.SellPrice.Sub(p.CostPrice).Div(p.CostPrice).Mul(decimal.NewFromInt(100))
}

// validateSKU validates the stock keeping unit code.
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
