package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// PaymentMethod is how the customer paid at the till
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodQR   PaymentMethod = "QR"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQR:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// SaleStatus represents the status of a completed sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoided    SaleStatus = "VOIDED"
)

// SaleLine is one product line on a receipt.
type SaleLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductSKU  string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// SaleLineInput carries the resolved product data for one checkout line.
type SaleLineInput struct {
	ProductID   uuid.UUID
	ProductSKU  string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Sale is a completed point-of-sale transaction at a branch. A sale is
// born Completed; the only state change afterwards is voiding it.
// Stock decrements and their audit records are handled by the checkout
// workflow in the application layer.
type Sale struct {
	shared.TenantAggregateRoot
	ReceiptNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_tenant_receipt,priority:2"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashierID      uuid.UUID       `gorm:"type:uuid;not null"`
	CashierName    string          `gorm:"type:varchar(100);not null"`
	Lines          []SaleLine      `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status         SaleStatus      `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	SoldAt         time.Time       `gorm:"type:timestamptz;not null;index"`
	VoidedAt       *time.Time
	VoidedBy       *uuid.UUID `gorm:"type:uuid"`
	VoidReason     string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a completed sale from resolved checkout lines.
func NewSale(
	tenantID uuid.UUID,
	receiptNumber string,
	branchID, cashierID uuid.UUID,
	cashierName string,
	method PaymentMethod,
	lines []SaleLineInput,
	discount decimal.Decimal,
) (*Sale, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Sale must contain at least one line")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	sale := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceiptNumber:       receiptNumber,
		BranchID:            branchID,
		CashierID:           cashierID,
		CashierName:         cashierName,
		Lines:               make([]SaleLine, 0, len(lines)),
		DiscountAmount:      discount,
		PaymentMethod:       method,
		Status:              SaleStatusCompleted,
		SoldAt:              time.Now(),
	}

	subtotal := decimal.Zero
	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity for %s must be positive", in.ProductSKU))
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Unit price for %s cannot be negative", in.ProductSKU))
		}

		lineTotal := in.Quantity.Mul(in.UnitPrice)
		sale.Lines = append(sale.Lines, SaleLine{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			ProductID:   in.ProductID,
			ProductSKU:  in.ProductSKU,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   lineTotal,
			CreatedAt:   time.Now(),
		})
		subtotal = subtotal.Add(lineTotal)
	}

	if discount.GreaterThan(subtotal) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	sale.Subtotal = subtotal
	sale.TotalAmount = subtotal.Sub(discount)

	sale.AddDomainEvent(NewSaleCompletedEvent(sale))

	return sale, nil
}

// Void cancels a completed sale. Voiding does not restock; any stock
// correction is a separate manual adjustment with its own audit entry.
func (s *Sale) Void(byStaffID uuid.UUID, reason string) error {
	if s.Status != SaleStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void sale in %s status", s.Status))
	}
	if byStaffID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Voiding staff identity is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	s.Status = SaleStatusVoided
	s.VoidedAt = &now
	s.VoidedBy = &byStaffID
	s.VoidReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleVoidedEvent(s, byStaffID))

	return nil
}

// IsVoided returns true if the sale was cancelled after completion
func (s *Sale) IsVoided() bool {
	return s.Status == SaleStatusVoided
}

// LineCount returns the number of product lines on the receipt
func (s *Sale) LineCount() int {
	return len(s.Lines)
}

// TotalQuantity returns the total units sold across all lines
func (s *Sale) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}
