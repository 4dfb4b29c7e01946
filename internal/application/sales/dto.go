package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/sales"
)

// CheckoutLineRequest is one product line scanned at the till. The
// unit price is resolved from the catalog; an explicit override is
// accepted for negotiated prices.
type CheckoutLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CheckoutRequest creates a completed sale and decrements branch stock
type CheckoutRequest struct {
	BranchID       uuid.UUID             `json:"branch_id" binding:"required"`
	PaymentMethod  string                `json:"payment_method" binding:"required,oneof=CASH CARD QR"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	Lines          []CheckoutLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// VoidSaleRequest cancels a completed sale
type VoidSaleRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListSalesFilter narrows sale listings
type ListSalesFilter struct {
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	BranchID  *uuid.UUID
	CashierID *uuid.UUID
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// SaleLineResponse represents a receipt line in API responses
type SaleLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	TenantID       uuid.UUID          `json:"tenant_id"`
	ReceiptNumber  string             `json:"receipt_number"`
	BranchID       uuid.UUID          `json:"branch_id"`
	CashierID      uuid.UUID          `json:"cashier_id"`
	CashierName    string             `json:"cashier_name"`
	Lines          []SaleLineResponse `json:"lines"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	Status         string             `json:"status"`
	SoldAt         time.Time          `json:"sold_at"`
	VoidedAt       *time.Time         `json:"voided_at,omitempty"`
	VoidReason     string             `json:"void_reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	Version        int                `json:"version"`
}

// ToSaleResponse converts a domain sale to a response
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		lines = append(lines, SaleLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductSKU:  line.ProductSKU,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}

	return SaleResponse{
		ID:             sale.ID,
		TenantID:       sale.TenantID,
		ReceiptNumber:  sale.ReceiptNumber,
		BranchID:       sale.BranchID,
		CashierID:      sale.CashierID,
		CashierName:    sale.CashierName,
		Lines:          lines,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		TotalAmount:    sale.TotalAmount,
		PaymentMethod:  sale.PaymentMethod.String(),
		Status:         string(sale.Status),
		SoldAt:         sale.SoldAt,
		VoidedAt:       sale.VoidedAt,
		VoidReason:     sale.VoidReason,
		CreatedAt:      sale.CreatedAt,
		Version:        sale.Version,
	}
}

// ToSaleResponses converts a slice of domain sales to responses
func ToSaleResponses(items []*sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, 0, len(items))
	for _, sale := range items {
		responses = append(responses, ToSaleResponse(sale))
	}
	return responses
}
