package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

const (
	AggregateTypeSale = "Sale"

	EventTypeSaleCompleted = "sale.completed"
	EventTypeSaleVoided    = "sale.voided"
)

// SaleCompletedEvent is raised when a checkout finishes.
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string          `json:"receipt_number"`
	BranchID      uuid.UUID       `json:"branch_id"`
	CashierID     uuid.UUID       `json:"cashier_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	LineCount     int             `json:"line_count"`
}

func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, s.ID, s.TenantID),
		ReceiptNumber:   s.ReceiptNumber,
		BranchID:        s.BranchID,
		CashierID:       s.CashierID,
		TotalAmount:     s.TotalAmount,
		PaymentMethod:   s.PaymentMethod,
		LineCount:       len(s.Lines),
	}
}

// SaleVoidedEvent is raised when a completed sale is cancelled.
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string    `json:"receipt_number"`
	BranchID      uuid.UUID `json:"branch_id"`
	VoidedBy      uuid.UUID `json:"voided_by"`
	Reason        string    `json:"reason"`
}

func NewSaleVoidedEvent(s *Sale, byStaffID uuid.UUID) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSale, s.ID, s.TenantID),
		ReceiptNumber:   s.ReceiptNumber,
		BranchID:        s.BranchID,
		VoidedBy:        byStaffID,
		Reason:          s.VoidReason,
	}
}
