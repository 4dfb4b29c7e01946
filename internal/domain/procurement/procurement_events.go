package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeGRN           = "GoodsReceivedNote"

	EventTypePurchaseOrderCreated = "purchase_order.created"
	EventTypePurchaseOrderIssued  = "purchase_order.issued"
	EventTypeGRNCreated           = "grn.created"
	EventTypeGRNConfirmed         = "grn.confirmed"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is drafted.
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	BranchID     uuid.UUID `json:"branch_id"`
}

func NewPurchaseOrderCreatedEvent(o *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		SupplierID:      o.SupplierID,
		SupplierName:    o.SupplierName,
		BranchID:        o.BranchID,
	}
}

// PurchaseOrderIssuedEvent is raised when an order is sent to the supplier.
type PurchaseOrderIssuedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

func NewPurchaseOrderIssuedEvent(o *PurchaseOrder) *PurchaseOrderIssuedEvent {
	return &PurchaseOrderIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderIssued, AggregateTypePurchaseOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		TotalAmount:     o.TotalAmount,
		ItemCount:       len(o.Items),
	}
}

// GRNCreatedEvent is raised when a goods received note is drafted.
type GRNCreatedEvent struct {
	shared.BaseDomainEvent
	GRNNumber           string    `json:"grn_number"`
	PurchaseOrderNumber string    `json:"purchase_order_number"`
	BranchID            uuid.UUID `json:"branch_id"`
}

func NewGRNCreatedEvent(g *GoodsReceivedNote) *GRNCreatedEvent {
	return &GRNCreatedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeGRNCreated, AggregateTypeGRN, g.ID, g.TenantID),
		GRNNumber:           g.GRNNumber,
		PurchaseOrderNumber: g.PurchaseOrderNumber,
		BranchID:            g.BranchID,
	}
}

// GRNConfirmedEvent is raised when a GRN transitions from Draft to
// Confirmed and its received quantities have been applied to stock.
type GRNConfirmedEvent struct {
	shared.BaseDomainEvent
	GRNNumber           string          `json:"grn_number"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
	BranchID            uuid.UUID       `json:"branch_id"`
	ConfirmedBy         uuid.UUID       `json:"confirmed_by"`
	ConfirmedAt         time.Time       `json:"confirmed_at"`
	ReceivedItemCount   int             `json:"received_item_count"`
	TotalReceived       decimal.Decimal `json:"total_received"`
}

func NewGRNConfirmedEvent(g *GoodsReceivedNote, byStaffID uuid.UUID) *GRNConfirmedEvent {
	confirmedAt := time.Now()
	if g.ConfirmedAt != nil {
		confirmedAt = *g.ConfirmedAt
	}
	return &GRNConfirmedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeGRNConfirmed, AggregateTypeGRN, g.ID, g.TenantID),
		GRNNumber:           g.GRNNumber,
		PurchaseOrderNumber: g.PurchaseOrderNumber,
		BranchID:            g.BranchID,
		ConfirmedBy:         byStaffID,
		ConfirmedAt:         confirmedAt,
		ReceivedItemCount:   len(g.ReceivedItems()),
		TotalReceived:       g.TotalReceivedQuantity(),
	}
}
