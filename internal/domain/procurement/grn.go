package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// GRNStatus represents the status of a goods received note. There are
// exactly two: a GRN starts as Draft and becomes Confirmed at most
// once. Confirmed is terminal; there is no unconfirm.
type GRNStatus string

const (
	GRNStatusDraft     GRNStatus = "DRAFT"
	GRNStatusConfirmed GRNStatus = "CONFIRMED"
)

// IsValid checks if the status is a known GRNStatus
func (s GRNStatus) IsValid() bool {
	return s == GRNStatusDraft || s == GRNStatusConfirmed
}

// String returns the string representation of GRNStatus
func (s GRNStatus) String() string {
	return string(s)
}

// GRNItem is a line item on a goods received note. OrderedQuantity is
// copied from the purchase order for comparison; ReceivedQuantity is
// what actually arrived and may be less for a partial delivery.
type GRNItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	GRNID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductSKU       string          `gorm:"type:varchar(50);not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GRNItem) TableName() string {
	return "grn_items"
}

// NewGRNItem creates a GRN line item
func NewGRNItem(grnID, productID uuid.UUID, sku, name string, ordered, received decimal.Decimal) (*GRNItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if ordered.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be negative")
	}
	if received.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}

	now := time.Now()
	return &GRNItem{
		ID:               uuid.New(),
		GRNID:            grnID,
		ProductID:        productID,
		ProductSKU:       sku,
		ProductName:      name,
		OrderedQuantity:  ordered,
		ReceivedQuantity: received,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// WasReceived returns true if any quantity of this line actually arrived
func (i *GRNItem) WasReceived() bool {
	return i.ReceivedQuantity.GreaterThan(decimal.Zero)
}

// GoodsReceivedNote records a delivery arriving at a branch against a
// purchase order. The order is referenced by number, not by foreign
// key, so the GRN stays readable even if the order is archived.
//
// Confirming a GRN is the only way branch stock increases through
// procurement, and it is handled by the confirmation workflow in the
// application layer. The aggregate enforces the state machine: mutable
// while Draft, immutable and terminal once Confirmed.
type GoodsReceivedNote struct {
	shared.TenantAggregateRoot
	GRNNumber           string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_grn_tenant_number,priority:2"`
	PurchaseOrderNumber string     `gorm:"type:varchar(50);not null;index"`
	SupplierName        string     `gorm:"type:varchar(200)"`
	BranchID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status              GRNStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Items               []GRNItem  `gorm:"foreignKey:GRNID;references:ID"`
	ReceivedDate        time.Time  `gorm:"type:timestamptz;not null"`
	Notes               string     `gorm:"type:varchar(500)"`
	ConfirmedAt         *time.Time `gorm:"index"`
	ConfirmedBy         *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (GoodsReceivedNote) TableName() string {
	return "goods_received_notes"
}

// NewGoodsReceivedNote creates an empty draft GRN
func NewGoodsReceivedNote(tenantID uuid.UUID, grnNumber, purchaseOrderNumber string, branchID uuid.UUID) (*GoodsReceivedNote, error) {
	if grnNumber == "" {
		return nil, shared.NewDomainError("INVALID_GRN_NUMBER", "GRN number cannot be empty")
	}
	if purchaseOrderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Purchase order number cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}

	grn := &GoodsReceivedNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		GRNNumber:           grnNumber,
		PurchaseOrderNumber: purchaseOrderNumber,
		BranchID:            branchID,
		Status:              GRNStatusDraft,
		Items:               make([]GRNItem, 0),
		ReceivedDate:        time.Now(),
	}

	grn.AddDomainEvent(NewGRNCreatedEvent(grn))

	return grn, nil
}

// CreateFromPurchaseOrder drafts a GRN covering every line of an
// issued purchase order, with received quantities initialized to zero.
func CreateFromPurchaseOrder(grnNumber string, order *PurchaseOrder) (*GoodsReceivedNote, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Purchase order cannot be nil")
	}
	if !order.IsIssued() {
		return nil, shared.NewDomainError("INVALID_STATE", "Goods can only be received against an issued order")
	}

	grn, err := NewGoodsReceivedNote(order.TenantID, grnNumber, order.OrderNumber, order.BranchID)
	if err != nil {
		return nil, err
	}
	grn.SupplierName = order.SupplierName

	for _, line := range order.Items {
		item, err := NewGRNItem(grn.ID, line.ProductID, line.ProductSKU, line.ProductName, line.OrderedQuantity, decimal.Zero)
		if err != nil {
			return nil, err
		}
		grn.Items = append(grn.Items, *item)
	}

	return grn, nil
}

// AddItem adds a line to a draft GRN. Used for deliveries containing
// products the originating order did not list.
func (g *GoodsReceivedNote) AddItem(productID uuid.UUID, sku, name string, ordered, received decimal.Decimal) error {
	if g.Status != GRNStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a confirmed GRN")
	}
	for _, item := range g.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on this GRN")
		}
	}

	item, err := NewGRNItem(g.ID, productID, sku, name, ordered, received)
	if err != nil {
		return err
	}

	g.Items = append(g.Items, *item)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// GRNItemUpdate carries a received-quantity correction for UpdateDraft.
type GRNItemUpdate struct {
	ProductID        uuid.UUID
	ReceivedQuantity decimal.Decimal
}

// UpdateDraft replaces received quantities and notes while the GRN is
// still a draft. Products not present on the GRN are rejected.
func (g *GoodsReceivedNote) UpdateDraft(updates []GRNItemUpdate, receivedDate time.Time, notes string) error {
	if g.Status != GRNStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a confirmed GRN")
	}

	for _, u := range updates {
		if u.ReceivedQuantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
		}

		var found bool
		for idx := range g.Items {
			if g.Items[idx].ProductID == u.ProductID {
				g.Items[idx].ReceivedQuantity = u.ReceivedQuantity
				g.Items[idx].UpdatedAt = time.Now()
				found = true
				break
			}
		}
		if !found {
			return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found on this GRN", u.ProductID))
		}
	}

	if !receivedDate.IsZero() {
		g.ReceivedDate = receivedDate
	}
	g.Notes = notes
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// Confirm flips the GRN from Draft to Confirmed. It can succeed at
// most once per GRN; the transition is irreversible.
func (g *GoodsReceivedNote) Confirm(byStaffID uuid.UUID) error {
	if g.Status != GRNStatusDraft {
		return shared.NewDomainError("ALREADY_PROCESSED", fmt.Sprintf("GRN has already been processed (status: %s)", g.Status))
	}
	if byStaffID == uuid.Nil {
		return shared.NewDomainError("UNAUTHENTICATED", "Confirming staff identity is required")
	}

	now := time.Now()
	g.Status = GRNStatusConfirmed
	g.ConfirmedAt = &now
	g.ConfirmedBy = &byStaffID
	g.UpdatedAt = now
	g.IncrementVersion()

	g.AddDomainEvent(NewGRNConfirmedEvent(g, byStaffID))

	return nil
}

// ReceivedItems returns the lines with a received quantity above zero.
// These are the only lines that affect stock when the GRN is confirmed.
func (g *GoodsReceivedNote) ReceivedItems() []GRNItem {
	received := make([]GRNItem, 0, len(g.Items))
	for _, item := range g.Items {
		if item.WasReceived() {
			received = append(received, item)
		}
	}
	return received
}

// HasReceivedItems returns true if at least one line actually arrived
func (g *GoodsReceivedNote) HasReceivedItems() bool {
	for _, item := range g.Items {
		if item.WasReceived() {
			return true
		}
	}
	return false
}

// TotalReceivedQuantity sums the received quantities across all lines
func (g *GoodsReceivedNote) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range g.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

// IsDraft returns true while the GRN can still be edited and confirmed
func (g *GoodsReceivedNote) IsDraft() bool {
	return g.Status == GRNStatusDraft
}

// IsConfirmed returns true once the GRN has been applied to stock
func (g *GoodsReceivedNote) IsConfirmed() bool {
	return g.Status == GRNStatusConfirmed
}
