package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backend/internal/domain/shared"
)

// StockAction is the direction of a stock mutation.
type StockAction string

const (
	StockActionIncrease StockAction = "INCREASE"
	StockActionDecrease StockAction = "DECREASE"
)

// String returns the string representation of StockAction
func (a StockAction) String() string {
	return string(a)
}

// IsValid returns true if the action is a known value
func (a StockAction) IsValid() bool {
	return a == StockActionIncrease || a == StockActionDecrease
}

// StockSource tags which workflow caused a stock mutation.
type StockSource string

const (
	StockSourceGRNConfirmation  StockSource = "GRN_CONFIRMATION"
	StockSourceSale             StockSource = "SALE"
	StockSourceManualAdjustment StockSource = "MANUAL_ADJUSTMENT"
)

// String returns the string representation of StockSource
func (s StockSource) String() string {
	return string(s)
}

// IsValid returns true if the source is a known value
func (s StockSource) IsValid() bool {
	switch s {
	case StockSourceGRNConfirmation, StockSourceSale, StockSourceManualAdjustment:
		return true
	}
	return false
}

// InventoryAuditRecord is an immutable log entry for a single stock
// mutation. It is the system of record for why stock changed. Records
// are append-only: no update or delete operation exists anywhere in
// the codebase.
type InventoryAuditRecord struct {
	shared.BaseEntity
	TenantID              uuid.UUID       `gorm:"type:uuid;not null;index:idx_audit_tenant_time,priority:1"`
	BranchID              uuid.UUID       `gorm:"type:uuid;not null;index:idx_audit_branch"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_audit_product"`
	ProductSKU            string          `gorm:"type:varchar(50);not null"`
	ProductName           string          `gorm:"type:varchar(200);not null"`
	Action                StockAction     `gorm:"type:varchar(20);not null"`
	Quantity              decimal.Decimal `gorm:"type:decimal(18,4);not null"` // always positive, direction in Action
	PreviousStock         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewStock              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Source                StockSource     `gorm:"type:varchar(30);not null;index:idx_audit_source"`
	SourceReferenceID     *uuid.UUID      `gorm:"type:uuid;index:idx_audit_source_ref"`
	SourceReferenceNumber string          `gorm:"type:varchar(50)"`
	PerformedByStaffID    *uuid.UUID      `gorm:"type:uuid"`
	PerformedByStaffName  string          `gorm:"type:varchar(100)"`
	PerformedByStaffRole  string          `gorm:"type:varchar(30)"`
	Notes                 string          `gorm:"type:varchar(500)"`
	RecordedAt            time.Time       `gorm:"type:timestamptz;not null;index:idx_audit_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryAuditRecord) TableName() string {
	return "inventory_audit_records"
}

// NewInventoryAuditRecord creates an audit record. NewStock is derived
// from PreviousStock, Quantity, and Action so the arithmetic invariant
// cannot be violated by construction.
func NewInventoryAuditRecord(
	tenantID, branchID, productID uuid.UUID,
	productSKU, productName string,
	action StockAction,
	quantity, previousStock decimal.Decimal,
	source StockSource,
) (*InventoryAuditRecord, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid stock action")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if previousStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK", "Previous stock cannot be negative")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid stock source")
	}

	newStock := previousStock.Add(quantity)
	if action == StockActionDecrease {
		newStock = previousStock.Sub(quantity)
		if newStock.IsNegative() {
			return nil, shared.NewDomainError("INVALID_STOCK", "Decrease would make stock negative")
		}
	}

	return &InventoryAuditRecord{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		BranchID:      branchID,
		ProductID:     productID,
		ProductSKU:    productSKU,
		ProductName:   productName,
		Action:        action,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Source:        source,
		RecordedAt:    time.Now(),
	}, nil
}

// WithSourceReference links the record back to the originating
// document, e.g. a GRN or sale.
func (r *InventoryAuditRecord) WithSourceReference(referenceID uuid.UUID, referenceNumber string) *InventoryAuditRecord {
	r.SourceReferenceID = &referenceID
	r.SourceReferenceNumber = referenceNumber
	return r
}

// WithPerformedBy records who performed the mutation.
func (r *InventoryAuditRecord) WithPerformedBy(staffID uuid.UUID, name, role string) *InventoryAuditRecord {
	r.PerformedByStaffID = &staffID
	r.PerformedByStaffName = name
	r.PerformedByStaffRole = role
	return r
}

// WithNotes attaches a free-text note.
func (r *InventoryAuditRecord) WithNotes(notes string) *InventoryAuditRecord {
	r.Notes = notes
	return r
}

// SignedQuantity returns the quantity with sign based on the action.
func (r *InventoryAuditRecord) SignedQuantity() decimal.Decimal {
	if r.Action == StockActionDecrease {
		return r.Quantity.Neg()
	}
	return r.Quantity
}

// StockChange returns the net stock change captured by the record.
func (r *InventoryAuditRecord) StockChange() decimal.Decimal {
	return r.NewStock.Sub(r.PreviousStock)
}
