package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// InventoryItemRepository defines persistence operations for branch
// stock levels.
type InventoryItemRepository interface {
	// FindByIDForTenant finds an inventory item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByBranchAndProduct finds the stock record for a branch-product pair
	FindByBranchAndProduct(ctx context.Context, tenantID, branchID, productID uuid.UUID) (*InventoryItem, error)

	// FindByBranchAndSKU finds the stock record for a branch by product SKU
	FindByBranchAndSKU(ctx context.Context, tenantID, branchID uuid.UUID, sku string) (*InventoryItem, error)

	// FindByBranch lists all stock records at a branch
	FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, filter shared.Filter) ([]*InventoryItem, int64, error)

	// SnapshotBranch returns every stock record at a branch without
	// pagination. Callers use it to capture stock levels at a point in
	// time before applying a batch of movements.
	SnapshotBranch(ctx context.Context, tenantID, branchID uuid.UUID) ([]*InventoryItem, error)

	// FindAllForTenant lists stock records across all branches
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*InventoryItem, int64, error)

	// Save creates or updates an inventory item
	Save(ctx context.Context, item *InventoryItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *InventoryItem) error

	// CountForTenant counts stock records for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// AuditRecordFilter narrows audit trail queries.
type AuditRecordFilter struct {
	shared.Filter
	BranchID  *uuid.UUID
	ProductID *uuid.UUID
	Action    *StockAction
	Source    *StockSource
	StartDate *time.Time
	EndDate   *time.Time
}

// InventoryAuditRecordRepository persists the append-only audit trail.
// There are intentionally no update or delete operations.
type InventoryAuditRecordRepository interface {
	// Create appends a single audit record
	Create(ctx context.Context, record *InventoryAuditRecord) error

	// CreateBatch appends multiple audit records
	CreateBatch(ctx context.Context, records []*InventoryAuditRecord) error

	// FindByIDForTenant finds a single record
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryAuditRecord, error)

	// FindForTenant lists records matching the filter, newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter AuditRecordFilter) ([]*InventoryAuditRecord, int64, error)

	// FindBySourceReference lists records written for one source document
	FindBySourceReference(ctx context.Context, tenantID, referenceID uuid.UUID) ([]*InventoryAuditRecord, error)

	// CountForTenant counts records matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AuditRecordFilter) (int64, error)
}
