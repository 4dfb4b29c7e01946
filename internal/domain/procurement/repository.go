package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	// FindByIDForTenant finds an order by ID within a tenant (items preloaded)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds an order by its number
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindAllForTenant lists orders (items preloaded)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*PurchaseOrder, int64, error)

	// FindByStatus lists orders in a given status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]*PurchaseOrder, int64, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// DeleteForTenant removes a draft order
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// NextOrderNumber allocates the next sequential PO- number
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// GRNRepository defines persistence operations for goods received notes
type GRNRepository interface {
	// FindByIDForTenant finds a GRN by ID within a tenant (items preloaded)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceivedNote, error)

	// FindByGRNNumber finds a GRN by its number
	FindByGRNNumber(ctx context.Context, tenantID uuid.UUID, grnNumber string) (*GoodsReceivedNote, error)

	// FindAllForTenant lists GRNs (items preloaded)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*GoodsReceivedNote, int64, error)

	// FindByBranch lists GRNs for one branch
	FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, filter shared.Filter) ([]*GoodsReceivedNote, int64, error)

	// FindByStatus lists GRNs in a given status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status GRNStatus, filter shared.Filter) ([]*GoodsReceivedNote, int64, error)

	// Save creates or updates a GRN with its items
	Save(ctx context.Context, grn *GoodsReceivedNote) error

	// SaveWithLock saves with optimistic locking (checks version). The
	// confirmation workflow relies on this to make the Draft to
	// Confirmed flip race-safe.
	SaveWithLock(ctx context.Context, grn *GoodsReceivedNote) error

	// DeleteForTenant removes a draft GRN
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts GRNs for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// NextGRNNumber allocates the next sequential GRN- number
	NextGRNNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
