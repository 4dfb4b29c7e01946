package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// SaleFilter narrows sale queries.
type SaleFilter struct {
	shared.Filter
	BranchID  *uuid.UUID
	CashierID *uuid.UUID
	Status    *SaleStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleFilter) ([]*Sale, int64, error)
	Save(ctx context.Context, sale *Sale) error
	SaveWithLock(ctx context.Context, sale *Sale) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	NextReceiptNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
