package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/shared"
)

// ExpenseFilter narrows expense queries.
type ExpenseFilter struct {
	shared.Filter
	BranchID  *uuid.UUID
	Category  *ExpenseCategory
	Status    *ExpenseStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// ExpenseRecordRepository defines persistence operations for expenses
type ExpenseRecordRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ExpenseRecord, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]*ExpenseRecord, int64, error)
	FindPendingApproval(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ExpenseRecord, int64, error)
	Save(ctx context.Context, expense *ExpenseRecord) error
	SaveWithLock(ctx context.Context, expense *ExpenseRecord) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	NextExpenseNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
