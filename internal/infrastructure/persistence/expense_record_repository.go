package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/finance"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GormExpenseRecordRepository implements ExpenseRecordRepository using GORM
type GormExpenseRecordRepository struct {
	db *gorm.DB
}

// NewGormExpenseRecordRepository creates a new GormExpenseRecordRepository
func NewGormExpenseRecordRepository(db *gorm.DB) *GormExpenseRecordRepository {
	return &GormExpenseRecordRepository{db: db}
}

// FindByIDForTenant finds an expense record by ID within a tenant
func (r *GormExpenseRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.ExpenseRecord, error) {
	var expense finance.ExpenseRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// FindAllForTenant lists expense records matching the filter
func (r *GormExpenseRecordRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]*finance.ExpenseRecord, int64, error) {
	var total int64
	countQuery := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.ExpenseRecord{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.ExpenseRecord{}).Where("tenant_id = ?", tenantID), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ExpenseRecordSortFields, "incurred_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var expenses []*finance.ExpenseRecord
	if err := listQuery.Order(orderBy + " " + orderDir).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// FindPendingApproval lists submitted expenses awaiting a decision,
// oldest submission first.
func (r *GormExpenseRecordRepository) FindPendingApproval(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*finance.ExpenseRecord, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&finance.ExpenseRecord{}).
			Where("tenant_id = ? AND status = ?", tenantID, finance.ExpenseStatusPending)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var expenses []*finance.ExpenseRecord
	if err := query.Order("submitted_at ASC").Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// Save creates or updates an expense record
func (r *GormExpenseRecordRepository) Save(ctx context.Context, expense *finance.ExpenseRecord) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormExpenseRecordRepository) SaveWithLock(ctx context.Context, expense *finance.ExpenseRecord) error {
	result := r.db.WithContext(ctx).
		Model(expense).
		Where("id = ? AND version = ?", expense.ID, expense.Version-1).
		Updates(map[string]interface{}{
			"category":       expense.Category,
			"amount":         expense.Amount,
			"description":    expense.Description,
			"incurred_at":    expense.IncurredAt,
			"status":         expense.Status,
			"payment_status": expense.PaymentStatus,
			"payment_method": expense.PaymentMethod,
			"paid_at":        expense.PaidAt,
			"receipt_key":    expense.ReceiptKey,
			"submitted_at":   expense.SubmittedAt,
			"submitted_by":   expense.SubmittedBy,
			"decided_at":     expense.DecidedAt,
			"decided_by":     expense.DecidedBy,
			"decision_note":  expense.DecisionNote,
			"cancelled_at":   expense.CancelledAt,
			"cancelled_by":   expense.CancelledBy,
			"version":        expense.Version,
			"updated_at":     expense.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes an expense record within a tenant
func (r *GormExpenseRecordRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.ExpenseRecord{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts expense records for a tenant
func (r *GormExpenseRecordRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.ExpenseRecord{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextExpenseNumber allocates the next sequential EXP- number.
// Format: EXP-YYYYMMDD-XXXX, sequence resets daily per tenant.
func (r *GormExpenseRecordRepository) NextExpenseNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("EXP-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(ctx, r.db, &finance.ExpenseRecord{}, "expense_number", tenantID, prefix)
}

func (r *GormExpenseRecordRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("incurred_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("incurred_at <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("expense_number ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormExpenseRecordRepository implements ExpenseRecordRepository
var _ finance.ExpenseRecordRepository = (*GormExpenseRecordRepository)(nil)
