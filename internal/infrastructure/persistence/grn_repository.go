package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GormGRNRepository implements GRNRepository using GORM
type GormGRNRepository struct {
	db *gorm.DB
}

// NewGormGRNRepository creates a new GormGRNRepository
func NewGormGRNRepository(db *gorm.DB) *GormGRNRepository {
	return &GormGRNRepository{db: db}
}

// FindByIDForTenant finds a GRN by ID within a tenant (items preloaded)
func (r *GormGRNRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.GoodsReceivedNote, error) {
	var grn procurement.GoodsReceivedNote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&grn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &grn, nil
}

// FindByGRNNumber finds a GRN by its number
func (r *GormGRNRepository) FindByGRNNumber(ctx context.Context, tenantID uuid.UUID, grnNumber string) (*procurement.GoodsReceivedNote, error) {
	var grn procurement.GoodsReceivedNote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND grn_number = ?", tenantID, grnNumber).
		First(&grn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &grn, nil
}

// FindAllForTenant lists GRNs (items preloaded)
func (r *GormGRNRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ?", tenantID)
}

// FindByBranch lists GRNs for one branch
func (r *GormGRNRepository) FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, filter shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ? AND branch_id = ?", tenantID, branchID)
}

// FindByStatus lists GRNs in a given status
func (r *GormGRNRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.GRNStatus, filter shared.Filter) ([]*procurement.GoodsReceivedNote, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ? AND status = ?", tenantID, status)
}

// Save creates or updates a GRN with its items
func (r *GormGRNRepository) Save(ctx context.Context, grn *procurement.GoodsReceivedNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(grn).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(grn.Items))
		for i, item := range grn.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("grn_id = ? AND id NOT IN ?", grn.ID, currentItemIDs).
				Delete(&procurement.GRNItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("grn_id = ?", grn.ID).
				Delete(&procurement.GRNItem{}).Error; err != nil {
				return err
			}
		}

		for i := range grn.Items {
			grn.Items[i].GRNID = grn.ID
			if err := tx.Save(&grn.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version). Only the
// header row is written: the confirmation workflow never touches item
// rows, it flips the status and stamps the confirmation fields.
func (r *GormGRNRepository) SaveWithLock(ctx context.Context, grn *procurement.GoodsReceivedNote) error {
	result := r.db.WithContext(ctx).
		Model(grn).
		Where("id = ? AND version = ?", grn.ID, grn.Version-1).
		Updates(map[string]interface{}{
			"purchase_order_number": grn.PurchaseOrderNumber,
			"supplier_name":         grn.SupplierName,
			"status":                grn.Status,
			"received_date":         grn.ReceivedDate,
			"notes":                 grn.Notes,
			"confirmed_at":          grn.ConfirmedAt,
			"confirmed_by":          grn.ConfirmedBy,
			"version":               grn.Version,
			"updated_at":            grn.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant removes a draft GRN
func (r *GormGRNRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grn_id = ?", id).
			Delete(&procurement.GRNItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.GoodsReceivedNote{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts GRNs for a tenant
func (r *GormGRNRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.GoodsReceivedNote{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextGRNNumber allocates the next sequential GRN- number.
// Format: GRN-YYYYMMDD-XXXX, sequence resets daily per tenant.
func (r *GormGRNRepository) NextGRNNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("GRN-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(ctx, r.db, &procurement.GoodsReceivedNote{}, "grn_number", tenantID, prefix)
}

func (r *GormGRNRepository) findPaginated(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]*procurement.GoodsReceivedNote, int64, error) {
	var total int64
	countQuery := r.applySearch(
		r.db.WithContext(ctx).Model(&procurement.GoodsReceivedNote{}).Where(cond, args...), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.applySearch(
		r.db.WithContext(ctx).Model(&procurement.GoodsReceivedNote{}).Where(cond, args...), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, GRNSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var grns []*procurement.GoodsReceivedNote
	if err := listQuery.Preload("Items").Order(orderBy + " " + orderDir).Find(&grns).Error; err != nil {
		return nil, 0, err
	}
	return grns, total, nil
}

func (r *GormGRNRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("grn_number ILIKE ? OR purchase_order_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "purchase_order_number":
			query = query.Where("purchase_order_number = ?", value)
		}
	}

	return query
}

// Ensure GormGRNRepository implements GRNRepository
var _ procurement.GRNRepository = (*GormGRNRepository)(nil)
