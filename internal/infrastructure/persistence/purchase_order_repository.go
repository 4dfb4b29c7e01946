package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within a tenant (items preloaded)
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant lists orders (items preloaded)
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*procurement.PurchaseOrder, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ?", tenantID)
}

// FindByStatus lists orders in a given status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]*procurement.PurchaseOrder, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ? AND status = ?", tenantID, status)
}

// Save creates or updates an order with its items. Removed items are
// deleted so the stored item set always mirrors the aggregate.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"supplier_id":   order.SupplierID,
			"supplier_name": order.SupplierName,
			"branch_id":     order.BranchID,
			"total_amount":  order.TotalAmount,
			"status":        order.Status,
			"expected_date": order.ExpectedDate,
			"notes":         order.Notes,
			"issued_at":     order.IssuedAt,
			"closed_at":     order.ClosedAt,
			"cancelled_at":  order.CancelledAt,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant removes a draft order
func (r *GormPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.PurchaseOrder{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts orders for a tenant
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextOrderNumber allocates the next sequential PO- number.
// Format: PO-YYYYMMDD-XXXX, sequence resets daily per tenant.
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("PO-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(ctx, r.db, &procurement.PurchaseOrder{}, "order_number", tenantID, prefix)
}

func (r *GormPurchaseOrderRepository) findPaginated(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]*procurement.PurchaseOrder, int64, error) {
	var total int64
	countQuery := r.applySearch(
		r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Where(cond, args...), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.applySearch(
		r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Where(cond, args...), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []*procurement.PurchaseOrder
	if err := listQuery.Preload("Items").Order(orderBy + " " + orderDir).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormPurchaseOrderRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		}
	}

	return query
}

// nextDocumentNumber allocates the next sequence number for a prefixed
// document number such as PO-20060102-0007. The sequence restarts for
// each prefix (one per day per tenant).
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, column string, tenantID uuid.UUID, prefix string) (string, error) {
	var maxNumber string
	err := db.WithContext(ctx).Model(model).
		Select(column).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &maxNumber).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if _, err := fmt.Sscanf(parts[len(parts)-1], "%04d", &seq); err != nil {
			seq = 0
		}
	}
	seq++

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
