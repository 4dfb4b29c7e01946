package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByIDForTenant finds an inventory item by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranchAndProduct finds the stock record for a branch-product pair
func (r *GormInventoryItemRepository) FindByBranchAndProduct(ctx context.Context, tenantID, branchID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND product_id = ?", tenantID, branchID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranchAndSKU finds the stock record for a branch by product SKU
func (r *GormInventoryItemRepository) FindByBranchAndSKU(ctx context.Context, tenantID, branchID uuid.UUID, sku string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND sku = ?", tenantID, branchID, strings.ToUpper(sku)).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBranch lists all stock records at a branch
func (r *GormInventoryItemRepository) FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, filter shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ? AND branch_id = ?", tenantID, branchID)
}

// SnapshotBranch returns every stock record at a branch without pagination
func (r *GormInventoryItemRepository) SnapshotBranch(ctx context.Context, tenantID, branchID uuid.UUID) ([]*inventory.InventoryItem, error) {
	var items []*inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ?", tenantID, branchID).
		Order("sku ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAllForTenant lists stock records across all branches
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	return r.findPaginated(ctx, filter, "tenant_id = ?", tenantID)
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"sku":        item.SKU,
			"name":       item.Name,
			"stock":      item.Stock,
			"cost_price": item.CostPrice,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForTenant counts stock records for a tenant
func (r *GormInventoryItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInventoryItemRepository) findPaginated(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]*inventory.InventoryItem, int64, error) {
	var total int64
	countQuery := r.applySearch(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Where(cond, args...), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.applySearch(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Where(cond, args...), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventorySortFields, "sku")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var items []*inventory.InventoryItem
	if err := listQuery.Order(orderBy + " " + orderDir).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormInventoryItemRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("stock > 0")
			} else {
				query = query.Where("stock <= 0")
			}
		}
	}

	return query
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
