package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GormAuditRecordRepository implements InventoryAuditRecordRepository
// using GORM. The audit trail is append-only so the repository exposes
// no update or delete operations.
type GormAuditRecordRepository struct {
	db *gorm.DB
}

// NewGormAuditRecordRepository creates a new GormAuditRecordRepository
func NewGormAuditRecordRepository(db *gorm.DB) *GormAuditRecordRepository {
	return &GormAuditRecordRepository{db: db}
}

// Create appends a single audit record
func (r *GormAuditRecordRepository) Create(ctx context.Context, record *inventory.InventoryAuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// CreateBatch appends multiple audit records
func (r *GormAuditRecordRepository) CreateBatch(ctx context.Context, records []*inventory.InventoryAuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

// FindByIDForTenant finds a single record
func (r *GormAuditRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryAuditRecord, error) {
	var record inventory.InventoryAuditRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindForTenant lists records matching the filter, newest first
func (r *GormAuditRecordRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.AuditRecordFilter) ([]*inventory.InventoryAuditRecord, int64, error) {
	var total int64
	countQuery := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryAuditRecord{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryAuditRecord{}).Where("tenant_id = ?", tenantID), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditRecordSortFields, "recorded_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var records []*inventory.InventoryAuditRecord
	if err := listQuery.Order(orderBy + " " + orderDir).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindBySourceReference lists records written for one source document
func (r *GormAuditRecordRepository) FindBySourceReference(ctx context.Context, tenantID, referenceID uuid.UUID) ([]*inventory.InventoryAuditRecord, error) {
	var records []*inventory.InventoryAuditRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_reference_id = ?", tenantID, referenceID).
		Order("recorded_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountForTenant counts records matching the filter
func (r *GormAuditRecordRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.AuditRecordFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryAuditRecord{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRecordRepository) applyFilter(query *gorm.DB, filter inventory.AuditRecordFilter) *gorm.DB {
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.StartDate != nil {
		query = query.Where("recorded_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("recorded_at <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("product_name ILIKE ? OR product_sku ILIKE ? OR source_reference_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	return query
}

// Ensure GormAuditRecordRepository implements InventoryAuditRecordRepository
var _ inventory.InventoryAuditRecordRepository = (*GormAuditRecordRepository)(nil)
