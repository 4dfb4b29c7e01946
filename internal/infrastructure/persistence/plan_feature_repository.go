package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

var _ identity.PlanFeatureRepository = (*GormPlanFeatureRepository)(nil)

// GormPlanFeatureRepository stores the per-plan feature matrix that
// the subscription limit checks read. Plan features are platform
// data, not tenant data, so nothing here is tenant-scoped.
type GormPlanFeatureRepository struct {
	db *gorm.DB
}

func NewGormPlanFeatureRepository(db *gorm.DB) *GormPlanFeatureRepository {
	return &GormPlanFeatureRepository{db: db}
}

// FindByPlan returns every feature of a plan ordered by key.
func (r *GormPlanFeatureRepository) FindByPlan(ctx context.Context, planID identity.TenantPlan) ([]identity.PlanFeature, error) {
	var features []identity.PlanFeature
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("feature_key ASC").
		Find(&features).Error
	if err != nil {
		return nil, err
	}
	return features, nil
}

// FindByPlanAndFeature returns one feature row, shared.ErrNotFound
// when the plan does not include it.
func (r *GormPlanFeatureRepository) FindByPlanAndFeature(ctx context.Context, planID identity.TenantPlan, featureKey identity.FeatureKey) (*identity.PlanFeature, error) {
	var feature identity.PlanFeature
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND feature_key = ?", planID, featureKey).
		First(&feature).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feature, nil
}

// SaveAll replaces the feature set for a plan. The delete and
// re-insert run in one transaction so a plan never has a partial
// feature set.
func (r *GormPlanFeatureRepository) SaveAll(ctx context.Context, features []identity.PlanFeature) error {
	if len(features) == 0 {
		return nil
	}
	planID := features[0].PlanID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&identity.PlanFeature{}).Error; err != nil {
			return err
		}
		return tx.Create(&features).Error
	})
}
