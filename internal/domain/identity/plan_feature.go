package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FeatureKey identifies a gated capability
type FeatureKey string

const (
	FeatureMultiBranch      FeatureKey = "multi_branch"
	FeaturePurchaseOrders   FeatureKey = "purchase_orders"
	FeatureGRNDocuments     FeatureKey = "grn_documents"      // printable GRN/receipt PDFs
	FeatureExpenseApprovals FeatureKey = "expense_approvals"  // submit/approve workflow
	FeatureDataExport       FeatureKey = "data_export"        // xlsx exports
	FeatureLiveStockFeed    FeatureKey = "live_stock_feed"    // websocket inventory stream
	FeatureAuditTrail       FeatureKey = "audit_trail"        // inventory audit record browsing
	FeatureAPIAccess        FeatureKey = "api_access"
)

// PlanFeature maps one capability to one subscription plan
type PlanFeature struct {
	ID          uuid.UUID
	PlanID      TenantPlan
	FeatureKey  FeatureKey
	Enabled     bool
	Limit       *int // nil = unlimited
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (PlanFeature) TableName() string {
	return "plan_features"
}

// NewPlanFeature creates a new PlanFeature
func NewPlanFeature(planID TenantPlan, featureKey FeatureKey, enabled bool, description string) *PlanFeature {
	now := time.Now()
	return &PlanFeature{
		ID:          uuid.New(),
		PlanID:      planID,
		FeatureKey:  featureKey,
		Enabled:     enabled,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPlanFeatureWithLimit creates a new PlanFeature carrying a numeric limit
func NewPlanFeatureWithLimit(planID TenantPlan, featureKey FeatureKey, enabled bool, limit int, description string) *PlanFeature {
	pf := NewPlanFeature(planID, featureKey, enabled, description)
	pf.Limit = &limit
	return pf
}

// IsUnlimited returns true if the feature has no limit
func (pf *PlanFeature) IsUnlimited() bool {
	return pf.Limit == nil
}

// GetLimit returns the limit value, or -1 if unlimited
func (pf *PlanFeature) GetLimit() int {
	if pf.Limit == nil {
		return -1
	}
	return *pf.Limit
}

// DefaultPlanFeatures returns the built-in feature matrix for a plan
func DefaultPlanFeatures(plan TenantPlan) []PlanFeature {
	switch plan {
	case TenantPlanBasic:
		return []PlanFeature{
			*NewPlanFeature(plan, FeatureMultiBranch, true, "Up to 3 branches"),
			*NewPlanFeature(plan, FeaturePurchaseOrders, true, "Purchase orders and goods receiving"),
			*NewPlanFeature(plan, FeatureGRNDocuments, false, "Printable documents"),
			*NewPlanFeature(plan, FeatureExpenseApprovals, true, "Expense approval workflow"),
			*NewPlanFeatureWithLimit(plan, FeatureDataExport, true, 10, "Monthly xlsx exports"),
			*NewPlanFeature(plan, FeatureLiveStockFeed, false, "Live stock updates"),
			*NewPlanFeature(plan, FeatureAuditTrail, true, "Inventory audit trail"),
			*NewPlanFeature(plan, FeatureAPIAccess, false, "API token access"),
		}
	case TenantPlanPro:
		return []PlanFeature{
			*NewPlanFeature(plan, FeatureMultiBranch, true, "Up to 10 branches"),
			*NewPlanFeature(plan, FeaturePurchaseOrders, true, "Purchase orders and goods receiving"),
			*NewPlanFeature(plan, FeatureGRNDocuments, true, "Printable documents"),
			*NewPlanFeature(plan, FeatureExpenseApprovals, true, "Expense approval workflow"),
			*NewPlanFeature(plan, FeatureDataExport, true, "Unlimited xlsx exports"),
			*NewPlanFeature(plan, FeatureLiveStockFeed, true, "Live stock updates"),
			*NewPlanFeature(plan, FeatureAuditTrail, true, "Inventory audit trail"),
			*NewPlanFeature(plan, FeatureAPIAccess, true, "API token access"),
		}
	case TenantPlanEnterprise:
		features := DefaultPlanFeatures(TenantPlanPro)
		for i := range features {
			features[i].PlanID = plan
			features[i].Enabled = true
			features[i].Limit = nil
		}
		return features
	default: // free
		return []PlanFeature{
			*NewPlanFeature(plan, FeatureMultiBranch, false, "Single branch only"),
			*NewPlanFeature(plan, FeaturePurchaseOrders, true, "Purchase orders and goods receiving"),
			*NewPlanFeature(plan, FeatureGRNDocuments, false, "Printable documents"),
			*NewPlanFeature(plan, FeatureExpenseApprovals, false, "Expense approval workflow"),
			*NewPlanFeature(plan, FeatureDataExport, false, "xlsx exports"),
			*NewPlanFeature(plan, FeatureLiveStockFeed, false, "Live stock updates"),
			*NewPlanFeature(plan, FeatureAuditTrail, true, "Inventory audit trail"),
			*NewPlanFeature(plan, FeatureAPIAccess, false, "API token access"),
		}
	}
}

// PlanHasFeature checks the built-in matrix for a plan/feature pair
func PlanHasFeature(plan TenantPlan, featureKey FeatureKey) bool {
	for _, pf := range DefaultPlanFeatures(plan) {
		if pf.FeatureKey == featureKey {
			return pf.Enabled
		}
	}
	return false
}

// GetPlanFeatureLimit returns the limit for a plan/feature pair, nil when
// the feature is unlimited or unknown
func GetPlanFeatureLimit(plan TenantPlan, featureKey FeatureKey) *int {
	for _, pf := range DefaultPlanFeatures(plan) {
		if pf.FeatureKey == featureKey {
			return pf.Limit
		}
	}
	return nil
}

// PlanFeatureRepository defines the interface for plan feature persistence.
// The database copy allows per-deployment overrides of the built-in matrix.
type PlanFeatureRepository interface {
	// FindByPlan finds all features for a plan
	FindByPlan(ctx context.Context, planID TenantPlan) ([]PlanFeature, error)

	// FindByPlanAndFeature finds a specific feature for a plan
	FindByPlanAndFeature(ctx context.Context, planID TenantPlan, featureKey FeatureKey) (*PlanFeature, error)

	// SaveAll replaces the feature set for a plan
	SaveAll(ctx context.Context, features []PlanFeature) error
}
