package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended" // payment or policy issues
	TenantStatusTrial     TenantStatus = "trial"
)

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanFree       TenantPlan = "free"
	TenantPlanBasic      TenantPlan = "basic"
	TenantPlanPro        TenantPlan = "pro"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// IsValid checks if the plan is a known TenantPlan
func (p TenantPlan) IsValid() bool {
	switch p {
	case TenantPlanFree, TenantPlanBasic, TenantPlanPro, TenantPlanEnterprise:
		return true
	}
	return false
}

// TenantLimits holds the operational ceilings granted by the tenant's plan
type TenantLimits struct {
	MaxBranches int    `json:"max_branches"`
	MaxStaff    int    `json:"max_staff"`
	MaxProducts int    `json:"max_products"`
	Currency    string `json:"currency"`
	Timezone    string `json:"timezone"`
}

// DefaultTenantLimits returns the limits applied to a new free-plan tenant
func DefaultTenantLimits() TenantLimits {
	return LimitsForPlan(TenantPlanFree)
}

// LimitsForPlan returns the limits granted by a plan
func LimitsForPlan(plan TenantPlan) TenantLimits {
	limits := TenantLimits{
		Currency: "USD",
		Timezone: "UTC",
	}
	switch plan {
	case TenantPlanBasic:
		limits.MaxBranches = 3
		limits.MaxStaff = 15
		limits.MaxProducts = 2000
	case TenantPlanPro:
		limits.MaxBranches = 10
		limits.MaxStaff = 50
		limits.MaxProducts = 20000
	case TenantPlanEnterprise:
		limits.MaxBranches = 0 // unlimited
		limits.MaxStaff = 0
		limits.MaxProducts = 0
	default:
		limits.MaxBranches = 1
		limits.MaxStaff = 3
		limits.MaxProducts = 200
	}
	return limits
}

// Tenant represents one business (a retail operator) in the
// multi-tenant system. It is the aggregate root for subscription and
// limit decisions.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan         TenantPlan   `gorm:"type:varchar(20);not null;default:'free'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	ExpiresAt    *time.Time   `gorm:"index"` // subscription expiry
	TrialEndsAt  *time.Time
	Limits       TenantLimits `gorm:"embedded;embeddedPrefix:limit_"`
	Notes        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant on the free plan
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            TenantStatusActive,
		Plan:              TenantPlanFree,
		Limits:            DefaultTenantLimits(),
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// NewTrialTenant creates a tenant in trial status with pro-plan limits
func NewTrialTenant(code, name string, trialDays int) (*Tenant, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}

	tenant, err := NewTenant(code, name)
	if err != nil {
		return nil, err
	}

	tenant.Status = TenantStatusTrial
	tenant.Plan = TenantPlanPro
	tenant.Limits = LimitsForPlan(TenantPlanPro)
	trialEnds := time.Now().AddDate(0, 0, trialDays)
	tenant.TrialEndsAt = &trialEnds

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}

	t.Name = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetContact updates the tenant's contact details
func (t *Tenant) SetContact(contactName, phone, email string) {
	t.ContactName = contactName
	t.ContactPhone = phone
	t.ContactEmail = email
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ChangePlan moves the tenant to a new plan and rewrites its limits
func (t *Tenant) ChangePlan(plan TenantPlan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Cannot change plan of a suspended tenant")
	}

	t.Plan = plan
	t.Limits = LimitsForPlan(plan)
	if t.Status == TenantStatusTrial {
		t.Status = TenantStatusActive
		t.TrialEndsAt = nil
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantPlanChangedEvent(t))
	return nil
}

// Suspend blocks the tenant from all operations
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Activate restores a suspended tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsActive reports whether the tenant may operate
func (t *Tenant) IsActive() bool {
	if t.Status == TenantStatusTrial {
		return !t.IsTrialExpired()
	}
	return t.Status == TenantStatusActive
}

// IsTrialExpired reports whether a trial tenant has run out of time
func (t *Tenant) IsTrialExpired() bool {
	if t.Status != TenantStatusTrial || t.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*t.TrialEndsAt)
}

// CanAddBranch checks the branch count against the plan limit
func (t *Tenant) CanAddBranch(currentCount int) bool {
	return t.Limits.MaxBranches == 0 || currentCount < t.Limits.MaxBranches
}

// CanAddStaff checks the staff count against the plan limit
func (t *Tenant) CanAddStaff(currentCount int) bool {
	return t.Limits.MaxStaff == 0 || currentCount < t.Limits.MaxStaff
}

// CanAddProduct checks the product count against the plan limit
func (t *Tenant) CanAddProduct(currentCount int) bool {
	return t.Limits.MaxProducts == 0 || currentCount < t.Limits.MaxProducts
}

// GetTenantID returns the tenant's own ID
func (t *Tenant) GetTenantID() uuid.UUID {
	return t.ID
}

func validateTenantCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Tenant code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_CODE", "Tenant code may only contain letters, digits, hyphen and underscore")
		}
	}
	return nil
}

func validateTenantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
