package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// BranchStatus represents the status of a branch
type BranchStatus string

const (
	BranchStatusActive   BranchStatus = "active"
	BranchStatusInactive BranchStatus = "inactive"
)

// Branch represents one physical location of a tenant. Inventory,
// sales and goods receiving are all partitioned per branch.
type Branch struct {
	shared.TenantAggregateRoot
	Code      string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_branch_tenant_code,priority:2"`
	Name      string       `gorm:"type:varchar(200);not null"`
	Status    BranchStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone     string       `gorm:"type:varchar(50)"`
	Address   string       `gorm:"type:text"`
	City      string       `gorm:"type:varchar(100)"`
	IsDefault bool         `gorm:"not null;default:false"`
	Notes     string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new active branch
func NewBranch(tenantID uuid.UUID, code, name string) (*Branch, error) {
	if err := validateBranchCode(code); err != nil {
		return nil, err
	}
	if err := validateBranchName(name); err != nil {
		return nil, err
	}

	branch := &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              BranchStatusActive,
	}

	branch.AddDomainEvent(NewBranchCreatedEvent(branch))

	return branch, nil
}

// Update updates the branch's basic information
func (b *Branch) Update(name, phone, address, city string) error {
	if err := validateBranchName(name); err != nil {
		return err
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	b.Name = name
	b.Phone = phone
	b.Address = address
	b.City = city
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SetDefault marks this branch as the tenant's default location
func (b *Branch) SetDefault(isDefault bool) {
	b.IsDefault = isDefault
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetNotes sets free-text notes on the branch
func (b *Branch) SetNotes(notes string) {
	b.Notes = notes
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Activate re-enables an inactive branch
func (b *Branch) Activate() error {
	if b.Status == BranchStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Branch is already active")
	}

	b.Status = BranchStatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Deactivate disables the branch. The default branch cannot be
// deactivated; pick a new default first.
func (b *Branch) Deactivate() error {
	if b.Status == BranchStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Branch is already inactive")
	}
	if b.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate the default branch")
	}

	b.Status = BranchStatusInactive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBranchDeactivatedEvent(b))
	return nil
}

// IsActive reports whether the branch is operational
func (b *Branch) IsActive() bool {
	return b.Status == BranchStatusActive
}

func validateBranchCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Branch code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Branch code cannot exceed 50 characters")
	}
	return nil
}

func validateBranchName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Branch name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot exceed 200 characters")
	}
	return nil
}
