package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByIDForTenant finds a branch by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)

	// FindByCode finds a branch by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Branch, error)

	// FindAllForTenant finds all branches of a tenant matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Branch, error)

	// FindDefault finds the tenant's default branch
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, branch *Branch) error

	// DeleteForTenant deletes a branch within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts branches of a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// ExistsByCode checks if a branch code is taken within a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
