package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TenantRepository persists tenants. Unlike the operational
// repositories it is not tenant-scoped; only registration and platform
// administration go through it.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByCode looks a tenant up by its unique short code, the
	// identifier clients send in the X-Tenant-ID header.
	FindByCode(ctx context.Context, code string) (*Tenant, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)

	Save(ctx context.Context, tenant *Tenant) error

	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode backs the registration uniqueness check.
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
