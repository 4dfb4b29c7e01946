package identity

import (
	"context"

	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories
// tenant registration writes through. The tenant, its owner account and
// its default branch must come into existence together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the registration
// repositories within a transaction.
type TransactionalRepositories interface {
	// TenantRepo returns the tenant repository scoped to the current transaction
	TenantRepo() identity.TenantRepository
	// UserRepo returns the user repository scoped to the current transaction
	UserRepo() identity.UserRepository
	// BranchRepo returns the branch repository scoped to the current transaction
	BranchRepo() partner.BranchRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support
// is not required.
type NoOpTransactionScope struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	branchRepo partner.BranchRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	branchRepo partner.BranchRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		branchRepo: branchRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TenantRepo returns the tenant repository.
func (s *NoOpTransactionScope) TenantRepo() identity.TenantRepository {
	return s.tenantRepo
}

// UserRepo returns the user repository.
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository {
	return s.userRepo
}

// BranchRepo returns the branch repository.
func (s *NoOpTransactionScope) BranchRepo() partner.BranchRepository {
	return s.branchRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
