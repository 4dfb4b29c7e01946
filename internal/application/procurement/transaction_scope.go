package procurement

import (
	"context"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories the
// GRN confirmation workflow writes through. When a function is executed
// within a transaction scope, all repository operations are part of the
// same database transaction and are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories touched
// by a GRN confirmation within one transaction: the stock increases, the
// GRN status flip, and the audit records must commit or roll back
// together.
type TransactionalRepositories interface {
	// GRNRepo returns the GRN repository scoped to the current transaction
	GRNRepo() procurement.GRNRepository
	// InventoryRepo returns the inventory item repository scoped to the current transaction
	InventoryRepo() inventory.InventoryItemRepository
	// AuditRepo returns the audit record repository scoped to the current transaction
	AuditRepo() inventory.InventoryAuditRecordRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support
// is not required.
type NoOpTransactionScope struct {
	grnRepo       procurement.GRNRepository
	inventoryRepo inventory.InventoryItemRepository
	auditRepo     inventory.InventoryAuditRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	grnRepo procurement.GRNRepository,
	inventoryRepo inventory.InventoryItemRepository,
	auditRepo inventory.InventoryAuditRecordRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		grnRepo:       grnRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// GRNRepo returns the GRN repository.
func (s *NoOpTransactionScope) GRNRepo() procurement.GRNRepository {
	return s.grnRepo
}

// InventoryRepo returns the inventory item repository.
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryItemRepository {
	return s.inventoryRepo
}

// AuditRepo returns the audit record repository.
func (s *NoOpTransactionScope) AuditRepo() inventory.InventoryAuditRecordRepository {
	return s.auditRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
