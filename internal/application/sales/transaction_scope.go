package sales

import (
	"context"

	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a
// checkout writes through. When a function is executed within a
// transaction scope, all repository operations are part of the same
// database transaction and are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories touched
// by a checkout within one transaction: the sale record, the stock
// decrements, and their audit records must commit or roll back
// together.
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// InventoryRepo returns the inventory item repository scoped to the current transaction
	InventoryRepo() inventory.InventoryItemRepository
	// AuditRepo returns the audit record repository scoped to the current transaction
	AuditRepo() inventory.InventoryAuditRecordRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support
// is not required.
type NoOpTransactionScope struct {
	saleRepo      sales.SaleRepository
	inventoryRepo inventory.InventoryItemRepository
	auditRepo     inventory.InventoryAuditRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	inventoryRepo inventory.InventoryItemRepository,
	auditRepo inventory.InventoryAuditRecordRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:      saleRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
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
