package persistence

import (
	"context"

	"gorm.io/gorm"

	appidentity "github.com/retailpos/backend/internal/application/identity"
	appinventory "github.com/retailpos/backend/internal/application/inventory"
	appprocurement "github.com/retailpos/backend/internal/application/procurement"
	appsales "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/sales"
)

// GormInventoryTransactionScope implements the inventory application
// TransactionScope using GORM transactions.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepos{tx: tx})
	})
}

type gormInventoryRepos struct {
	tx *gorm.DB
}

func (r *gormInventoryRepos) InventoryRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormInventoryRepos) AuditRepo() inventory.InventoryAuditRecordRepository {
	return NewGormAuditRecordRepository(r.tx)
}

// GormConfirmationTransactionScope implements the procurement application
// TransactionScope using GORM transactions. A GRN confirmation writes the
// stock increases, the status flip, and the audit records through one
// transaction so they commit or roll back together.
type GormConfirmationTransactionScope struct {
	db *gorm.DB
}

// NewGormConfirmationTransactionScope creates a new GormConfirmationTransactionScope
func NewGormConfirmationTransactionScope(db *gorm.DB) *GormConfirmationTransactionScope {
	return &GormConfirmationTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormConfirmationTransactionScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormConfirmationRepos{tx: tx})
	})
}

type gormConfirmationRepos struct {
	tx *gorm.DB
}

func (r *gormConfirmationRepos) GRNRepo() procurement.GRNRepository {
	return NewGormGRNRepository(r.tx)
}

func (r *gormConfirmationRepos) InventoryRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormConfirmationRepos) AuditRepo() inventory.InventoryAuditRecordRepository {
	return NewGormAuditRecordRepository(r.tx)
}

// GormCheckoutTransactionScope implements the sales application
// TransactionScope using GORM transactions.
type GormCheckoutTransactionScope struct {
	db *gorm.DB
}

// NewGormCheckoutTransactionScope creates a new GormCheckoutTransactionScope
func NewGormCheckoutTransactionScope(db *gorm.DB) *GormCheckoutTransactionScope {
	return &GormCheckoutTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormCheckoutTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepos{tx: tx})
	})
}

type gormCheckoutRepos struct {
	tx *gorm.DB
}

func (r *gormCheckoutRepos) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormCheckoutRepos) InventoryRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormCheckoutRepos) AuditRepo() inventory.InventoryAuditRecordRepository {
	return NewGormAuditRecordRepository(r.tx)
}

// GormRegistrationTransactionScope implements the identity application
// TransactionScope using GORM transactions. Tenant registration creates
// the tenant, its owner account, and its default branch together.
type GormRegistrationTransactionScope struct {
	db *gorm.DB
}

// NewGormRegistrationTransactionScope creates a new GormRegistrationTransactionScope
func NewGormRegistrationTransactionScope(db *gorm.DB) *GormRegistrationTransactionScope {
	return &GormRegistrationTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormRegistrationTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRegistrationRepos{tx: tx})
	})
}

type gormRegistrationRepos struct {
	tx *gorm.DB
}

func (r *gormRegistrationRepos) TenantRepo() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *gormRegistrationRepos) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormRegistrationRepos) BranchRepo() partner.BranchRepository {
	return NewGormBranchRepository(r.tx)
}

// Interface checks
var (
	_ appinventory.TransactionScope              = (*GormInventoryTransactionScope)(nil)
	_ appinventory.TransactionalRepositories     = (*gormInventoryRepos)(nil)
	_ appprocurement.TransactionScope            = (*GormConfirmationTransactionScope)(nil)
	_ appprocurement.TransactionalRepositories   = (*gormConfirmationRepos)(nil)
	_ appsales.TransactionScope                  = (*GormCheckoutTransactionScope)(nil)
	_ appsales.TransactionalRepositories         = (*gormCheckoutRepos)(nil)
	_ appidentity.TransactionScope               = (*GormRegistrationTransactionScope)(nil)
	_ appidentity.TransactionalRepositories      = (*gormRegistrationRepos)(nil)
)
