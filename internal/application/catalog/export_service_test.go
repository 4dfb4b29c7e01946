package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
)

// stubBranchRepository serves a fixed branch list
type stubBranchRepository struct {
	branches []partner.Branch
}

func (r *stubBranchRepository) FindByIDForTenant(_ context.Context, _, _ uuid.UUID) (*partner.Branch, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBranchRepository) FindByCode(_ context.Context, _ uuid.UUID, _ string) (*partner.Branch, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBranchRepository) FindAllForTenant(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]partner.Branch, error) {
	return r.branches, nil
}

func (r *stubBranchRepository) FindDefault(_ context.Context, _ uuid.UUID) (*partner.Branch, error) {
	return nil, shared.ErrNotFound
}

func (r *stubBranchRepository) Save(_ context.Context, _ *partner.Branch) error         { return nil }
func (r *stubBranchRepository) SaveWithLock(_ context.Context, _ *partner.Branch) error { return nil }
func (r *stubBranchRepository) DeleteForTenant(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *stubBranchRepository) CountForTenant(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(r.branches)), nil
}

func (r *stubBranchRepository) ExistsByCode(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

// stubInventoryRepository serves stock snapshots keyed by branch
type stubInventoryRepository struct {
	byBranch map[uuid.UUID][]*inventory.InventoryItem
}

func (r *stubInventoryRepository) FindByIDForTenant(_ context.Context, _, _ uuid.UUID) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *stubInventoryRepository) FindByBranchAndProduct(_ context.Context, _, _, _ uuid.UUID) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *stubInventoryRepository) FindByBranchAndSKU(_ context.Context, _, _ uuid.UUID, _ string) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *stubInventoryRepository) FindByBranch(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	return nil, 0, nil
}

func (r *stubInventoryRepository) SnapshotBranch(_ context.Context, _, branchID uuid.UUID) ([]*inventory.InventoryItem, error) {
	return r.byBranch[branchID], nil
}

func (r *stubInventoryRepository) FindAllForTenant(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]*inventory.InventoryItem, int64, error) {
	return nil, 0, nil
}

func (r *stubInventoryRepository) Save(_ context.Context, _ *inventory.InventoryItem) error {
	return nil
}

func (r *stubInventoryRepository) SaveWithLock(_ context.Context, _ *inventory.InventoryItem) error {
	return nil
}

func (r *stubInventoryRepository) CountForTenant(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type grantAllFeatures struct{}

func (grantAllFeatures) HasFeature(_ context.Context, _ identity.TenantPlan, _ identity.FeatureKey) (bool, error) {
	return true, nil
}

func newExportFixture(t *testing.T, features FeatureChecker) (*ExportService, *memoryProductRepository, *stubBranchRepository, *stubInventoryRepository, *identity.Tenant) {
	t.Helper()
	tenant, err := identity.NewTenant("SHOP1", "Corner Shop")
	require.NoError(t, err)

	productRepo := newMemoryProductRepository()
	branchRepo := &stubBranchRepository{}
	inventoryRepo := &stubInventoryRepository{byBranch: make(map[uuid.UUID][]*inventory.InventoryItem)}
	service := NewExportService(productRepo, branchRepo, inventoryRepo, &stubTenantRepository{tenant: tenant}, features)
	return service, productRepo, branchRepo, inventoryRepo, tenant
}

func TestExportServiceRejectedWithoutFeature(t *testing.T) {
	// Free-plan tenants have no data export; the built-in matrix applies
	// when no feature checker is injected.
	service, _, _, _, tenant := newExportFixture(t, nil)

	_, _, err := service.ExportProducts(context.Background(), tenant.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FEATURE_NOT_AVAILABLE", domainErr.Code)
}

func TestExportServiceUnknownTenant(t *testing.T) {
	service, _, _, _, _ := newExportFixture(t, grantAllFeatures{})

	_, _, err := service.ExportProducts(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExportServiceBuildsWorkbook(t *testing.T) {
	service, productRepo, branchRepo, inventoryRepo, tenant := newExportFixture(t, grantAllFeatures{})
	ctx := context.Background()

	product, err := catalog.NewProduct(tenant.ID, "COLA-330", "Cola 330ml", "pcs")
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, product))

	branch, err := partner.NewBranch(tenant.ID, "MAIN", "Main Street")
	require.NoError(t, err)
	branchRepo.branches = []partner.Branch{*branch}

	item, err := inventory.NewInventoryItem(tenant.ID, branch.ID, product.ID, product.SKU, product.Name)
	require.NoError(t, err)
	require.NoError(t, item.IncreaseStock(decimal.NewFromInt(24)))
	inventoryRepo.byBranch[branch.ID] = []*inventory.InventoryItem{item}

	buf, filename, err := service.ExportProducts(ctx, tenant.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "products-"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Products", "Stock"}, f.GetSheetList())

	sku, err := f.GetCellValue("Products", "A2")
	require.NoError(t, err)
	assert.Equal(t, "COLA-330", sku)

	branchCode, err := f.GetCellValue("Stock", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MAIN", branchCode)

	stock, err := f.GetCellValue("Stock", "E2")
	require.NoError(t, err)
	assert.Equal(t, "24", stock)
}
