package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// memoryProductRepository is a map-backed stand-in for the product store
type memoryProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemoryProductRepository() *memoryProductRepository {
	return &memoryProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memoryProductRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memoryProductRepository) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			clone := *p
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepository) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.TenantID == tenantID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryProductRepository) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0)
	for _, p := range r.products {
		if p.TenantID != tenantID {
			continue
		}
		if category, ok := filter.Filters["category"]; ok && p.Category != category {
			continue
		}
		if status, ok := filter.Filters["status"]; ok && string(p.Status) != status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(p.SKU, strings.ToUpper(filter.Search)) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *memoryProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memoryProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	return r.Save(ctx, product)
}

func (r *memoryProductRepository) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepository) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.products {
		if p.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *memoryProductRepository) ExistsBySKU(_ context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

// stubTenantRepository serves a single tenant
type stubTenantRepository struct {
	tenant *identity.Tenant
}

func (r *stubTenantRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if r.tenant == nil || r.tenant.ID != id {
		return nil, shared.ErrNotFound
	}
	return r.tenant, nil
}

func (r *stubTenantRepository) FindByCode(_ context.Context, code string) (*identity.Tenant, error) {
	if r.tenant == nil || r.tenant.Code != code {
		return nil, shared.ErrNotFound
	}
	return r.tenant, nil
}

func (r *stubTenantRepository) FindAll(_ context.Context, _ shared.Filter) ([]identity.Tenant, error) {
	if r.tenant == nil {
		return nil, nil
	}
	return []identity.Tenant{*r.tenant}, nil
}

func (r *stubTenantRepository) Save(_ context.Context, tenant *identity.Tenant) error {
	r.tenant = tenant
	return nil
}

func (r *stubTenantRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	if r.tenant == nil {
		return 0, nil
	}
	return 1, nil
}

func (r *stubTenantRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	return r.tenant != nil && r.tenant.Code == code, nil
}

func newProductServiceFixture(t *testing.T) (*ProductService, *memoryProductRepository, *identity.Tenant) {
	t.Helper()
	tenant, err := identity.NewTenant("SHOP1", "Corner Shop")
	require.NoError(t, err)
	repo := newMemoryProductRepository()
	service := NewProductService(repo, &stubTenantRepository{tenant: tenant})
	return service, repo, tenant
}

func TestProductServiceCreate(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)
	cost := decimal.NewFromInt(8)
	sell := decimal.NewFromInt(12)

	resp, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU:       "cola-330",
		Name:      "Cola 330ml",
		Unit:      "pcs",
		Category:  "drinks",
		CostPrice: &cost,
		SellPrice: &sell,
	})
	require.NoError(t, err)

	assert.Equal(t, "COLA-330", resp.SKU, "SKU is normalized to upper case")
	assert.Equal(t, "Cola 330ml", resp.Name)
	assert.Equal(t, "drinks", resp.Category)
	assert.True(t, resp.SellPrice.Equal(sell))
	assert.Equal(t, "active", resp.Status)
}

func TestProductServiceCreateDuplicateSKU(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	_, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "COLA-330", Name: "Cola 330ml", Unit: "pcs",
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "cola-330", Name: "Cola again", Unit: "pcs",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SKU_EXISTS", domainErr.Code)
}

func TestProductServiceCreatePlanLimit(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)
	tenant.Limits.MaxProducts = 1

	_, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "A-1", Name: "First", Unit: "pcs",
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "A-2", Name: "Second", Unit: "pcs",
	})
	assert.ErrorIs(t, err, shared.ErrPlanLimitReached)
}

func TestProductServiceGetBySKUNormalizes(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	_, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "RICE-5KG", Name: "Rice 5kg", Unit: "bag",
	})
	require.NoError(t, err)

	resp, err := service.GetBySKU(context.Background(), tenant.ID, "  rice-5kg ")
	require.NoError(t, err)
	assert.Equal(t, "RICE-5KG", resp.SKU)
}

func TestProductServiceSetPrices(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	created, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "RICE-5KG", Name: "Rice 5kg", Unit: "bag",
	})
	require.NoError(t, err)

	resp, err := service.SetPrices(context.Background(), tenant.ID, created.ID, SetPricesRequest{
		CostPrice: decimal.NewFromInt(20),
		SellPrice: decimal.NewFromInt(28),
	})
	require.NoError(t, err)
	assert.True(t, resp.CostPrice.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.SellPrice.Equal(decimal.NewFromInt(28)))
}

func TestProductServiceSetPricesRejectsSellBelowZero(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	created, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "RICE-5KG", Name: "Rice 5kg", Unit: "bag",
	})
	require.NoError(t, err)

	_, err = service.SetPrices(context.Background(), tenant.ID, created.ID, SetPricesRequest{
		CostPrice: decimal.NewFromInt(-1),
		SellPrice: decimal.NewFromInt(5),
	})
	assert.Error(t, err)
}

func TestProductServiceDisableEnable(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	created, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "RICE-5KG", Name: "Rice 5kg", Unit: "bag",
	})
	require.NoError(t, err)

	disabled, err := service.Disable(context.Background(), tenant.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "disabled", disabled.Status)

	enabled, err := service.Enable(context.Background(), tenant.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", enabled.Status)
}

func TestProductServiceListFiltersByCategory(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	for _, p := range []struct{ sku, name, category string }{
		{"COLA-330", "Cola 330ml", "drinks"},
		{"RICE-5KG", "Rice 5kg", "staples"},
		{"SODA-500", "Soda 500ml", "drinks"},
	} {
		_, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
			SKU: p.sku, Name: p.name, Unit: "pcs", Category: p.category,
		})
		require.NoError(t, err)
	}

	result, err := service.List(context.Background(), tenant.ID, ListProductsQuery{Category: "drinks"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}

func TestProductServiceTenantIsolation(t *testing.T) {
	service, _, tenant := newProductServiceFixture(t)

	created, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "COLA-330", Name: "Cola 330ml", Unit: "pcs",
	})
	require.NoError(t, err)

	_, err = service.GetByID(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductServiceDelete(t *testing.T) {
	service, repo, tenant := newProductServiceFixture(t)

	created, err := service.Create(context.Background(), tenant.ID, CreateProductRequest{
		SKU: "COLA-330", Name: "Cola 330ml", Unit: "pcs",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), tenant.ID, created.ID))

	count, err := repo.CountForTenant(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
