package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
)

// posFixture is a seeded tenant with one branch and a set of priced
// products, created through the real Gorm repositories so foreign keys
// and optimistic-lock versions behave exactly as in production.
type posFixture struct {
	tenantID uuid.UUID
	branch   *partner.Branch
	products []*catalog.Product
}

func seedPOSFixture(t *testing.T, tdb *TestDB, skus ...string) *posFixture {
	t.Helper()
	ctx := context.Background()

	tenantID := uuid.New()
	tdb.CreateTestTenantWithUUID(tenantID)

	branchRepo := persistence.NewGormBranchRepository(tdb.DB)
	branch, err := partner.NewBranch(tenantID, "MAIN", "Main Branch")
	require.NoError(t, err)
	require.NoError(t, branchRepo.Save(ctx, branch))

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	products := make([]*catalog.Product, 0, len(skus))
	for i, sku := range skus {
		product, err := catalog.NewProduct(tenantID, sku, fmt.Sprintf("Test Product %s", sku), "pcs")
		require.NoError(t, err)
		cost := decimal.NewFromInt(int64(10 * (i + 1)))
		sell := decimal.NewFromInt(int64(15 * (i + 1)))
		require.NoError(t, product.SetPrices(cost, sell))
		require.NoError(t, productRepo.Save(ctx, product))
		products = append(products, product)
	}

	return &posFixture{tenantID: tenantID, branch: branch, products: products}
}
