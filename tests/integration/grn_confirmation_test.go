package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	procurementapp "github.com/retailpos/backend/internal/application/procurement"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
)

func newConfirmationService(tdb *TestDB) (*procurementapp.GRNConfirmationService, *persistence.GormGRNRepository, *persistence.GormInventoryItemRepository, *persistence.GormAuditRecordRepository) {
	grnRepo := persistence.NewGormGRNRepository(tdb.DB)
	branchRepo := persistence.NewGormBranchRepository(tdb.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(tdb.DB)
	auditRepo := persistence.NewGormAuditRecordRepository(tdb.DB)

	inventoryService := inventoryapp.NewInventoryService(itemRepo, auditRepo, persistence.NewGormInventoryTransactionScope(tdb.DB))
	svc := procurementapp.NewGRNConfirmationService(
		grnRepo,
		branchRepo,
		inventoryService,
		persistence.NewGormConfirmationTransactionScope(tdb.DB),
		procurementapp.NewNoOpConfirmationLocker(),
	)
	return svc, grnRepo, itemRepo, auditRepo
}

func TestGRNConfirmationFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	fx := seedPOSFixture(t, tdb, "RICE-5KG", "OIL-1L")
	svc, grnRepo, itemRepo, auditRepo := newConfirmationService(tdb)

	grn, err := procurement.NewGoodsReceivedNote(fx.tenantID, "GRN-00001", "PO-00001", fx.branch.ID)
	require.NoError(t, err)
	require.NoError(t, grn.AddItem(fx.products[0].ID, fx.products[0].SKU, fx.products[0].Name, decimal.NewFromInt(10), decimal.NewFromInt(8)))
	require.NoError(t, grn.AddItem(fx.products[1].ID, fx.products[1].SKU, fx.products[1].Name, decimal.NewFromInt(5), decimal.NewFromInt(3)))
	require.NoError(t, grnRepo.Save(ctx, grn))

	actor := identity.Actor{ID: uuid.New(), Name: "Pim Stockist", Role: identity.StaffRoleStockist}
	result := svc.ConfirmGRN(ctx, fx.tenantID, grn.ID, actor)

	require.True(t, result.Success, "confirmation failed: %s %s", result.Code, result.Message)
	assert.Equal(t, 2, result.ProductsCreated)
	assert.Equal(t, 0, result.ProductsUpdated)

	// Stock records were created at the branch with the received quantities.
	item, err := itemRepo.FindByBranchAndProduct(ctx, fx.tenantID, fx.branch.ID, fx.products[0].ID)
	require.NoError(t, err)
	assert.True(t, item.Stock.Equal(decimal.NewFromInt(8)), "stock = %s", item.Stock)

	item, err = itemRepo.FindByBranchAndProduct(ctx, fx.tenantID, fx.branch.ID, fx.products[1].ID)
	require.NoError(t, err)
	assert.True(t, item.Stock.Equal(decimal.NewFromInt(3)), "stock = %s", item.Stock)

	// One INCREASE audit record per received line, tied to the GRN.
	records, err := auditRepo.FindBySourceReference(ctx, fx.tenantID, grn.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, inventory.StockActionIncrease, record.Action)
		assert.Equal(t, inventory.StockSourceGRNConfirmation, record.Source)
	}

	// The note itself flipped to CONFIRMED with the actor stamped on it.
	confirmed, err := grnRepo.FindByIDForTenant(ctx, fx.tenantID, grn.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.GRNStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedBy)
	assert.Equal(t, actor.ID, *confirmed.ConfirmedBy)

	// Confirming twice is rejected without touching stock again.
	second := svc.ConfirmGRN(ctx, fx.tenantID, grn.ID, actor)
	assert.False(t, second.Success)
	assert.Equal(t, procurementapp.CodeAlreadyProcessed, second.Code)

	item, err = itemRepo.FindByBranchAndProduct(ctx, fx.tenantID, fx.branch.ID, fx.products[0].ID)
	require.NoError(t, err)
	assert.True(t, item.Stock.Equal(decimal.NewFromInt(8)))
}

func TestGRNConfirmationRejectsEmptyReceipts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	fx := seedPOSFixture(t, tdb, "SALT-1KG")
	svc, grnRepo, _, _ := newConfirmationService(tdb)
	actor := identity.Actor{ID: uuid.New(), Name: "Pim Stockist", Role: identity.StaffRoleStockist}

	grn, err := procurement.NewGoodsReceivedNote(fx.tenantID, "GRN-00002", "PO-00002", fx.branch.ID)
	require.NoError(t, err)
	require.NoError(t, grn.AddItem(fx.products[0].ID, fx.products[0].SKU, fx.products[0].Name, decimal.NewFromInt(10), decimal.Zero))
	require.NoError(t, grnRepo.Save(ctx, grn))

	result := svc.ConfirmGRN(ctx, fx.tenantID, grn.ID, actor)
	assert.False(t, result.Success)
	assert.Equal(t, procurementapp.CodeNoReceivedItems, result.Code)

	// Unknown note and missing identity fail with their own codes.
	result = svc.ConfirmGRN(ctx, fx.tenantID, uuid.New(), actor)
	assert.Equal(t, procurementapp.CodeNotFound, result.Code)

	result = svc.ConfirmGRN(ctx, fx.tenantID, grn.ID, identity.Actor{})
	assert.Equal(t, procurementapp.CodeUnauthenticated, result.Code)
}
