package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryAuditRecord(t *testing.T) {
	tenantID := uuid.New()
	branchID := uuid.New()
	productID := uuid.New()

	t.Run("derives new stock for increase", func(t *testing.T) {
		record, err := NewInventoryAuditRecord(
			tenantID, branchID, productID,
			"SKU-001", "Espresso Beans",
			StockActionIncrease,
			decimal.NewFromInt(5), decimal.NewFromInt(20),
			StockSourceGRNConfirmation,
		)

		require.NoError(t, err)
		assert.Equal(t, StockActionIncrease, record.Action)
		assert.True(t, record.PreviousStock.Equal(decimal.NewFromInt(20)))
		assert.True(t, record.NewStock.Equal(decimal.NewFromInt(25)))
		assert.True(t, record.Quantity.Equal(decimal.NewFromInt(5)))
		assert.False(t, record.RecordedAt.IsZero())
	})

	t.Run("derives new stock for decrease", func(t *testing.T) {
		record, err := NewInventoryAuditRecord(
			tenantID, branchID, productID,
			"SKU-001", "Espresso Beans",
			StockActionDecrease,
			decimal.NewFromInt(3), decimal.NewFromInt(10),
			StockSourceSale,
		)

		require.NoError(t, err)
		assert.True(t, record.NewStock.Equal(decimal.NewFromInt(7)))
		assert.True(t, record.SignedQuantity().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects decrease below zero", func(t *testing.T) {
		_, err := NewInventoryAuditRecord(
			tenantID, branchID, productID,
			"SKU-001", "Espresso Beans",
			StockActionDecrease,
			decimal.NewFromInt(11), decimal.NewFromInt(10),
			StockSourceSale,
		)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewInventoryAuditRecord(
			tenantID, branchID, productID,
			"SKU-001", "Espresso Beans",
			StockActionIncrease,
			decimal.Zero, decimal.NewFromInt(10),
			StockSourceGRNConfirmation,
		)
		assert.Error(t, err)
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := NewInventoryAuditRecord(
			tenantID, branchID, productID,
			"SKU-001", "Espresso Beans",
			StockActionIncrease,
			decimal.NewFromInt(1), decimal.Zero,
			StockSource("OTHER"),
		)
		assert.Error(t, err)
	})
}

func TestInventoryAuditRecord_Enrichment(t *testing.T) {
	grnID := uuid.New()
	staffID := uuid.New()

	record, err := NewInventoryAuditRecord(
		uuid.New(), uuid.New(), uuid.New(),
		"SKU-001", "Espresso Beans",
		StockActionIncrease,
		decimal.NewFromInt(5), decimal.Zero,
		StockSourceGRNConfirmation,
	)
	require.NoError(t, err)

	record.WithSourceReference(grnID, "GRN-2024-0001").
		WithPerformedBy(staffID, "Dana", "manager").
		WithNotes("Stock received via GRN GRN-2024-0001 (PO: PO-2024-0001)")

	require.NotNil(t, record.SourceReferenceID)
	assert.Equal(t, grnID, *record.SourceReferenceID)
	assert.Equal(t, "GRN-2024-0001", record.SourceReferenceNumber)
	require.NotNil(t, record.PerformedByStaffID)
	assert.Equal(t, "Dana", record.PerformedByStaffName)
	assert.Contains(t, record.Notes, "PO-2024-0001")
}

func TestStockSource_IsValid(t *testing.T) {
	assert.True(t, StockSourceGRNConfirmation.IsValid())
	assert.True(t, StockSourceSale.IsValid())
	assert.True(t, StockSourceManualAdjustment.IsValid())
	assert.False(t, StockSource("UNKNOWN").IsValid())
}
