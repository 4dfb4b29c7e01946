package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-000001", uuid.New(), "Acme Supplies", uuid.New())
	require.NoError(t, err)
	return order
}

func addTestOrderItem(t *testing.T, order *PurchaseOrder, sku string, quantity, cost int64) *PurchaseOrderItem {
	t.Helper()
	item, err := order.AddItem(uuid.New(), sku, "Product "+sku, decimal.NewFromInt(quantity), decimal.NewFromInt(cost))
	require.NoError(t, err)
	return item
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusIssued, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusClosed, false},
		{PurchaseOrderStatusIssued, PurchaseOrderStatusClosed, true},
		{PurchaseOrderStatusIssued, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusIssued, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusClosed, PurchaseOrderStatusIssued, false},
		{PurchaseOrderStatusClosed, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusIssued, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)

		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.True(t, order.IsDraft())
		assert.Zero(t, order.ItemCount())
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), "Acme Supplies", uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects nil branch", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-000001", uuid.New(), "Acme Supplies", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_AddItem(t *testing.T) {
	t.Run("adds item and recalculates total", func(t *testing.T) {
		order := createTestPurchaseOrder(t)

		addTestOrderItem(t, order, "SKU-001", 10, 5)
		addTestOrderItem(t, order, "SKU-002", 3, 7)

		assert.Equal(t, 2, order.ItemCount())
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(71)))
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		productID := uuid.New()

		_, err := order.AddItem(productID, "SKU-001", "Espresso Beans", decimal.NewFromInt(10), decimal.NewFromInt(5))
		require.NoError(t, err)

		_, err = order.AddItem(productID, "SKU-001", "Espresso Beans", decimal.NewFromInt(2), decimal.NewFromInt(5))
		assert.Error(t, err)
	})

	t.Run("rejects items after issue", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestOrderItem(t, order, "SKU-001", 10, 5)
		require.NoError(t, order.Issue())

		_, err := order.AddItem(uuid.New(), "SKU-002", "Filters", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_Issue(t *testing.T) {
	t.Run("issues order with items", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestOrderItem(t, order, "SKU-001", 10, 5)

		err := order.Issue()

		require.NoError(t, err)
		assert.True(t, order.IsIssued())
		require.NotNil(t, order.IssuedAt)
	})

	t.Run("rejects issuing an empty order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		assert.Error(t, order.Issue())
	})

	t.Run("rejects double issue", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestOrderItem(t, order, "SKU-001", 10, 5)
		require.NoError(t, order.Issue())

		assert.Error(t, order.Issue())
	})
}

func TestPurchaseOrder_CloseAndCancel(t *testing.T) {
	t.Run("closes an issued order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestOrderItem(t, order, "SKU-001", 10, 5)
		require.NoError(t, order.Issue())

		require.NoError(t, order.Close())
		assert.Equal(t, PurchaseOrderStatusClosed, order.Status)
		assert.Error(t, order.Cancel())
	})

	t.Run("cancels a draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)

		require.NoError(t, order.Cancel())
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Error(t, order.Issue())
	})

	t.Run("cannot close a draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		assert.Error(t, order.Close())
	})
}
