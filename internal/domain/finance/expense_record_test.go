package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestExpense(t *testing.T) *ExpenseRecord {
	t.Helper()
	expense, err := NewExpenseRecord(
		uuid.New(), "EXP-000001", uuid.New(),
		ExpenseCategoryRent, decimal.NewFromInt(1200),
		"March rent for the Main Street branch", time.Now(),
	)
	require.NoError(t, err)
	return expense
}

func TestNewExpenseRecord(t *testing.T) {
	t.Run("creates unpaid draft", func(t *testing.T) {
		expense := createTestExpense(t)

		assert.Equal(t, ExpenseStatusDraft, expense.Status)
		assert.Equal(t, PaymentStatusUnpaid, expense.PaymentStatus)
		assert.True(t, expense.IsDraft())
		assert.False(t, expense.IsPaid())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewExpenseRecord(uuid.New(), "EXP-000001", uuid.New(), ExpenseCategoryRent, decimal.Zero, "rent", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewExpenseRecord(uuid.New(), "EXP-000001", uuid.New(), ExpenseCategory("FOOD"), decimal.NewFromInt(10), "lunch", time.Now())
		assert.Error(t, err)
	})
}

func TestExpenseRecord_ApprovalFlow(t *testing.T) {
	t.Run("submit then approve", func(t *testing.T) {
		expense := createTestExpense(t)
		submitter := uuid.New()
		approver := uuid.New()

		require.NoError(t, expense.Submit(submitter))
		assert.True(t, expense.IsPending())

		require.NoError(t, expense.Approve(approver, "ok"))
		assert.True(t, expense.IsApproved())
		require.NotNil(t, expense.DecidedBy)
		assert.Equal(t, approver, *expense.DecidedBy)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))

		assert.Error(t, expense.Reject(uuid.New(), ""))

		require.NoError(t, expense.Reject(uuid.New(), "missing invoice"))
		assert.Equal(t, ExpenseStatusRejected, expense.Status)
		assert.Equal(t, "missing invoice", expense.DecisionNote)
	})

	t.Run("cannot approve a draft", func(t *testing.T) {
		expense := createTestExpense(t)
		assert.Error(t, expense.Approve(uuid.New(), ""))
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))
		assert.Error(t, expense.Submit(uuid.New()))
	})

	t.Run("cancel allowed from draft and pending only", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Cancel(uuid.New()))

		approved := createTestExpense(t)
		require.NoError(t, approved.Submit(uuid.New()))
		require.NoError(t, approved.Approve(uuid.New(), ""))
		assert.Error(t, approved.Cancel(uuid.New()))
	})
}

func TestExpenseRecord_MarkAsPaid(t *testing.T) {
	t.Run("pays an approved expense", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))
		require.NoError(t, expense.Approve(uuid.New(), ""))

		err := expense.MarkAsPaid(ExpensePaymentMethodBankTransfer)

		require.NoError(t, err)
		assert.True(t, expense.IsPaid())
		require.NotNil(t, expense.PaidAt)
	})

	t.Run("rejects paying a pending expense", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))

		assert.Error(t, expense.MarkAsPaid(ExpensePaymentMethodCash))
	})

	t.Run("rejects double payment", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))
		require.NoError(t, expense.Approve(uuid.New(), ""))
		require.NoError(t, expense.MarkAsPaid(ExpensePaymentMethodCash))

		assert.Error(t, expense.MarkAsPaid(ExpensePaymentMethodCash))
	})
}

func TestExpenseRecord_AttachReceipt(t *testing.T) {
	t.Run("stores the object key", func(t *testing.T) {
		expense := createTestExpense(t)

		require.NoError(t, expense.AttachReceipt("tenants/t1/expenses/EXP-000001/receipt.pdf"))
		assert.True(t, expense.HasReceipt())
	})

	t.Run("rejects attaching to a rejected expense", func(t *testing.T) {
		expense := createTestExpense(t)
		require.NoError(t, expense.Submit(uuid.New()))
		require.NoError(t, expense.Reject(uuid.New(), "duplicate"))

		assert.Error(t, expense.AttachReceipt("key"))
	})
}

func TestExpenseRecord_UpdateDraftOnly(t *testing.T) {
	expense := createTestExpense(t)
	require.NoError(t, expense.Update(ExpenseCategoryUtilities, decimal.NewFromInt(300), "electricity", time.Now()))
	assert.Equal(t, ExpenseCategoryUtilities, expense.Category)

	require.NoError(t, expense.Submit(uuid.New()))
	assert.Error(t, expense.Update(ExpenseCategoryRent, decimal.NewFromInt(100), "rent", time.Now()))
}
