package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReturn(t *testing.T) *Return {
	t.Helper()
	ret, err := NewReturn("RET-202608-000001", uuid.New(), uuid.New(), "damaged in transit", "alice")
	require.NoError(t, err)
	return ret
}

func addTestReturnItem(t *testing.T, ret *Return, quantity, unitPrice decimal.Decimal, restockable bool) *ReturnItem {
	t.Helper()
	item, err := ret.AddItem(uuid.New(), uuid.New(), "Widget", quantity, unitPrice, "defective", restockable)
	require.NoError(t, err)
	return item
}

func TestNewReturn(t *testing.T) {
	t.Run("creates pending return with zero amounts", func(t *testing.T) {
		ret := createTestReturn(t)

		assert.Equal(t, ReturnStatusPending, ret.Status)
		assert.Empty(t, ret.Items)
		assert.True(t, ret.TotalAmount.IsZero())
		assert.True(t, ret.RefundAmount.IsZero())
		assert.False(t, ret.InventoryAdjusted)
		assert.Equal(t, "alice", ret.RequestedBy)
	})

	t.Run("rejects empty return number", func(t *testing.T) {
		_, err := NewReturn("", uuid.New(), uuid.New(), "reason", "alice")
		require.Error(t, err)
	})

	t.Run("rejects nil sale ID", func(t *testing.T) {
		_, err := NewReturn("RET-202608-000002", uuid.Nil, uuid.New(), "reason", "alice")
		require.Error(t, err)
	})

	t.Run("rejects nil customer ID", func(t *testing.T) {
		_, err := NewReturn("RET-202608-000002", uuid.New(), uuid.Nil, "reason", "alice")
		require.Error(t, err)
	})
}

func TestReturnAddItem(t *testing.T) {
	t.Run("accumulates total and refund", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(2), decimal.NewFromInt(100), true)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(50), false)

		assert.Len(t, ret.Items, 2)
		assert.True(t, ret.TotalAmount.Equal(decimal.NewFromInt(250)))
		assert.True(t, ret.RefundAmount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("rejects duplicate sale item", func(t *testing.T) {
		ret := createTestReturn(t)
		saleItemID := uuid.New()
		_, err := ret.AddItem(saleItemID, uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(100), "", true)
		require.NoError(t, err)

		_, err = ret.AddItem(saleItemID, uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(100), "", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already included")
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		ret := createTestReturn(t)
		_, err := ret.AddItem(uuid.New(), uuid.New(), "Widget", decimal.Zero, decimal.NewFromInt(100), "", true)
		require.Error(t, err)
	})

	t.Run("rejects items on approved return", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)
		require.NoError(t, ret.Approve("bob"))

		_, err := ret.AddItem(uuid.New(), uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(100), "", true)
		require.Error(t, err)
	})
}

func TestReturnSetFees(t *testing.T) {
	t.Run("subtracts fees from refund", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(2), decimal.NewFromInt(100), true)

		err := ret.SetFees(decimal.NewFromInt(20), decimal.NewFromInt(5))
		require.NoError(t, err)

		assert.True(t, ret.TotalAmount.Equal(decimal.NewFromInt(200)))
		assert.True(t, ret.RefundAmount.Equal(decimal.NewFromInt(175)))
	})

	t.Run("floors refund at zero when fees exceed total", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(30), true)

		err := ret.SetFees(decimal.NewFromInt(25), decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.True(t, ret.RefundAmount.IsZero())
	})

	t.Run("rejects negative fees", func(t *testing.T) {
		ret := createTestReturn(t)
		err := ret.SetFees(decimal.NewFromInt(-1), decimal.Zero)
		require.Error(t, err)

		err = ret.SetFees(decimal.Zero, decimal.NewFromInt(-1))
		require.Error(t, err)
	})

	t.Run("allows fee changes while approved", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)
		require.NoError(t, ret.Approve("bob"))

		err := ret.SetFees(decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, ret.RefundAmount.Equal(decimal.NewFromInt(90)))
	})

	t.Run("rejects fee changes after processing", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)
		require.NoError(t, ret.Approve("bob"))
		require.NoError(t, ret.MarkProcessed("bob"))

		err := ret.SetFees(decimal.NewFromInt(10), decimal.Zero)
		require.Error(t, err)
	})
}

func TestReturnLifecycle(t *testing.T) {
	t.Run("walks the full approval chain", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)

		require.NoError(t, ret.Approve("bob"))
		assert.Equal(t, ReturnStatusApproved, ret.Status)
		assert.Equal(t, "bob", ret.ApprovedBy)
		assert.NotNil(t, ret.ApprovedAt)

		require.NoError(t, ret.MarkProcessed("carol"))
		assert.Equal(t, ReturnStatusProcessed, ret.Status)
		assert.Equal(t, "carol", ret.ProcessedBy)
		assert.NotNil(t, ret.ProcessedAt)

		require.NoError(t, ret.Complete())
		assert.Equal(t, ReturnStatusCompleted, ret.Status)
		assert.NotNil(t, ret.CompletedAt)
		assert.True(t, ret.Status.IsTerminal())
	})

	t.Run("rejects approval without items", func(t *testing.T) {
		ret := createTestReturn(t)
		err := ret.Approve("bob")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no items")
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		ret := createTestReturn(t)
		err := ret.Reject("bob", "")
		require.Error(t, err)
	})

	t.Run("rejection is terminal", func(t *testing.T) {
		ret := createTestReturn(t)
		require.NoError(t, ret.Reject("bob", "out of return window"))

		assert.Equal(t, ReturnStatusRejected, ret.Status)
		assert.Equal(t, "out of return window", ret.RejectionReason)
		assert.True(t, ret.Status.IsTerminal())

		require.Error(t, ret.Approve("bob"))
		require.Error(t, ret.MarkProcessed("bob"))
		require.Error(t, ret.Complete())
	})

	t.Run("rejects out of order transitions", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)

		require.Error(t, ret.MarkProcessed("bob"))
		require.Error(t, ret.Complete())

		require.NoError(t, ret.Approve("bob"))
		require.Error(t, ret.Reject("bob", "too late"))
		require.Error(t, ret.Complete())
	})
}

func TestReturnInventoryAdjusted(t *testing.T) {
	ret := createTestReturn(t)

	require.NoError(t, ret.MarkInventoryAdjusted())
	assert.True(t, ret.InventoryAdjusted)

	err := ret.MarkInventoryAdjusted()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been adjusted")
}

func TestReturnQueries(t *testing.T) {
	t.Run("restockable items filter", func(t *testing.T) {
		ret := createTestReturn(t)
		restockable := addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)
		addTestReturnItem(t, ret, decimal.NewFromInt(2), decimal.NewFromInt(50), false)

		items := ret.RestockableItems()
		require.Len(t, items, 1)
		assert.Equal(t, restockable.ID, items[0].ID)
	})

	t.Run("delete gate", func(t *testing.T) {
		ret := createTestReturn(t)
		assert.True(t, ret.CanDelete())

		addTestReturnItem(t, ret, decimal.NewFromInt(1), decimal.NewFromInt(100), true)
		require.NoError(t, ret.Approve("bob"))
		assert.False(t, ret.CanDelete())

		rejected := createTestReturn(t)
		require.NoError(t, rejected.Reject("bob", "not eligible"))
		assert.True(t, rejected.CanDelete())
	})

	t.Run("rejected returns release held quantity", func(t *testing.T) {
		assert.True(t, ReturnStatusPending.CountsTowardReturned())
		assert.True(t, ReturnStatusCompleted.CountsTowardReturned())
		assert.False(t, ReturnStatusRejected.CountsTowardReturned())
	})
}
