package agent_test

import (
	"testing"
	"time"

	"foodorder/internal/core/domain/model/agent"
	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newHomeDeliveryOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		order.NewID(placedAt, "alice"), "alice", order.HomeDelivery,
		order.Items{{Name: "Pizza", Quantity: 1}},
		placedAt, "", 0, catalog.Default(),
	)
	require.NoError(t, err)
	return o
}

func TestNewDeliveryAgent(t *testing.T) {
	t.Run("should create an idle agent", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.Equal(t, "DA1", a.ID())
		assert.Equal(t, "John", a.Name())
		assert.True(t, a.IsAvailable())
		assert.Nil(t, a.CurrentOrder())
		assert.Nil(t, a.Deadline())
	})

	t.Run("should fail with empty identity", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, a)
	})
}

func TestRestoreDeliveryAgent(t *testing.T) {
	t.Run("should restore a busy agent with its deadline", func(t *testing.T) {
		o := newHomeDeliveryOrder(t)
		deadline := placedAt.Add(5 * time.Minute)

		a, err := agent.RestoreDeliveryAgent("DA1", "John", o, &deadline)

		require.NoError(t, err)
		assert.False(t, a.IsAvailable())
		assert.Same(t, o, a.CurrentOrder())
		require.NotNil(t, a.Deadline())
		assert.Equal(t, deadline, *a.Deadline())
	})

	t.Run("should require a deadline when holding an order", func(t *testing.T) {
		o := newHomeDeliveryOrder(t)

		a, err := agent.RestoreDeliveryAgent("DA1", "John", o, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, a)
	})
}

func TestDeliveryAgent_AssignOrder(t *testing.T) {
	t.Run("should take an order whose ready time has passed", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)
		o := newHomeDeliveryOrder(t)
		now := placedAt.Add(3 * time.Minute)

		assigned, err := a.AssignOrder(o, now)

		require.NoError(t, err)
		assert.True(t, assigned)
		assert.False(t, a.IsAvailable())
		assert.Equal(t, order.Delivering, o.Status())
		require.NotNil(t, a.Deadline())
		assert.Equal(t, now.Add(2*time.Minute), *a.Deadline())
	})

	t.Run("should decline silently before the ready time", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)
		o := newHomeDeliveryOrder(t)

		// Exactly at the ready instant still declines; the check is strict.
		assigned, err := a.AssignOrder(o, placedAt.Add(2*time.Minute))

		require.NoError(t, err)
		assert.False(t, assigned)
		assert.True(t, a.IsAvailable())
		assert.Equal(t, order.Placed, o.Status())
	})
}

func TestDeliveryAgent_CompleteOrder(t *testing.T) {
	t.Run("should complete the held order once the deadline elapses", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)
		o := newHomeDeliveryOrder(t)
		assignedAt := placedAt.Add(3 * time.Minute)
		_, err = a.AssignOrder(o, assignedAt)
		require.NoError(t, err)

		completed, err := a.CompleteOrder(assignedAt.Add(2 * time.Minute))

		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, order.Completed, o.Status())
		assert.True(t, a.IsAvailable())
		assert.Nil(t, a.Deadline())
	})

	t.Run("should do nothing before the deadline", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)
		o := newHomeDeliveryOrder(t)
		assignedAt := placedAt.Add(3 * time.Minute)
		_, err = a.AssignOrder(o, assignedAt)
		require.NoError(t, err)

		completed, err := a.CompleteOrder(assignedAt.Add(time.Minute))

		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, order.Delivering, o.Status())
		assert.False(t, a.IsAvailable())
	})

	t.Run("should do nothing when idle", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)

		completed, err := a.CompleteOrder(placedAt)

		require.NoError(t, err)
		assert.False(t, completed)
	})
}

func TestDeliveryAgent_UpdateOrderStatus(t *testing.T) {
	t.Run("should overwrite the held order's status", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)
		o := newHomeDeliveryOrder(t)
		_, err = a.AssignOrder(o, placedAt.Add(3*time.Minute))
		require.NoError(t, err)

		require.NoError(t, a.UpdateOrderStatus(order.OutForDelivery))

		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("should be a no-op when idle", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)

		assert.NoError(t, a.UpdateOrderStatus(order.OutForDelivery))
	})
}

func TestDeliveryAgent_Release(t *testing.T) {
	t.Run("should drop the held order without touching its status", func(t *testing.T) {
		a, err := agent.NewDeliveryAgent("DA1", "John")
		require.NoError(t, err)
		o := newHomeDeliveryOrder(t)
		_, err = a.AssignOrder(o, placedAt.Add(3*time.Minute))
		require.NoError(t, err)

		a.Release()

		assert.True(t, a.IsAvailable())
		assert.Nil(t, a.Deadline())
		assert.Equal(t, order.Delivering, o.Status())
	})
}
