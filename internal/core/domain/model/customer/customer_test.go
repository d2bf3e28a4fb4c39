package customer_test

import (
	"testing"
	"time"

	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/core/domain/model/customer"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, id string) *order.Order {
	t.Helper()

	placedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o, err := order.NewOrder(
		id, "alice", order.Takeaway,
		order.Items{{Name: "Pizza", Quantity: 1}},
		placedAt, "", 0, catalog.Default(),
	)
	require.NoError(t, err)
	return o
}

func TestNewCustomer(t *testing.T) {
	t.Run("should create a customer with notifications enabled", func(t *testing.T) {
		c, err := customer.NewCustomer("alice", "secret", "Alice")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, "alice", c.Username())
		assert.Equal(t, "secret", c.Password())
		assert.Equal(t, "Alice", c.Name())
		assert.Empty(t, c.Address())
		assert.True(t, c.NotificationsEnabled())
		assert.Empty(t, c.Orders())
	})

	t.Run("should require username, password and name", func(t *testing.T) {
		c, err := customer.NewCustomer("", "", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "username")
		assert.Contains(t, err.Error(), "password")
		assert.Contains(t, err.Error(), "name")
	})
}

func TestRestoreCustomer(t *testing.T) {
	t.Run("should restore profile and history", func(t *testing.T) {
		o := newOrder(t, "O-1")

		c, err := customer.RestoreCustomer("alice", "secret", "Alice", "1 Main St", false, []*order.Order{o})

		require.NoError(t, err)
		assert.Equal(t, "1 Main St", c.Address())
		assert.False(t, c.NotificationsEnabled())
		require.Len(t, c.Orders(), 1)
		assert.Same(t, o, c.Orders()[0])
	})
}

func TestCustomer_Orders(t *testing.T) {
	t.Run("should keep the history in placement order", func(t *testing.T) {
		c, err := customer.NewCustomer("alice", "secret", "Alice")
		require.NoError(t, err)
		first, second := newOrder(t, "O-1"), newOrder(t, "O-2")

		require.NoError(t, c.AddOrder(first))
		require.NoError(t, c.AddOrder(second))

		history := c.Orders()
		require.Len(t, history, 2)
		assert.Same(t, first, history[0])
		assert.Same(t, second, history[1])
	})

	t.Run("should return a copy of the history slice", func(t *testing.T) {
		c, err := customer.NewCustomer("alice", "secret", "Alice")
		require.NoError(t, err)
		require.NoError(t, c.AddOrder(newOrder(t, "O-1")))

		history := c.Orders()
		history[0] = nil

		require.Len(t, c.Orders(), 1)
		assert.NotNil(t, c.Orders()[0])
	})
}

func TestCustomer_OrderByID(t *testing.T) {
	t.Run("should find an order by id", func(t *testing.T) {
		c, err := customer.NewCustomer("alice", "secret", "Alice")
		require.NoError(t, err)
		o := newOrder(t, "O-1")
		require.NoError(t, c.AddOrder(o))

		assert.Same(t, o, c.OrderByID("O-1"))
		assert.Nil(t, c.OrderByID("O-2"))
	})
}

func TestCustomer_Profile(t *testing.T) {
	t.Run("should rename and change address", func(t *testing.T) {
		c, err := customer.NewCustomer("alice", "secret", "Alice")
		require.NoError(t, err)

		require.NoError(t, c.Rename("Alice B."))
		c.ChangeAddress("1 Main St")
		c.SetNotificationsEnabled(false)

		assert.Equal(t, "Alice B.", c.Name())
		assert.Equal(t, "1 Main St", c.Address())
		assert.False(t, c.NotificationsEnabled())
	})

	t.Run("should reject renaming to empty", func(t *testing.T) {
		c, err := customer.NewCustomer("alice", "secret", "Alice")
		require.NoError(t, err)

		require.ErrorIs(t, c.Rename(""), errs.ErrValueIsRequired)
		assert.Equal(t, "Alice", c.Name())
	})
}
