package facility

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drinks() []MenuItem {
	return []MenuItem{
		{Name: "Beer", Price: FromFloat(5.99), PrepTime: 2 * time.Second},
		{Name: "Wine", Price: FromFloat(8.5), PrepTime: time.Second},
	}
}

func Test_OrderQueue_PlaceFunded(t *testing.T) {
	q := NewOrderQueue()

	t.Run("debits and enqueues", func(t *testing.T) {
		ledger := NewLedger(Dollars(20))
		order := NewOrder(uuid.New(), "Main Bar", drinks())

		assert.True(t, q.PlaceFunded(order, ledger))
		assert.Equal(t, Dollars(20)-FromFloat(14.49), ledger.Balance())
		assert.Equal(t, 1, q.Pending())
		assert.Equal(t, OrderWaiting, order.Status())
	})

	t.Run("rejects without mutation", func(t *testing.T) {
		ledger := NewLedger(Dollars(10))
		order := NewOrder(uuid.New(), "Main Bar", drinks())

		assert.False(t, q.PlaceFunded(order, ledger))
		assert.Equal(t, Dollars(10), ledger.Balance())
		assert.Equal(t, 1, q.Pending())
	})
}

func Test_OrderQueue_NextIsFIFOAndMarksInProgress(t *testing.T) {
	q := NewOrderQueue()
	first := NewOrder(uuid.New(), "Main Bar", drinks())
	second := NewOrder(uuid.New(), "Main Bar", drinks())

	q.Place(first)
	q.Place(second)

	assert.Same(t, first, q.next())
	assert.Equal(t, OrderInProgress, first.Status())
	assert.Same(t, second, q.next())
	assert.Nil(t, q.next())
}

func Test_Order_StatusOnlyMovesForward(t *testing.T) {
	order := NewOrder(uuid.New(), "Main Bar", drinks())

	assert.False(t, order.advance(OrderProcessed))
	assert.True(t, order.advance(OrderInProgress))
	assert.False(t, order.advance(OrderWaiting))
	assert.True(t, order.advance(OrderProcessed))
	assert.False(t, order.advance(OrderProcessed))
	assert.Equal(t, OrderProcessed, order.Status())
}

func Test_OrderQueue_StaffProcessOrders(t *testing.T) {
	env := testEnv(script(0.5), nil, 0.001)
	q := NewOrderQueue()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for range 2 {
		go q.serve(ctx, env, "Main Bar", "bar")
	}

	orders := make([]*Order, 5)
	for i := range orders {
		orders[i] = NewOrder(uuid.New(), "Main Bar", drinks())
		q.Place(orders[i])
	}

	require.Eventually(t, func() bool { return q.Served() == 5 }, 2*time.Second, 5*time.Millisecond)

	for _, o := range orders {
		assert.Equal(t, OrderProcessed, o.Status())
	}
	assert.Equal(t, 0, q.Pending())
}
