package services_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), cart(t, line{1, "10"}),
		order.Pricing{Total: kernel.MustMoney("16")}, time.Now())
	require.NoError(t, err)
	require.NoError(t, o.OpenBidding())
	return o
}

func worker(t *testing.T, role account.Role, avg float64, count int) *account.Employee {
	t.Helper()
	e, err := account.RestoreEmployee(kernel.NewUUID(), role, account.Employed, kernel.MustMoney("100"),
		kernel.ZeroMoney(), 0, avg, count, time.Time{})
	require.NoError(t, err)
	return e
}

func TestDeliveryDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewDeliveryDispatcher()

	t.Run("best_rated_worker_is_assigned", func(t *testing.T) {
		// Given
		o := awaitingOrder(t)
		low := worker(t, account.RoleDelivery, 3.1, 10)
		high := worker(t, account.RoleDelivery, 4.7, 2)

		// When
		chosen, err := dispatcher.Dispatch(o, []*account.Employee{low, high})

		// Then
		require.NoError(t, err)
		assert.Same(t, high, chosen)
		assert.Equal(t, order.ReadyForDelivery, o.Status())
		assert.True(t, o.IsAssignedTo(high.ID()))
	})

	t.Run("ties_go_to_more_ratings", func(t *testing.T) {
		o := awaitingOrder(t)
		few := worker(t, account.RoleDelivery, 4, 1)
		many := worker(t, account.RoleDelivery, 4, 9)

		chosen, err := dispatcher.Dispatch(o, []*account.Employee{few, many})

		require.NoError(t, err)
		assert.Same(t, many, chosen)
	})

	t.Run("fired_workers_and_chefs_are_skipped", func(t *testing.T) {
		o := awaitingOrder(t)
		fired := worker(t, account.RoleDelivery, 5, 5)
		fired.Fire()
		chef := worker(t, account.RoleChef, 5, 5)

		_, err := dispatcher.Dispatch(o, []*account.Employee{fired, chef})

		require.ErrorIs(t, err, services.ErrNoDeliveryAvailable)
		assert.Equal(t, order.AwaitingBids, o.Status())
	})

	t.Run("no_workers", func(t *testing.T) {
		_, err := dispatcher.Dispatch(awaitingOrder(t), nil)

		require.ErrorIs(t, err, services.ErrNoDeliveryAvailable)
	})
}
