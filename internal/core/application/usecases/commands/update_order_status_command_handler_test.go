package commands_test

import (
	"testing"

	"auctiondelivery/internal/adapters/out/postgres/ledgerrepo"
	"auctiondelivery/internal/core/domain/model/kernel"
	ledgertx "auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateOrderStatus_DeliveryCreditsWorker(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "100"})
	itemID := h.seed.MenuItem(h.seed.Chef(), "36.36")
	worker := h.seed.Delivery()

	// When
	orderID := h.deliveredOrder(customerID, itemID, worker)

	// Then
	o := h.order(orderID)
	assert.Equal(t, order.Delivered, o.Status())
	assert.NotNil(t, o.PickedUpAt())
	assert.NotNil(t, o.DeliveredAt())
	assert.True(t, h.seed.EmployeeBalance(worker).Equal(kernel.MustMoney("5.00")))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND amount_cents = ?",
		string(ledgertx.KindDeliveryCredit), 500))
	assert.Contains(t, h.notifier.To(customerID), "order_status_changed")
}

func TestUpdateOrderStatus_OnlyAssignedWorker(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	worker, stranger := h.seed.Delivery(), h.seed.Delivery()
	res := h.bid(worker, orderID, "5.00")
	_, err := h.assignBid(h.seed.Manager(), orderID, &res.BidID, "")
	require.NoError(t, err)

	// When
	err = h.moveTo(stranger, orderID, order.OutForDelivery)

	// Then
	require.ErrorIs(t, err, order.ErrNotAssigned)
	assert.Equal(t, order.ReadyForDelivery, h.order(orderID).Status())
}

func TestUpdateOrderStatus_RejectsSkippingPickup(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	worker := h.seed.Delivery()
	res := h.bid(worker, orderID, "5.00")
	_, err := h.assignBid(h.seed.Manager(), orderID, &res.BidID, "")
	require.NoError(t, err)

	// When
	err = h.moveTo(worker, orderID, order.Delivered)

	// Then
	require.ErrorIs(t, err, errs.ErrStateConflict)
	assert.True(t, h.seed.EmployeeBalance(worker).IsZero())
	assert.Zero(t, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ?", string(ledgertx.KindDeliveryCredit)))
}

func TestUpdateOrderStatus_RejectsNonWorkerTarget(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	worker := h.seed.Delivery()
	res := h.bid(worker, orderID, "5.00")
	_, err := h.assignBid(h.seed.Manager(), orderID, &res.BidID, "")
	require.NoError(t, err)

	// When
	err = h.moveTo(worker, orderID, order.Placed)

	// Then
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
