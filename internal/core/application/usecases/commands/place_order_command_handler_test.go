package commands_test

import (
	"sync"
	"testing"
	"time"

	"auctiondelivery/internal/adapters/out/postgres/accountrepo"
	"auctiondelivery/internal/adapters/out/postgres/auctionrepo"
	"auctiondelivery/internal/adapters/out/postgres/ledgerrepo"
	"auctiondelivery/internal/adapters/out/postgres/orderrepo"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
	ledgertx "auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_DebitsBalanceAndOpensBidding(t *testing.T) {
	// Given a customer with 50.00 and a 36.36 item (36.36 + 10% tax + 5.00 fee = 45.00)
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "50"})
	itemID := h.seed.MenuItem(h.seed.Chef(), "36.36")
	worker := h.seed.Delivery()

	// When
	orderID := h.place(customerID, itemID, 1)

	// Then
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("5.00")))
	o := h.order(orderID)
	assert.Equal(t, order.AwaitingBids, o.Status())
	assert.True(t, o.TotalPrice().Equal(kernel.MustMoney("45.00")))
	assert.Len(t, o.Items(), 1)

	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND amount_cents = ?",
		string(ledgertx.KindOrderDebit), 4500))
	assert.EqualValues(t, 1, h.seed.Count(&auctionrepo.WindowDTO{}, "closed_at IS NULL"))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.CustomerDTO{}, "total_orders = ? AND total_spent_cents = ?", 1, 4500))
	assert.Equal(t, start.Add(5*time.Minute), h.scheduler.scheduled[orderID])
	assert.Contains(t, h.notifier.To(worker), "bidding_opened")
}

func TestPlaceOrder_InsufficientBalanceIssuesWarning(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "20"})
	itemID := h.seed.MenuItem(h.seed.Chef(), "36.36")
	cmd, err := commands.NewPlaceOrderCommand(customerID, []commands.CartLine{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)

	// When
	_, err = h.placeOrder.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, ledgertx.ErrInsufficientBalance)
	require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("20")))
	assert.Zero(t, h.seed.Count(&orderrepo.OrderDTO{}, ""))
	assert.Zero(t, h.seed.Count(&ledgerrepo.TransactionDTO{}, ""))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.WarningDTO{}, "source = ?", string(account.WarningFromOrder)))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND warning_count = 1", customerID.Bytes()))
	assert.Contains(t, h.notifier.To(customerID), "warning_issued")
}

func TestPlaceOrder_ThirdLowBalanceAttemptTerminates(t *testing.T) {
	// Given a customer already carrying two warnings
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "1", Warnings: 2})
	itemID := h.seed.MenuItem(h.seed.Chef(), "36.36")
	cmd, err := commands.NewPlaceOrderCommand(customerID, []commands.CartLine{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)

	// When
	_, err = h.placeOrder.Handle(t.Context(), cmd)

	// Then the balance is refunded and the contact blacklisted
	require.ErrorIs(t, err, ledgertx.ErrInsufficientBalance)
	assert.True(t, h.seed.Balance(customerID).IsZero())
	assert.Len(t, h.gateway.refunds, 1)
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ? AND is_blacklisted = ?",
		customerID.Bytes(), int(account.Terminated), true))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.BlacklistEntryDTO{}, ""))
}

func TestPlaceOrder_UnavailableItemHasNoSideEffects(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "100"})
	itemID := h.seed.MenuItem(h.seed.Chef(), "10.00")
	h.seed.SoldOut(itemID)
	cmd, err := commands.NewPlaceOrderCommand(customerID, []commands.CartLine{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)

	// When
	_, err = h.placeOrder.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	assert.Zero(t, h.seed.Count(&orderrepo.OrderDTO{}, ""))
	assert.Zero(t, h.seed.Count(&accountrepo.WarningDTO{}, ""))
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("100")))
}

func TestPlaceOrder_VIPThirdOrderHasFreeDelivery(t *testing.T) {
	// Given a VIP with two orders behind them
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "100", VIP: true, TotalOrders: 2, TotalSpent: "40"})
	itemID := h.seed.MenuItem(h.seed.Chef(), "20.00")

	// When
	orderID := h.place(customerID, itemID, 1)

	// Then: 20.00 - 5% + 10% tax on 20.00, no delivery fee
	o := h.order(orderID)
	assert.True(t, o.IsFreeDelivery())
	assert.True(t, o.DeliveryPrice().IsZero())
	assert.True(t, o.TotalPrice().Equal(kernel.MustMoney("21.00")))
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("79.00")))
}

func TestPlaceOrder_RejectsSuspendedCustomer(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "100", Warnings: 3})
	itemID := h.seed.MenuItem(h.seed.Chef(), "10.00")
	cmd, err := commands.NewPlaceOrderCommand(customerID, []commands.CartLine{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)

	// When
	_, err = h.placeOrder.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, account.ErrAccountSuspended)
	assert.Zero(t, h.seed.Count(&accountrepo.WarningDTO{}, ""))
}

func TestPlaceOrder_ConcurrentPlacementsNeverOverdraw(t *testing.T) {
	// Given enough money for exactly one 45.00 order
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "50"})
	itemID := h.seed.MenuItem(h.seed.Chef(), "36.36")
	cmd, err := commands.NewPlaceOrderCommand(customerID, []commands.CartLine{{ItemID: itemID, Quantity: 1}})
	require.NoError(t, err)

	// When
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = h.placeOrder.Handle(t.Context(), cmd)
		}(i)
	}
	wg.Wait()

	// Then
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ledgertx.ErrInsufficientBalance)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("5.00")))
	assert.EqualValues(t, 1, h.seed.Count(&orderrepo.OrderDTO{}, ""))
}

func TestNewPlaceOrderCommand_Validation(t *testing.T) {
	itemID := kernel.NewUUID()

	_, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewPlaceOrderCommand(kernel.NewUUID(), []commands.CartLine{{ItemID: itemID, Quantity: 0}})
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewPlaceOrderCommand(kernel.UUID{}, []commands.CartLine{{ItemID: itemID, Quantity: 1}})
	require.Error(t, err)

	var zero commands.PlaceOrderCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
}
