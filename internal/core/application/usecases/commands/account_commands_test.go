package commands_test

import (
	"errors"
	"testing"

	"auctiondelivery/internal/adapters/out/postgres/accountrepo"
	"auctiondelivery/internal/adapters/out/postgres/feedbackrepo"
	"auctiondelivery/internal/adapters/out/postgres/ledgerrepo"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
	ledgertx "auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDeposit_CreditsBalance(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "5"})
	cmd, err := commands.NewAddDepositCommand(customerID, kernel.MustMoney("25.50"))
	require.NoError(t, err)

	// When
	err = h.deposit.Handle(t.Context(), cmd)

	// Then
	require.NoError(t, err)
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("30.50")))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ? AND amount_cents = ?",
		string(ledgertx.KindDeposit), string(ledgertx.StatusSuccess), 2550))
	assert.Contains(t, h.notifier.To(customerID), "deposit_received")
}

func TestAddDeposit_GatewayFailureRecordsFailedTransaction(t *testing.T) {
	// Given
	h := newHarness(t)
	h.gateway.chargeErr = errors.New("card declined")
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "5"})
	cmd, err := commands.NewAddDepositCommand(customerID, kernel.MustMoney("25"))
	require.NoError(t, err)

	// When
	err = h.deposit.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, errs.ErrExternalFailure)
	assert.True(t, h.seed.Balance(customerID).Equal(kernel.MustMoney("5")))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ?",
		string(ledgertx.KindDeposit), string(ledgertx.StatusFailed)))
	assert.Empty(t, h.notifier.To(customerID))
}

func TestAddDeposit_LostSettlementLeavesPendingDeposit(t *testing.T) {
	// Given a charge that goes through while the customer row disappears
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "5"})
	h.gateway.onCharge = func() {
		require.NoError(t, h.db.Where("id = ?", customerID.Bytes()).Delete(&accountrepo.CustomerDTO{}).Error)
	}
	cmd, err := commands.NewAddDepositCommand(customerID, kernel.MustMoney("25.50"))
	require.NoError(t, err)

	// When
	err = h.deposit.Handle(t.Context(), cmd)

	// Then the caller sees the failure and the charge stays on record as pending
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Len(t, h.gateway.charges, 1)
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ? AND amount_cents = ?",
		string(ledgertx.KindDeposit), string(ledgertx.StatusPending), 2550))
	assert.Zero(t, h.seed.Count(&ledgerrepo.TransactionDTO{}, "status = ?", string(ledgertx.StatusSuccess)))
	assert.Empty(t, h.notifier.To(customerID))
}

func TestAddDeposit_BelowMinimum(t *testing.T) {
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{})
	cmd, err := commands.NewAddDepositCommand(customerID, kernel.MustMoney("9.99"))
	require.NoError(t, err)

	err = h.deposit.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Empty(t, h.gateway.charges)
	assert.Zero(t, h.seed.Count(&ledgerrepo.TransactionDTO{}, ""))
}

func TestAddDeposit_OnlyForCustomers(t *testing.T) {
	h := newHarness(t)
	cmd, err := commands.NewAddDepositCommand(h.seed.Chef(), kernel.MustMoney("20"))
	require.NoError(t, err)

	err = h.deposit.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Empty(t, h.gateway.charges)
}

func TestCloseCustomerAccount_RefundsBalance(t *testing.T) {
	// Given
	h := newHarness(t)
	manager := h.seed.Manager()
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "42"})
	cmd, err := commands.NewCloseCustomerAccountCommand(manager, customerID)
	require.NoError(t, err)

	// When
	refunded, err := h.closeAccount.Handle(t.Context(), cmd)

	// Then
	require.NoError(t, err)
	assert.True(t, refunded.Equal(kernel.MustMoney("42")))
	assert.True(t, h.seed.Balance(customerID).IsZero())
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ? AND is_blacklisted = ?",
		customerID.Bytes(), int(account.Closed), false))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ?",
		string(ledgertx.KindRefund), string(ledgertx.StatusSuccess)))
	assert.Contains(t, h.notifier.To(customerID), "account_closed")

	// And closing twice is a conflict
	_, err = h.closeAccount.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Len(t, h.gateway.refunds, 1)
}

func TestCloseCustomerAccount_RefundFailureLeavesRefundPending(t *testing.T) {
	// Given
	h := newHarness(t)
	h.gateway.refundErr = errors.New("gateway down")
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "42"})
	cmd, err := commands.NewCloseCustomerAccountCommand(h.seed.Manager(), customerID)
	require.NoError(t, err)

	// When
	refunded, err := h.closeAccount.Handle(t.Context(), cmd)

	// Then the account is closed and the balance is owed through a pending refund
	require.NoError(t, err)
	assert.True(t, refunded.Equal(kernel.MustMoney("42")))
	assert.True(t, h.seed.Balance(customerID).IsZero())
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ?", customerID.Bytes(), int(account.Closed)))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ? AND amount_cents = ?",
		string(ledgertx.KindRefund), string(ledgertx.StatusPending), 4200))
	assert.Empty(t, h.gateway.refunds)
}

func TestCheckVIPUpgrade(t *testing.T) {
	tests := []struct {
		name     string
		opts     testdb.CustomerOpts
		complain bool
		want     bool
	}{
		{name: "loyal customer", opts: testdb.CustomerOpts{TotalOrders: 3, TotalSpent: "60"}, want: true},
		{name: "big spender", opts: testdb.CustomerOpts{TotalOrders: 1, TotalSpent: "100.01", Warnings: 1}, want: true},
		{name: "loyal but warned", opts: testdb.CustomerOpts{TotalOrders: 3, TotalSpent: "60", Warnings: 1}, want: false},
		{name: "pending complaint", opts: testdb.CustomerOpts{TotalOrders: 5, TotalSpent: "300"}, complain: true, want: false},
		{name: "already vip", opts: testdb.CustomerOpts{TotalOrders: 5, TotalSpent: "300", VIP: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			customerID := h.seed.Customer(tt.opts)
			if tt.complain {
				h.fileComplaint(h.seed.Chef(), customerID)
			}
			cmd, err := commands.NewCheckVIPUpgradeCommand(customerID)
			require.NoError(t, err)

			upgraded, err := h.vip.Handle(t.Context(), cmd)

			require.NoError(t, err)
			assert.Equal(t, tt.want, upgraded)
			if tt.want {
				assert.EqualValues(t, 1, h.seed.Count(&accountrepo.CustomerDTO{}, "id = ? AND is_vip = ?", customerID.Bytes(), true))
				assert.Contains(t, h.notifier.To(customerID), "vip_granted")
			}
		})
	}
}

func TestSubmitOrderRating_WeightsVIPAndRejectsSecondRating(t *testing.T) {
	// Given a VIP customer with a delivered order
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "100", VIP: true})
	chefID := h.seed.Chef()
	worker := h.seed.Delivery()
	orderID := h.deliveredOrder(customerID, h.seed.MenuItem(chefID, "10.00"), worker)
	cmd, err := commands.NewSubmitOrderRatingCommand(customerID, orderID, 4, 2, "soup was cold")
	require.NoError(t, err)

	// When
	require.NoError(t, h.rateOrder.Handle(t.Context(), cmd))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.RatingDTO{}, "order_id = ? AND weight = 2", orderID.Bytes()))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.EmployeeDTO{}, "id = ? AND avg_rating = 4 AND rating_count = 1", chefID.Bytes()))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.EmployeeDTO{}, "id = ? AND avg_rating = 2 AND rating_count = 1", worker.Bytes()))

	// When rating again
	err = h.rateOrder.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, commands.ErrAlreadyRated)
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.RatingDTO{}, ""))
}

func TestSubmitOrderRating_RequiresDeliveredOwnOrder(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, customerID := h.awaitingOrder()
	stranger := h.seed.Customer(testdb.CustomerOpts{})

	// When the order is not delivered yet
	cmd, err := commands.NewSubmitOrderRatingCommand(customerID, orderID, 5, 5, "")
	require.NoError(t, err)
	require.ErrorIs(t, h.rateOrder.Handle(t.Context(), cmd), errs.ErrStateConflict)

	// When someone else rates it
	cmd, err = commands.NewSubmitOrderRatingCommand(stranger, orderID, 5, 5, "")
	require.NoError(t, err)
	require.ErrorIs(t, h.rateOrder.Handle(t.Context(), cmd), errs.ErrPermissionDenied)
}

func TestNewSubmitOrderRatingCommand_ScoreRange(t *testing.T) {
	_, err := commands.NewSubmitOrderRatingCommand(kernel.NewUUID(), kernel.NewUUID(), 0, 3, "")
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewSubmitOrderRatingCommand(kernel.NewUUID(), kernel.NewUUID(), 3, 6, "")
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestRateAnswer_ZeroDeactivatesEntry(t *testing.T) {
	// Given an entry with good ratings
	h := newHarness(t)
	entryID := h.seed.KnowledgeEntry("Do you deliver after midnight?")
	rate := func(userID kernel.UUID, value int) {
		cmd, err := commands.NewRateAnswerCommand(userID, entryID, value)
		require.NoError(t, err)
		_, err = h.rateAnswer.Handle(t.Context(), cmd)
		require.NoError(t, err)
	}
	rate(h.seed.Customer(testdb.CustomerOpts{VIP: true}), 5)
	rate(h.seed.Customer(testdb.CustomerOpts{}), 5)

	// When
	cmd, err := commands.NewRateAnswerCommand(h.seed.Customer(testdb.CustomerOpts{}), entryID, 0)
	require.NoError(t, err)
	entry, err := h.rateAnswer.Handle(t.Context(), cmd)

	// Then
	require.NoError(t, err)
	assert.False(t, entry.IsActive)
	assert.Equal(t, 1, entry.FlagCount)
	assert.InDelta(t, 3.75, entry.AvgRating, 0.001)
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.KnowledgeEntryDTO{}, "id = ? AND is_active = ?", entryID.Bytes(), false))
}

func TestNewRateAnswerCommand_Range(t *testing.T) {
	_, err := commands.NewRateAnswerCommand(kernel.NewUUID(), kernel.NewUUID(), 6)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
