package ledger_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	t.Run("rounds_amount_to_cents", func(t *testing.T) {
		tx, err := ledger.NewTransaction(ledger.CustomerAccount, kernel.NewUUID(), ledger.KindOrderDebit,
			kernel.MustMoney("44.999"), ledger.StatusSuccess, nil, "", time.Now())

		require.NoError(t, err)
		assert.Equal(t, "45.00", tx.Amount.String())
		assert.False(t, tx.Kind.IsCredit())
	})

	t.Run("rejects_zero_amount", func(t *testing.T) {
		_, err := ledger.NewTransaction(ledger.EmployeeAccount, kernel.NewUUID(), ledger.KindDeliveryCredit,
			kernel.ZeroMoney(), ledger.StatusSuccess, nil, "", time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestErrInsufficientBalance_IsResourceUnavailable(t *testing.T) {
	assert.ErrorIs(t, ledger.ErrInsufficientBalance, errs.ErrResourceUnavailable)
	assert.True(t, ledger.KindRefund.IsCredit())
}
