package auction_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func bid(t *testing.T, orderID kernel.UUID, amount string, at time.Time) *auction.Bid {
	t.Helper()
	b, err := auction.NewBid(kernel.NewUUID(), orderID, kernel.NewUUID(), kernel.MustMoney(amount), 15, at)
	require.NoError(t, err)
	return b
}

func TestNewBid(t *testing.T) {
	t.Run("valid_bid", func(t *testing.T) {
		b := bid(t, kernel.NewUUID(), "6.50", t0)

		require.NoError(t, b.Validate())
		assert.Equal(t, "6.50", b.Amount().String())
		assert.False(t, b.IsSelected())
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		_, err := auction.NewBid(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.MustMoney("0"), 10, t0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("eta_below_one_minute", func(t *testing.T) {
		_, err := auction.NewBid(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.MustMoney("5"), 0, t0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestBid_Select(t *testing.T) {
	b := bid(t, kernel.NewUUID(), "7", t0)

	require.NoError(t, b.Select())
	assert.True(t, b.IsSelected())
	assert.ErrorIs(t, b.Select(), auction.ErrBidAlreadySelected)
}

func TestRank(t *testing.T) {
	t.Run("sorts_by_amount_ascending", func(t *testing.T) {
		// Given
		orderID := kernel.NewUUID()
		bids := []*auction.Bid{
			bid(t, orderID, "8.00", t0),
			bid(t, orderID, "6.50", t0.Add(time.Second)),
			bid(t, orderID, "7.00", t0.Add(2*time.Second)),
		}

		// When
		ranked := auction.Rank(bids)

		// Then
		amounts := make([]string, 0, len(ranked))
		for _, b := range ranked {
			amounts = append(amounts, b.Amount().String())
		}
		assert.Equal(t, []string{"6.50", "7.00", "8.00"}, amounts)
		assert.Equal(t, "8.00", bids[0].Amount().String(), "input must not be reordered")
	})

	t.Run("ties_go_to_earliest_bid", func(t *testing.T) {
		orderID := kernel.NewUUID()
		late := bid(t, orderID, "5.00", t0.Add(time.Minute))
		early := bid(t, orderID, "5.00", t0)

		ranked := auction.Rank([]*auction.Bid{late, early})

		assert.Same(t, early, ranked[0])
	})
}

func TestLowest(t *testing.T) {
	_, ok := auction.Lowest(nil)
	assert.False(t, ok)

	orderID := kernel.NewUUID()
	lowest, ok := auction.Lowest([]*auction.Bid{bid(t, orderID, "8", t0), bid(t, orderID, "6.5", t0)})
	require.True(t, ok)
	assert.Equal(t, "6.50", lowest.String())
}
