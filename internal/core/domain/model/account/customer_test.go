package account_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_NextOrderHasFreeDelivery(t *testing.T) {
	testCases := []struct {
		name        string
		vip         bool
		totalOrders int
		expected    bool
	}{
		{"vip_third_order", true, 2, true},
		{"vip_sixth_order", true, 5, true},
		{"vip_fourth_order", true, 3, false},
		{"regular_third_order", false, 2, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := account.RestoreCustomer(kernel.NewUUID(), kernel.ZeroMoney(), tc.totalOrders, kernel.ZeroMoney(), tc.vip, nil)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, c.NextOrderHasFreeDelivery())
		})
	}
}

func TestCustomer_VIP(t *testing.T) {
	c, err := account.NewCustomer(kernel.NewUUID())
	require.NoError(t, err)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	c.GrantVIP(at)
	c.GrantVIP(at.Add(time.Hour))

	assert.True(t, c.IsVIP())
	require.NotNil(t, c.VIPActivatedAt())
	assert.Equal(t, at, *c.VIPActivatedAt())

	c.RevokeVIP()
	assert.False(t, c.IsVIP())
	assert.Nil(t, c.VIPActivatedAt())
}

func TestRestoreCustomer_RejectsNegativeBalance(t *testing.T) {
	_, err := account.RestoreCustomer(kernel.NewUUID(), kernel.MustMoney("-0.01"), 0, kernel.ZeroMoney(), false, nil)

	require.Error(t, err)
}
