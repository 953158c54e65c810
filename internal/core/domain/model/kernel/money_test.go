package kernel_test

import (
	"testing"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	t.Run("parses_decimal_text", func(t *testing.T) {
		m, err := kernel.MoneyFromString("6.5")

		require.NoError(t, err)
		assert.Equal(t, "6.50", m.String())
		assert.Equal(t, int64(650), m.Cents())
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		_, err := kernel.MoneyFromString("six fifty")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	// Given
	subtotal := kernel.MustMoney("40.00")
	tax := decimal.RequireFromString("0.10")

	// When
	total := subtotal.Add(subtotal.Mul(tax)).Add(kernel.MustMoney("5"))

	// Then
	assert.Equal(t, "49.00", total.String())
	assert.True(t, total.GreaterThan(subtotal))
	assert.True(t, subtotal.Sub(total).IsNegative())
	assert.True(t, kernel.MustMoney("2.5").MulInt(2).Equal(kernel.MustMoney("5")))
}

func TestMoney_Rounding(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
		cents    int64
	}{
		{"1.005", "1.01", 101},
		{"1.004", "1.00", 100},
		{"-1.005", "-1.01", -101},
		{"45", "45.00", 4500},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			m := kernel.MustMoney(tc.in)

			assert.Equal(t, tc.expected, m.Round2().String())
			assert.Equal(t, tc.cents, m.Cents())
		})
	}
}

func TestMoneyFromCents(t *testing.T) {
	m := kernel.MoneyFromCents(4500)

	assert.Equal(t, "45.00", m.String())
	assert.True(t, m.IsPositive())
	assert.True(t, kernel.ZeroMoney().IsZero())
	assert.True(t, kernel.MoneyFromDecimal(decimal.NewFromInt(45)).Equal(m))
}
