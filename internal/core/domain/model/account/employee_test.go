package account_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployee_DemoteAndBonus(t *testing.T) {
	// Given
	e, err := account.NewEmployee(kernel.NewUUID(), account.RoleDelivery, kernel.MustMoney("1000"))
	require.NoError(t, err)

	// When
	limit, err := e.Demote()

	// Then
	require.NoError(t, err)
	assert.False(t, limit)
	assert.Equal(t, account.Demoted, e.Status())
	assert.Equal(t, "800.00", e.Salary().String())

	require.NoError(t, e.Bonus())
	assert.Equal(t, "880.00", e.Salary().String())

	limit, err = e.Demote()
	require.NoError(t, err)
	assert.True(t, limit, "second demotion reaches the limit")
	assert.Equal(t, 2, e.DemotionCount())
}

func TestEmployee_FiredCannotBeDemoted(t *testing.T) {
	e, err := account.NewEmployee(kernel.NewUUID(), account.RoleChef, kernel.MustMoney("500"))
	require.NoError(t, err)

	e.Fire()

	_, err = e.Demote()
	assert.ErrorIs(t, err, account.ErrEmployeeFired)
	assert.ErrorIs(t, e.Bonus(), account.ErrEmployeeFired)
}

func TestEmployee_UpdateRatingStats(t *testing.T) {
	e, err := account.NewEmployee(kernel.NewUUID(), account.RoleChef, kernel.MustMoney("500"))
	require.NoError(t, err)
	at := time.Now()

	e.UpdateRatingStats(4.25, 8, at)

	assert.InDelta(t, 4.25, e.AvgRating(), 1e-9)
	assert.Equal(t, 8, e.RatingCount())
}

func TestNewEmployee_RejectsNonStaffRoles(t *testing.T) {
	_, err := account.NewEmployee(kernel.NewUUID(), account.RoleManager, kernel.MustMoney("1"))

	require.Error(t, err)
}

func TestNewWarning(t *testing.T) {
	at := time.Now()

	w, err := account.NewWarning(kernel.NewUUID(), account.WarningFromOrder, "Insufficient balance", at)
	require.NoError(t, err)
	assert.Equal(t, account.WarningFromOrder, w.Source)

	_, err = account.NewWarning(kernel.NewUUID(), "CHAT", "spam", at)
	require.Error(t, err)

	_, err = account.NewWarning(kernel.NewUUID(), account.WarningFromManager, " ", at)
	require.Error(t, err)
}

func TestNewBlacklistEntry(t *testing.T) {
	e, err := account.NewBlacklistEntry(" Dana@Example.com ", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", e.Email)

	_, err = account.NewBlacklistEntry("", "", time.Now())
	require.Error(t, err)
}
