package discipline_test

import (
	"testing"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerSubject(t *testing.T, warnings int, vip bool) discipline.CustomerSubject {
	t.Helper()
	id := kernel.NewUUID()
	u, err := account.RestoreUser(id, "Ana", "ana@example.com", "+1555", account.RoleCustomer, account.Active, warnings, false, false)
	require.NoError(t, err)
	c, err := account.RestoreCustomer(id, kernel.ZeroMoney(), 0, kernel.ZeroMoney(), vip, nil)
	require.NoError(t, err)
	return discipline.CustomerSubject{Account: u, Customer: c}
}

func employeeSubject(t *testing.T, warnings int) discipline.EmployeeSubject {
	t.Helper()
	id := kernel.NewUUID()
	u, err := account.RestoreUser(id, "Bo", "bo@example.com", "+1556", account.RoleDelivery, account.Active, warnings, false, false)
	require.NoError(t, err)
	e, err := account.NewEmployee(id, account.RoleDelivery, kernel.MustMoney("900"))
	require.NoError(t, err)
	return discipline.EmployeeSubject{Account: u, Employee: e}
}

func TestAfterWarning_Customer(t *testing.T) {
	testCases := []struct {
		name     string
		warnings int
		vip      bool
		expected string
	}{
		{"regular_below_limit", 2, false, ""},
		{"regular_at_limit", 3, false, "terminate_customer"},
		{"vip_first_warning", 1, true, ""},
		{"vip_second_warning", 2, true, "revoke_vip"},
		{"vip_is_never_terminated_directly", 3, true, "revoke_vip"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			subject := customerSubject(t, tc.warnings, tc.vip)

			// When
			effects := discipline.AfterWarning(subject)

			// Then
			if tc.expected == "" {
				assert.Empty(t, effects)
				return
			}
			require.Len(t, effects, 1)
			assert.Contains(t, effects[0].String(), tc.expected)
		})
	}
}

func TestAfterWarning_Employee(t *testing.T) {
	assert.Empty(t, discipline.AfterWarning(employeeSubject(t, 2)))

	effects := discipline.AfterWarning(employeeSubject(t, 3))
	require.Len(t, effects, 1)
	fire, ok := effects[0].(discipline.FireEmployee)
	require.True(t, ok)
	assert.Nil(t, fire.ManagerID)
	assert.Equal(t, discipline.ReasonTooManyWarnings, fire.Reason)
}

func TestAfterWarning_Staff(t *testing.T) {
	u, err := account.NewUser(kernel.NewUUID(), "M", "m@example.com", "", account.RoleManager)
	require.NoError(t, err)
	u.AddWarning()
	u.AddWarning()
	u.AddWarning()

	assert.Empty(t, discipline.AfterWarning(discipline.StaffSubject{Account: u}))
}

func TestTermination_RefundsFirst(t *testing.T) {
	subject := customerSubject(t, 3, false)

	effects := discipline.Termination(subject.Account)

	require.Len(t, effects, 2)
	assert.IsType(t, discipline.RefundBalance{}, effects[0])
	assert.Equal(t, discipline.BlacklistContact{Email: "ana@example.com", Phone: "+1555"}, effects[1])
}

func TestParseAction(t *testing.T) {
	a, err := discipline.ParseAction(" demote ")
	require.NoError(t, err)
	assert.Equal(t, discipline.Demote, a)

	_, err = discipline.ParseAction("PROMOTE")
	require.Error(t, err)
}
