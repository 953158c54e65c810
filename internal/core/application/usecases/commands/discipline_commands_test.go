package commands_test

import (
	"errors"
	"testing"
	"time"

	"auctiondelivery/internal/adapters/out/postgres/accountrepo"
	"auctiondelivery/internal/adapters/out/postgres/feedbackrepo"
	"auctiondelivery/internal/adapters/out/postgres/inboxrepo"
	"auctiondelivery/internal/adapters/out/postgres/ledgerrepo"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	ledgertx "auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) warn(managerID, userID kernel.UUID, reason string) error {
	h.t.Helper()
	cmd, err := commands.NewAddWarningCommand(managerID, userID, reason)
	require.NoError(h.t, err)
	return h.addWarning.Handle(h.t.Context(), cmd)
}

func (h *harness) fileComplaint(fromID, againstID kernel.UUID) kernel.UUID {
	h.t.Helper()
	cmd, err := commands.NewFileComplaintCommand(fromID, againstID, "delivery", "late", "two hours late", nil)
	require.NoError(h.t, err)
	id, err := h.complaint.Handle(h.t.Context(), cmd)
	require.NoError(h.t, err)
	return id
}

func (h *harness) demoteOrBonus(managerID, employeeID kernel.UUID, action string) error {
	h.t.Helper()
	cmd, err := commands.NewApplyDemotionOrBonusCommand(managerID, employeeID, action, "quarterly review")
	require.NoError(h.t, err)
	return h.performance.Handle(h.t.Context(), cmd)
}

func TestAddWarning_ThirdWarningTerminatesCustomer(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "30", Warnings: 2})

	// When
	require.NoError(t, h.warn(h.seed.Manager(), customerID, "abusive language"))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ? AND is_blacklisted = ? AND warning_count = 3",
		customerID.Bytes(), int(account.Terminated), true))
	assert.True(t, h.seed.Balance(customerID).IsZero())
	require.Len(t, h.gateway.refunds, 1)
	assert.True(t, h.gateway.refunds[0].Equal(kernel.MustMoney("30")))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ? AND amount_cents = ?",
		string(ledgertx.KindRefund), string(ledgertx.StatusSuccess), 3000))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.BlacklistEntryDTO{}, ""))
	assert.Contains(t, h.notifier.To(customerID), "account_terminated")
	assert.Contains(t, h.notifier.To(customerID), "balance_refunded")
}

func TestAddWarning_RefundFailureLeavesRefundPending(t *testing.T) {
	// Given a gateway that refuses every refund
	h := newHarness(t)
	h.gateway.refundErr = errors.New("gateway down")
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "30", Warnings: 2})

	// When
	err := h.warn(h.seed.Manager(), customerID, "abusive language")

	// Then the termination stands and the money waits in a pending refund
	require.NoError(t, err)
	assert.True(t, h.seed.Balance(customerID).IsZero())
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ?",
		customerID.Bytes(), int(account.Terminated)))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ? AND amount_cents = ?",
		string(ledgertx.KindRefund), string(ledgertx.StatusPending), 3000))
	assert.Empty(t, h.gateway.refunds)
	assert.NotContains(t, h.notifier.To(customerID), "balance_refunded")

	// And once the gateway is back the retry pays it exactly once
	h.gateway.refundErr = nil
	h.clock.Advance(10 * time.Minute)
	paid, err := h.ledger.RetryPendingRefunds(t.Context(), h.uow.Create(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, paid)
	require.Len(t, h.gateway.refunds, 1)
	assert.True(t, h.gateway.refunds[0].Equal(kernel.MustMoney("30")))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ? AND status = ?",
		string(ledgertx.KindRefund), string(ledgertx.StatusSuccess)))

	paid, err = h.ledger.RetryPendingRefunds(t.Context(), h.uow.Create(), 10)
	require.NoError(t, err)
	assert.Zero(t, paid)
	assert.Len(t, h.gateway.refunds, 1)
}

func TestAddWarning_TerminatingCustomerWithoutContactRefundsOnce(t *testing.T) {
	// Given a customer with money, two warnings and neither email nor phone
	h := newHarness(t)
	manager := h.seed.Manager()
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "30", Warnings: 2, NoContact: true})

	// When the third warning arrives, and then another one
	require.NoError(t, h.warn(manager, customerID, "abusive language"))
	require.NoError(t, h.warn(manager, customerID, "abusive language again"))

	// Then the customer is terminated with nothing to blacklist and was refunded once
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ?",
		customerID.Bytes(), int(account.Terminated)))
	assert.True(t, h.seed.Balance(customerID).IsZero())
	require.Len(t, h.gateway.refunds, 1)
	assert.True(t, h.gateway.refunds[0].Equal(kernel.MustMoney("30")))
	assert.EqualValues(t, 1, h.seed.Count(&ledgerrepo.TransactionDTO{}, "kind = ?", string(ledgertx.KindRefund)))
	assert.Zero(t, h.seed.Count(&accountrepo.BlacklistEntryDTO{}, ""))
}

func TestAddWarning_SecondWarningRevokesVIP(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "30", VIP: true, Warnings: 1})

	// When
	require.NoError(t, h.warn(h.seed.Manager(), customerID, "late payment"))

	// Then the VIP status is lost and the counter starts over
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.CustomerDTO{}, "id = ? AND is_vip = ?", customerID.Bytes(), false))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ? AND warning_count = 0",
		customerID.Bytes(), int(account.Active)))
	assert.Empty(t, h.gateway.refunds)
}

func TestAddWarning_ThirdWarningFiresEmployee(t *testing.T) {
	// Given
	h := newHarness(t)
	chefID := h.seed.EmployeeWithWarnings(account.RoleChef, 2)

	// When
	require.NoError(t, h.warn(h.seed.Manager(), chefID, "hygiene"))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.EmployeeDTO{}, "id = ? AND employment_status = ?",
		chefID.Bytes(), int(account.Fired)))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND status = ? AND is_blacklisted = ?",
		chefID.Bytes(), int(account.Terminated), false))
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.MemoDTO{}, "memo_type = ?", string(feedback.MemoTermination)))
	assert.Contains(t, h.notifier.To(chefID), "employment_terminated")
}

func TestAddWarning_RequiresManager(t *testing.T) {
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{})

	err := h.warn(h.seed.Chef(), customerID, "rude")

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Zero(t, h.seed.Count(&accountrepo.WarningDTO{}, ""))
}

func TestResolveComplaint_CriticalUpholdWarnsAndSuspends(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{})
	worker := h.seed.Delivery()
	complaintID := h.fileComplaint(customerID, worker)
	assert.Contains(t, h.notifier.Events(), "complaint_filed")

	// When
	cmd, err := commands.NewResolveComplaintCommand(h.seed.Manager(), complaintID, "uphold", "confirmed by GPS log", true)
	require.NoError(t, err)
	require.NoError(t, h.resolve.Handle(t.Context(), cmd))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.ComplaintDTO{}, "id = ? AND status = ?",
		complaintID.Bytes(), string(feedback.ComplaintUpheld)))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.WarningDTO{}, "user_id = ? AND source = ?",
		worker.Bytes(), string(account.WarningFromComplaint)))
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.UserDTO{}, "id = ? AND suspended = ?", worker.Bytes(), true))
	assert.Contains(t, h.notifier.To(customerID), "complaint_resolved")

	// And a second resolution is refused
	again, err := commands.NewResolveComplaintCommand(h.seed.Manager(), complaintID, "dismiss", "", false)
	require.NoError(t, err)
	require.ErrorIs(t, h.resolve.Handle(t.Context(), again), errs.ErrStateConflict)
}

func TestResolveComplaint_DismissIssuesNoWarning(t *testing.T) {
	// Given
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{})
	chefID := h.seed.Chef()
	complaintID := h.fileComplaint(customerID, chefID)

	// When
	cmd, err := commands.NewResolveComplaintCommand(h.seed.Manager(), complaintID, "DISMISS", "unfounded", false)
	require.NoError(t, err)
	require.NoError(t, h.resolve.Handle(t.Context(), cmd))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.ComplaintDTO{}, "status = ?", string(feedback.ComplaintDismissed)))
	assert.Zero(t, h.seed.Count(&accountrepo.WarningDTO{}, ""))
}

func TestNewResolveComplaintCommand_UnknownDecision(t *testing.T) {
	_, err := commands.NewResolveComplaintCommand(kernel.NewUUID(), kernel.NewUUID(), "maybe", "", false)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestApplyDemotionOrBonus_SecondDemotionFires(t *testing.T) {
	// Given
	h := newHarness(t)
	manager := h.seed.Manager()
	chefID := h.seed.Chef()

	// When
	require.NoError(t, h.demoteOrBonus(manager, chefID, "demote"))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.EmployeeDTO{}, "id = ? AND employment_status = ? AND salary_cents = ? AND demotion_count = 1",
		chefID.Bytes(), int(account.Demoted), 240000))
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.MemoDTO{}, "memo_type = ?", string(feedback.MemoPerformanceDemote)))

	// When
	require.NoError(t, h.demoteOrBonus(manager, chefID, "demote"))

	// Then
	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.EmployeeDTO{}, "id = ? AND employment_status = ? AND demotion_count = 2",
		chefID.Bytes(), int(account.Fired)))
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.MemoDTO{}, "memo_type = ?", string(feedback.MemoTermination)))

	// And a fired employee gets nothing more
	require.ErrorIs(t, h.demoteOrBonus(manager, chefID, "bonus"), account.ErrEmployeeFired)
}

func TestApplyDemotionOrBonus_BonusRaisesSalary(t *testing.T) {
	h := newHarness(t)
	deliveryID := h.seed.Delivery()

	require.NoError(t, h.demoteOrBonus(h.seed.Manager(), deliveryID, "BONUS"))

	assert.EqualValues(t, 1, h.seed.Count(&accountrepo.EmployeeDTO{}, "id = ? AND salary_cents = ?", deliveryID.Bytes(), 330000))
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.MemoDTO{}, "memo_type = ?", string(feedback.MemoPerformanceBonus)))
	assert.Contains(t, h.notifier.To(deliveryID), "performance_action")
}

func TestNewApplyDemotionOrBonusCommand_RequiresMemo(t *testing.T) {
	_, err := commands.NewApplyDemotionOrBonusCommand(kernel.NewUUID(), kernel.NewUUID(), "demote", " ")
	require.ErrorIs(t, err, feedback.ErrMemoRequired)
}

func TestEvaluateEmployee_SkipsWithoutRatings(t *testing.T) {
	h := newHarness(t)
	cmd, err := commands.NewEvaluateEmployeeCommand(h.seed.Chef())
	require.NoError(t, err)

	ev, err := h.evaluate.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.True(t, ev.Skipped)
	assert.Zero(t, h.seed.Count(&inboxrepo.MessageDTO{}, ""))
}

func TestEvaluateEmployee_LowRatingRecommendsDemotion(t *testing.T) {
	// Given a worker rated 1/1 on their only delivery
	h := newHarness(t)
	worker := h.seed.Delivery()
	customerID := h.seed.Customer(testdb.CustomerOpts{Balance: "100"})
	orderID := h.deliveredOrder(customerID, h.seed.MenuItem(h.seed.Chef(), "10.00"), worker)
	rate, err := commands.NewSubmitOrderRatingCommand(customerID, orderID, 1, 1, "")
	require.NoError(t, err)
	require.NoError(t, h.rateOrder.Handle(t.Context(), rate))

	// When
	cmd, err := commands.NewEvaluateEmployeeCommand(worker)
	require.NoError(t, err)
	ev, err := h.evaluate.Handle(t.Context(), cmd)

	// Then
	require.NoError(t, err)
	assert.True(t, ev.Demote)
	assert.False(t, ev.Bonus)
	assert.InDelta(t, 1.0, ev.Average, 0.001)
	assert.Positive(t, h.seed.Count(&inboxrepo.MessageDTO{}, "kind = ? AND subject_id = ?",
		string(ports.InboxRecommendation), worker.Bytes()))
	assert.Contains(t, h.notifier.Events(), "employee_recommendation")
}

func TestFileCompliment_RejectsSelfCompliment(t *testing.T) {
	h := newHarness(t)
	chefID := h.seed.Chef()
	cmd, err := commands.NewFileComplimentCommand(chefID, chefID, "great", nil)
	require.NoError(t, err)

	_, err = h.compliment.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestFileCompliment_NotifiesRecipient(t *testing.T) {
	h := newHarness(t)
	customerID := h.seed.Customer(testdb.CustomerOpts{})
	chefID := h.seed.Chef()
	cmd, err := commands.NewFileComplimentCommand(customerID, chefID, "best soup in town", nil)
	require.NoError(t, err)

	_, err = h.compliment.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.ComplimentDTO{}, ""))
	assert.Contains(t, h.notifier.To(chefID), "compliment_received")
}

func TestFileComplaint_UnknownAccused(t *testing.T) {
	h := newHarness(t)
	cmd, err := commands.NewFileComplaintCommand(h.seed.Customer(testdb.CustomerOpts{}), kernel.NewUUID(), "chef", "cold", "", nil)
	require.NoError(t, err)

	_, err = h.complaint.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
