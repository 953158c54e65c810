// Package discipline runs the discipline cascade. A triggering command hands the engine
// its initial effects; the engine applies them one at a time from a FIFO queue, and each
// applied effect may enqueue follow-ups (a warning may revoke VIP or terminate, a
// termination refunds and blacklists). The whole cascade runs inside the caller's unit of
// work, so a failing step rolls back everything. Refunds are only reserved during the
// cascade; PayRefunds sends them to the gateway once the caller has committed.
package discipline

import (
	"context"
	"fmt"
	"log/slog"

	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/domain/model/account"
	effects "auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/metrics"
)

// maxSteps bounds a cascade; real cascades are a handful of steps long.
const maxSteps = 64

// Workspace is the part of a unit of work the cascade touches.
type Workspace interface {
	ledger.Books
	UserRepository() ports.UserRepository
	CustomerRepository() ports.CustomerRepository
	EmployeeRepository() ports.EmployeeRepository
	WarningRepository() ports.WarningRepository
	BlacklistRepository() ports.BlacklistRepository
	MemoRepository() ports.MemoRepository
	ManagerInbox() ports.ManagerInbox
}

// Outcome is the audit trail of a cascade plus what the caller owes the outside world once
// it has committed: notifications, and refunds reserved but not yet paid.
type Outcome struct {
	Applied       []effects.Effect
	Notifications []ports.Notification
	Refunds       []ledger.Refund
}

type Engine struct {
	ledger  *ledger.Ledger
	clock   ports.Clock
	logger  *slog.Logger
	metrics *metrics.DomainMetrics
}

func NewEngine(l *ledger.Ledger, clock ports.Clock, logger *slog.Logger, m *metrics.DomainMetrics) (*Engine, error) {
	if l == nil {
		return nil, errs.NewValueIsRequiredError("ledger")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ledger:  l,
		clock:   clock,
		logger:  logger.With("component", "discipline"),
		metrics: m,
	}, nil
}

// Run drains the effect queue. It stops at the first failing effect and returns its error.
func (e *Engine) Run(ctx context.Context, ws Workspace, initial ...effects.Effect) (Outcome, error) {
	var out Outcome
	queue := append([]effects.Effect(nil), initial...)

	for len(queue) > 0 {
		if len(out.Applied) >= maxSteps {
			return out, fmt.Errorf("discipline cascade exceeded %d steps", maxSteps)
		}
		next := queue[0]
		queue = queue[1:]

		followUps, notes, err := e.apply(ctx, ws, next, &out)
		if err != nil {
			e.logger.ErrorContext(ctx, "discipline effect failed", "effect", next.String(), "error", err)
			return out, err
		}
		e.logger.InfoContext(ctx, "discipline effect applied", "effect", next.String())
		e.metrics.EffectApplied(effectName(next))

		out.Applied = append(out.Applied, next)
		out.Notifications = append(out.Notifications, notes...)
		queue = append(queue, followUps...)
	}
	return out, nil
}

// PayRefunds pays the refunds of a committed cascade and returns the notifications for
// the ones that went through. Refunds the gateway keeps refusing stay PENDING for the
// retry job.
func (e *Engine) PayRefunds(ctx context.Context, books ledger.Books, refunds []ledger.Refund) []ports.Notification {
	var notes []ports.Notification
	for _, refund := range refunds {
		if err := e.ledger.PayRefund(ctx, books, refund); err != nil {
			e.logger.ErrorContext(ctx, "refund not paid",
				"customer_id", refund.CustomerID.String(), "amount", refund.Amount.String(), "error", err)
			continue
		}
		notes = append(notes, userNotification(refund.CustomerID, "balance_refunded", map[string]any{
			"amount": refund.Amount.String(),
		}))
	}
	return notes
}

func (e *Engine) apply(
	ctx context.Context,
	ws Workspace,
	effect effects.Effect,
	out *Outcome,
) ([]effects.Effect, []ports.Notification, error) {
	switch eff := effect.(type) {
	case effects.IssueWarning:
		return e.issueWarning(ctx, ws, eff)
	case effects.RevokeVIP:
		return e.revokeVIP(ctx, ws, eff)
	case effects.TerminateCustomer:
		return e.terminateCustomer(ctx, ws, eff)
	case effects.RefundBalance:
		return e.refundBalance(ctx, ws, eff, out)
	case effects.BlacklistContact:
		return e.blacklistContact(ctx, ws, eff)
	case effects.FireEmployee:
		return e.fireEmployee(ctx, ws, eff)
	case effects.SuspendUser:
		return e.suspendUser(ctx, ws, eff)
	case effects.RecommendAction:
		return e.recommend(ctx, ws, eff)
	default:
		return nil, nil, fmt.Errorf("unknown discipline effect %T", effect)
	}
}

func (e *Engine) issueWarning(
	ctx context.Context,
	ws Workspace,
	eff effects.IssueWarning,
) ([]effects.Effect, []ports.Notification, error) {
	user, err := ws.UserRepository().GetForUpdate(ctx, eff.UserID)
	if err != nil {
		return nil, nil, err
	}
	warning, err := account.NewWarning(user.ID(), eff.Source, eff.Reason, e.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err = ws.WarningRepository().Add(ctx, warning); err != nil {
		return nil, nil, err
	}
	count := user.AddWarning()
	if err = ws.UserRepository().Update(ctx, user); err != nil {
		return nil, nil, err
	}
	e.metrics.WarningIssued(string(eff.Source))

	subject, err := e.loadSubject(ctx, ws, user)
	if err != nil {
		return nil, nil, err
	}
	note := userNotification(user.ID(), "warning_issued", map[string]any{
		"source":        string(eff.Source),
		"reason":        eff.Reason,
		"warning_count": count,
	})
	return effects.AfterWarning(subject), []ports.Notification{note}, nil
}

// loadSubject builds the role-tagged view the warning rules dispatch on.
func (e *Engine) loadSubject(ctx context.Context, ws Workspace, user *account.User) (effects.Subject, error) {
	switch {
	case user.Role() == account.RoleCustomer:
		customer, err := ws.CustomerRepository().Get(ctx, user.ID())
		if err != nil {
			return nil, err
		}
		return effects.CustomerSubject{Account: user, Customer: customer}, nil
	case user.Role().IsEmployee():
		employee, err := ws.EmployeeRepository().Get(ctx, user.ID())
		if err != nil {
			return nil, err
		}
		return effects.EmployeeSubject{Account: user, Employee: employee}, nil
	default:
		return effects.StaffSubject{Account: user}, nil
	}
}

func (e *Engine) revokeVIP(
	ctx context.Context,
	ws Workspace,
	eff effects.RevokeVIP,
) ([]effects.Effect, []ports.Notification, error) {
	customer, err := ws.CustomerRepository().Get(ctx, eff.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	customer.RevokeVIP()
	if err = ws.CustomerRepository().UpdateVIP(ctx, customer); err != nil {
		return nil, nil, err
	}

	user, err := ws.UserRepository().GetForUpdate(ctx, eff.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	user.ResetWarnings()
	if err = ws.UserRepository().Update(ctx, user); err != nil {
		return nil, nil, err
	}
	return nil, []ports.Notification{userNotification(user.ID(), "vip_revoked", nil)}, nil
}

func (e *Engine) terminateCustomer(
	ctx context.Context,
	ws Workspace,
	eff effects.TerminateCustomer,
) ([]effects.Effect, []ports.Notification, error) {
	user, err := ws.UserRepository().GetForUpdate(ctx, eff.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if user.Status() == account.Terminated {
		return nil, nil, nil
	}
	user.Terminate(true)
	if err = ws.UserRepository().Update(ctx, user); err != nil {
		return nil, nil, err
	}
	return effects.Termination(user), []ports.Notification{userNotification(user.ID(), "account_terminated", nil)}, nil
}

func (e *Engine) refundBalance(
	ctx context.Context,
	ws Workspace,
	eff effects.RefundBalance,
	out *Outcome,
) ([]effects.Effect, []ports.Notification, error) {
	refund, ok, err := e.ledger.ReserveRefund(ctx, ws, eff.CustomerID, eff.Reason)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		out.Refunds = append(out.Refunds, refund)
	}
	return nil, nil, nil
}

func (e *Engine) blacklistContact(
	ctx context.Context,
	ws Workspace,
	eff effects.BlacklistContact,
) ([]effects.Effect, []ports.Notification, error) {
	if eff.Email == "" && eff.Phone == "" {
		e.logger.WarnContext(ctx, "nothing to blacklist, account has no contact")
		return nil, nil, nil
	}
	entry, err := account.NewBlacklistEntry(eff.Email, eff.Phone, e.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if _, err = ws.BlacklistRepository().AddIfAbsent(ctx, entry); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (e *Engine) fireEmployee(
	ctx context.Context,
	ws Workspace,
	eff effects.FireEmployee,
) ([]effects.Effect, []ports.Notification, error) {
	employee, err := ws.EmployeeRepository().Get(ctx, eff.EmployeeID)
	if err != nil {
		return nil, nil, err
	}
	if employee.IsFired() {
		return nil, nil, nil
	}
	employee.Fire()
	if err = ws.EmployeeRepository().Update(ctx, employee); err != nil {
		return nil, nil, err
	}

	user, err := ws.UserRepository().GetForUpdate(ctx, eff.EmployeeID)
	if err != nil {
		return nil, nil, err
	}
	user.Terminate(false)
	if err = ws.UserRepository().Update(ctx, user); err != nil {
		return nil, nil, err
	}

	employeeID := employee.ID()
	memo, err := feedback.NewMemo(feedback.MemoTermination, eff.ManagerID, &employeeID, nil, eff.Reason, e.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if err = ws.MemoRepository().Add(ctx, memo); err != nil {
		return nil, nil, err
	}
	return nil, []ports.Notification{userNotification(employeeID, "employment_terminated", map[string]any{
		"reason": eff.Reason,
	})}, nil
}

func (e *Engine) suspendUser(
	ctx context.Context,
	ws Workspace,
	eff effects.SuspendUser,
) ([]effects.Effect, []ports.Notification, error) {
	user, err := ws.UserRepository().GetForUpdate(ctx, eff.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user.IsSuspended() {
		return nil, nil, nil
	}
	user.Suspend()
	if err = ws.UserRepository().Update(ctx, user); err != nil {
		return nil, nil, err
	}
	return nil, []ports.Notification{userNotification(user.ID(), "account_suspended", nil)}, nil
}

func (e *Engine) recommend(
	ctx context.Context,
	ws Workspace,
	eff effects.RecommendAction,
) ([]effects.Effect, []ports.Notification, error) {
	body := map[string]any{
		"employee_id": eff.EmployeeID.String(),
		"action":      string(eff.Action),
		"summary":     eff.Summary,
	}
	msg := ports.NewInboxMessage(ports.InboxRecommendation, eff.EmployeeID, body, e.clock.Now())
	if err := ws.ManagerInbox().Post(ctx, msg); err != nil {
		return nil, nil, err
	}
	return nil, []ports.Notification{{
		Audience: ports.AudienceManagers,
		Event:    "employee_recommendation",
		Payload:  body,
	}}, nil
}

func userNotification(userID kernel.UUID, event string, payload map[string]any) ports.Notification {
	return ports.Notification{
		Audience:    ports.AudienceUser,
		RecipientID: &userID,
		Event:       event,
		Payload:     payload,
	}
}

func effectName(effect effects.Effect) string {
	switch effect.(type) {
	case effects.IssueWarning:
		return "issue_warning"
	case effects.RevokeVIP:
		return "revoke_vip"
	case effects.TerminateCustomer:
		return "terminate_customer"
	case effects.RefundBalance:
		return "refund_balance"
	case effects.BlacklistContact:
		return "blacklist_contact"
	case effects.FireEmployee:
		return "fire_employee"
	case effects.SuspendUser:
		return "suspend_user"
	case effects.RecommendAction:
		return "recommend_action"
	default:
		return "unknown"
	}
}
