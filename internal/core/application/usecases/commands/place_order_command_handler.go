package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/domain/model/account"
	effects "auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/domain/model/kernel"
	ledgertx "auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/metrics"
)

// PlaceOrderCommandHandler places an order: the balance debit and the order rows are
// written in one transaction, customer aggregates are updated afterwards, and the order
// then goes straight into its delivery auction.
//
// A customer who cannot afford the order gets a warning with source ORDER. That warning
// is written in its own transaction since the order transaction is rolled back.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.Catalog
	calculator services.PriceCalculator
	ledger     *ledger.Ledger
	discipline *discipline.Engine
	vip        *CheckVIPUpgradeCommandHandler
	bidding    *OpenBiddingCommandHandler
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
	metrics    *metrics.DomainMetrics
}

func NewPlaceOrderCommandHandler(
	uowFactory UoWFactory,
	catalog ports.Catalog,
	calculator services.PriceCalculator,
	l *ledger.Ledger,
	engine *discipline.Engine,
	vip *CheckVIPUpgradeCommandHandler,
	bidding *OpenBiddingCommandHandler,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
	m *metrics.DomainMetrics,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		calculator: calculator,
		ledger:     l,
		discipline: engine,
		vip:        vip,
		bidding:    bidding,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		metrics:    m,
	}
}

// Handle returns the id of the new order. Everything after the commit is best effort
// except opening the auction, whose failure is returned together with the order id.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	items, err := h.resolveCart(ctx, cmd.Lines())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	user, err := uow.UserRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = errors.Join(user.RequireRole(account.RoleCustomer, "place order"), user.CanPlaceOrders()); err != nil {
		return kernel.UUID{}, err
	}
	customer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return kernel.UUID{}, err
	}

	pricing := h.calculator.Quote(items, customer.IsVIP(), customer.NextOrderHasFreeDelivery())
	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), items, pricing, h.clock.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	err = h.ledger.DebitForOrder(ctx, uow, customer.ID(), o.ID(), o.TotalPrice())
	if errors.Is(err, ledgertx.ErrInsufficientBalance) {
		_ = uow.Rollback(ctx)
		if warnErr := h.warnLowBalance(ctx, customer.ID(), o.TotalPrice()); warnErr != nil {
			return kernel.UUID{}, errors.Join(err, warnErr)
		}
		return kernel.UUID{}, err
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	h.metrics.OrderPlaced()
	h.logger.InfoContext(ctx, "order placed",
		"order_id", o.ID().String(), "customer_id", customer.ID().String(),
		"total", o.TotalPrice().String(), "free_delivery", o.IsFreeDelivery())

	h.recordOrder(ctx, customer.ID(), o.TotalPrice())
	h.checkVIP(ctx, customer.ID())

	openCmd, err := NewOpenBiddingCommand(o.ID())
	if err != nil {
		return o.ID(), err
	}
	if err = h.bidding.Handle(ctx, openCmd); err != nil {
		return o.ID(), fmt.Errorf("open bidding for order %s: %w", o.ID(), err)
	}
	return o.ID(), nil
}

// resolveCart snapshots catalog prices. It runs before the transaction so no row is
// locked while the catalog answers.
func (h *PlaceOrderCommandHandler) resolveCart(ctx context.Context, lines []CartLine) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		ci, err := h.catalog.GetItem(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if !ci.IsAvailable {
			return nil, errs.NewResourceUnavailableError("menu item", line.ItemID.String()+" is not available")
		}
		item, err := order.NewItem(ci.ID, ci.ChefID, line.Quantity, ci.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (h *PlaceOrderCommandHandler) warnLowBalance(ctx context.Context, customerID kernel.UUID, total kernel.Money) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outcome, err := h.discipline.Run(ctx, uow, effects.IssueWarning{
		UserID: customerID,
		Source: account.WarningFromOrder,
		Reason: "insufficient balance for order total " + total.String(),
	})
	if err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}
	settleAfterCommit(ctx, h.discipline, h.uowFactory, h.notifier, outcome.Refunds, outcome.Notifications...)
	return nil
}

// recordOrder updates total_orders and total_spent. It is not needed for money safety,
// so a failure is only logged.
func (h *PlaceOrderCommandHandler) recordOrder(ctx context.Context, customerID kernel.UUID, total kernel.Money) {
	uow := h.uowFactory.Create()
	err := func() error {
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()
		if err := uow.CustomerRepository().RecordOrder(ctx, customerID, total); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update customer aggregates",
			"customer_id", customerID.String(), "error", err)
	}
}

func (h *PlaceOrderCommandHandler) checkVIP(ctx context.Context, customerID kernel.UUID) {
	if h.vip == nil {
		return
	}
	cmd, err := NewCheckVIPUpgradeCommand(customerID)
	if err == nil {
		_, err = h.vip.Handle(ctx, cmd)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "vip upgrade check failed", "customer_id", customerID.String(), "error", err)
	}
}
