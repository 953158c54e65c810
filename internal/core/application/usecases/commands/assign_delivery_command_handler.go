package commands

import (
	"context"
	"log/slog"
	"time"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/metrics"
)

// AssignDeliveryCommandHandler resolves a manager's decision into an assigned delivery
// worker. Picking anything but a lowest bid leaves a DELIVERY_BID_OVERRIDE memo in the
// same transaction as the assignment.
//
// Example:
//
//	cmd, _ := NewAssignDeliveryCommand(managerID, orderID, &bidID, "faster ETA, customer is waiting")
//	deliveryID, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, services.ErrMemoRequired) {
//	    // the manager skipped the cheapest bid without saying why
//	}
type AssignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	selector   services.BidSelector
	dispatcher services.DeliveryDispatcher
	scheduler  ports.WindowScheduler
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
	metrics    *metrics.DomainMetrics
}

func NewAssignDeliveryCommandHandler(
	uowFactory UoWFactory,
	scheduler ports.WindowScheduler,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
	m *metrics.DomainMetrics,
) *AssignDeliveryCommandHandler {
	return &AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		selector:   services.NewBidSelector(),
		dispatcher: services.NewDeliveryDispatcher(),
		scheduler:  scheduler,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		metrics:    m,
	}
}

// Handle returns the id of the assigned delivery worker.
func (h *AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	manager, err := uow.UserRepository().Get(ctx, cmd.ManagerID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = manager.RequireRole(account.RoleManager, "assign delivery"); err != nil {
		return kernel.UUID{}, err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if o.Status() != order.AwaitingBids {
		return kernel.UUID{}, errs.NewStateConflictError("order", "is "+o.Status().String()+", not awaiting bids")
	}

	now := h.clock.Now()
	closedNow, err := uow.BiddingWindowRepository().CloseIfOpen(ctx, o.ID(), now, auction.ClosedByAssignment)
	if err != nil {
		return kernel.UUID{}, err
	}
	bids, err := uow.BidRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	var deliveryID kernel.UUID
	var override bool
	if len(bids) == 0 {
		deliveryID, err = h.dispatch(ctx, uow, o, cmd.SelectedBidID())
	} else {
		deliveryID, override, err = h.selectBid(ctx, uow, o, bids, cmd, now)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	if closedNow {
		h.metrics.WindowClosed(string(auction.ClosedByAssignment))
	}
	if h.scheduler != nil {
		h.scheduler.Cancel(o.ID())
	}
	notifyAfterCommit(ctx, h.notifier,
		userNote(deliveryID, "delivery_assigned", map[string]any{"order_id": o.ID().String()}),
		userNote(o.CustomerID(), "order_ready_for_delivery", map[string]any{"order_id": o.ID().String()}),
	)
	h.logger.InfoContext(ctx, "delivery assigned",
		"order_id", o.ID().String(), "delivery_id", deliveryID.String(),
		"manager_id", cmd.ManagerID().String(), "bids", len(bids), "override", override)
	return deliveryID, nil
}

func (h *AssignDeliveryCommandHandler) dispatch(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	selectedBidID *kernel.UUID,
) (kernel.UUID, error) {
	if selectedBidID != nil {
		return kernel.UUID{}, errs.NewObjectNotFoundError("bid", selectedBidID.String())
	}
	available, err := uow.EmployeeRepository().ListAvailableDelivery(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}
	worker, err := h.dispatcher.Dispatch(o, available)
	if err != nil {
		return kernel.UUID{}, err
	}
	return worker.ID(), nil
}

func (h *AssignDeliveryCommandHandler) selectBid(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	bids []*auction.Bid,
	cmd AssignDeliveryCommand,
	now time.Time,
) (kernel.UUID, bool, error) {
	sel, err := h.selector.Select(bids, cmd.SelectedBidID(), cmd.Memo())
	if err != nil {
		return kernel.UUID{}, false, err
	}
	deliveryID := sel.Bid.DeliveryID()

	if sel.Override {
		managerID, orderID := cmd.ManagerID(), o.ID()
		memo, err := feedback.NewMemo(feedback.MemoDeliveryBidOverride, &managerID, &deliveryID, &orderID, cmd.Memo(), now)
		if err != nil {
			return kernel.UUID{}, false, err
		}
		if err = uow.MemoRepository().Add(ctx, memo); err != nil {
			return kernel.UUID{}, false, err
		}
	}

	if err = sel.Bid.Select(); err != nil {
		return kernel.UUID{}, false, err
	}
	if err = uow.BidRepository().MarkSelected(ctx, sel.Bid); err != nil {
		return kernel.UUID{}, false, err
	}
	if err = o.AssignDelivery(deliveryID); err != nil {
		return kernel.UUID{}, false, err
	}
	return deliveryID, sel.Override, nil
}
