package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"auctiondelivery/internal/adapters/out/clock"
	"auctiondelivery/internal/adapters/out/postgres"
	"auctiondelivery/internal/adapters/out/postgres/catalogrepo"
	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/application/reputation"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/testdb"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var start = time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)

type uowFactory struct {
	inner *postgres.GormUnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type inboxUoWFactory struct {
	inner *postgres.GormUnitOfWorkFactory
}

func (f inboxUoWFactory) Create() commands.InboxUoW { return f.inner.Create() }

// fakeGateway accepts every call unless told otherwise.
type fakeGateway struct {
	mu        sync.Mutex
	chargeErr error
	refundErr error
	charges   []kernel.Money
	refunds   []kernel.Money
	// onCharge runs after a successful charge, before the caller settles it.
	onCharge func()
}

func (g *fakeGateway) Charge(_ context.Context, _ kernel.UUID, amount kernel.Money) error {
	g.mu.Lock()
	if g.chargeErr != nil {
		g.mu.Unlock()
		return g.chargeErr
	}
	g.charges = append(g.charges, amount)
	onCharge := g.onCharge
	g.mu.Unlock()
	if onCharge != nil {
		onCharge()
	}
	return nil
}

func (g *fakeGateway) Refund(_ context.Context, _ kernel.UUID, amount kernel.Money) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, amount)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notes ...ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, notes...)
}

// Events lists the events sent so far, in order.
func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notes))
	for _, note := range n.notes {
		out = append(out, note.Event)
	}
	return out
}

func (n *recordingNotifier) To(userID kernel.UUID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, note := range n.notes {
		if note.RecipientID != nil && note.RecipientID.IsEqual(userID) {
			out = append(out, note.Event)
		}
	}
	return out
}

type recordingScheduler struct {
	mu        sync.Mutex
	scheduled map[kernel.UUID]time.Time
	cancelled []kernel.UUID
}

func (s *recordingScheduler) Schedule(orderID kernel.UUID, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled[orderID] = deadline
}

func (s *recordingScheduler) Cancel(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, orderID)
}

func (s *recordingScheduler) Cancelled(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.cancelled {
		if id.IsEqual(orderID) {
			return true
		}
	}
	return false
}

// harness wires every command handler to an in-memory database, the way the composition
// root wires them to PostgreSQL.
type harness struct {
	t         *testing.T
	db        *gorm.DB
	seed      *testdb.Seeder
	clock     *clock.Manual
	gateway   *fakeGateway
	notifier  *recordingNotifier
	scheduler *recordingScheduler
	uow       *postgres.GormUnitOfWorkFactory
	ledger    *ledger.Ledger

	placeOrder   *commands.PlaceOrderCommandHandler
	openBidding  *commands.OpenBiddingCommandHandler
	submitBid    *commands.SubmitBidCommandHandler
	closeBidding *commands.CloseBiddingCommandHandler
	assign       *commands.AssignDeliveryCommandHandler
	updateStatus *commands.UpdateOrderStatusCommandHandler
	rateOrder    *commands.SubmitOrderRatingCommandHandler
	rateAnswer   *commands.RateAnswerCommandHandler
	resolve      *commands.ResolveComplaintCommandHandler
	performance  *commands.ApplyDemotionOrBonusCommandHandler
	vip          *commands.CheckVIPUpgradeCommandHandler
	evaluate     *commands.EvaluateEmployeeCommandHandler
	addWarning   *commands.AddWarningCommandHandler
	deposit      *commands.AddDepositCommandHandler
	closeAccount *commands.CloseCustomerAccountCommandHandler
	complaint    *commands.FileComplaintCommandHandler
	compliment   *commands.FileComplimentCommandHandler
	ack          *commands.AckInboxMessageCommandHandler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testdb.Open(t)
	h := &harness{
		t:         t,
		db:        db,
		seed:      testdb.NewSeeder(t, db),
		clock:     clock.NewManual(start),
		gateway:   &fakeGateway{},
		notifier:  &recordingNotifier{},
		scheduler: &recordingScheduler{scheduled: map[kernel.UUID]time.Time{}},
		uow:       postgres.NewGormUnitOfWorkFactory(db),
	}
	logger := slog.New(slog.DiscardHandler)
	factory := uowFactory{inner: h.uow}

	l, err := ledger.NewLedger(h.gateway, h.clock, logger,
		ledger.WithRefundRetries(2),
		ledger.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
	require.NoError(t, err)
	h.ledger = l
	engine, err := discipline.NewEngine(l, h.clock, logger, nil)
	require.NoError(t, err)
	rep, err := reputation.NewEngine(services.NewRatingAggregator(3), h.clock, logger)
	require.NoError(t, err)
	calculator, err := services.NewPriceCalculator(decimal.RequireFromString("0.10"), kernel.MustMoney("5.00"))
	require.NoError(t, err)

	settings := commands.DefaultAuctionSettings()
	h.vip = commands.NewCheckVIPUpgradeCommandHandler(factory, h.notifier, h.clock, logger)
	h.openBidding = commands.NewOpenBiddingCommandHandler(factory, settings, h.scheduler, h.notifier, h.clock, logger)
	h.placeOrder = commands.NewPlaceOrderCommandHandler(factory, catalogrepo.NewGormCatalog(db), calculator, l, engine,
		h.vip, h.openBidding, h.notifier, h.clock, logger, nil)
	h.submitBid = commands.NewSubmitBidCommandHandler(factory, settings, h.scheduler, h.notifier, h.clock, logger, nil)
	h.closeBidding = commands.NewCloseBiddingCommandHandler(factory, h.scheduler, h.notifier, h.clock, logger, nil)
	h.assign = commands.NewAssignDeliveryCommandHandler(factory, h.scheduler, h.notifier, h.clock, logger, nil)
	h.updateStatus = commands.NewUpdateOrderStatusCommandHandler(factory, l, h.vip, h.notifier, h.clock, logger)
	h.rateOrder = commands.NewSubmitOrderRatingCommandHandler(factory, rep, engine, h.notifier, h.clock, logger)
	h.rateAnswer = commands.NewRateAnswerCommandHandler(factory, rep, h.clock)
	h.resolve = commands.NewResolveComplaintCommandHandler(factory, engine, h.notifier, h.clock, logger)
	h.performance = commands.NewApplyDemotionOrBonusCommandHandler(factory, engine, h.notifier, h.clock, logger)
	h.evaluate = commands.NewEvaluateEmployeeCommandHandler(factory, rep, engine, h.notifier)
	h.addWarning = commands.NewAddWarningCommandHandler(factory, engine, h.notifier)
	h.deposit = commands.NewAddDepositCommandHandler(factory, l, h.notifier, logger)
	h.closeAccount = commands.NewCloseCustomerAccountCommandHandler(factory, l, h.notifier, logger)
	h.complaint = commands.NewFileComplaintCommandHandler(factory, h.notifier, h.clock)
	h.compliment = commands.NewFileComplimentCommandHandler(factory, h.notifier, h.clock)
	h.ack = commands.NewAckInboxMessageCommandHandler(inboxUoWFactory{inner: h.uow}, h.clock)
	return h
}

// order reads an order back through a fresh unit of work.
func (h *harness) order(id kernel.UUID) *order.Order {
	h.t.Helper()
	o, err := h.uow.Create().OrderRepository().Get(h.t.Context(), id)
	require.NoError(h.t, err)
	return o
}

// place places a one-line order for the customer and returns its id.
func (h *harness) place(customerID, itemID kernel.UUID, qty int) kernel.UUID {
	h.t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(customerID, []commands.CartLine{{ItemID: itemID, Quantity: qty}})
	require.NoError(h.t, err)
	id, err := h.placeOrder.Handle(h.t.Context(), cmd)
	require.NoError(h.t, err)
	return id
}

// awaitingOrder places a 36.36 order for a fresh customer with enough money.
func (h *harness) awaitingOrder() (orderID, customerID kernel.UUID) {
	h.t.Helper()
	customerID = h.seed.Customer(testdb.CustomerOpts{Balance: "100"})
	item := h.seed.MenuItem(h.seed.Chef(), "36.36")
	return h.place(customerID, item, 1), customerID
}

func (h *harness) bid(deliveryID, orderID kernel.UUID, amount string) commands.SubmitBidResult {
	h.t.Helper()
	cmd, err := commands.NewSubmitBidCommand(deliveryID, orderID, kernel.MustMoney(amount), 20)
	require.NoError(h.t, err)
	res, err := h.submitBid.Handle(h.t.Context(), cmd)
	require.NoError(h.t, err)
	return res
}

func (h *harness) assignBid(managerID, orderID kernel.UUID, bidID *kernel.UUID, memo string) (kernel.UUID, error) {
	h.t.Helper()
	cmd, err := commands.NewAssignDeliveryCommand(managerID, orderID, bidID, memo)
	require.NoError(h.t, err)
	return h.assign.Handle(h.t.Context(), cmd)
}

func (h *harness) moveTo(deliveryID, orderID kernel.UUID, status order.Status) error {
	h.t.Helper()
	cmd, err := commands.NewUpdateOrderStatusCommand(deliveryID, orderID, status)
	require.NoError(h.t, err)
	return h.updateStatus.Handle(h.t.Context(), cmd)
}

// deliveredOrder runs an order through the whole lifecycle and returns it delivered.
func (h *harness) deliveredOrder(customerID, itemID, deliveryID kernel.UUID) kernel.UUID {
	h.t.Helper()
	orderID := h.place(customerID, itemID, 1)
	res := h.bid(deliveryID, orderID, "5.00")
	_, err := h.assignBid(h.seed.Manager(), orderID, &res.BidID, "")
	require.NoError(h.t, err)
	require.NoError(h.t, h.moveTo(deliveryID, orderID, order.OutForDelivery))
	require.NoError(h.t, h.moveTo(deliveryID, orderID, order.Delivered))
	return orderID
}
