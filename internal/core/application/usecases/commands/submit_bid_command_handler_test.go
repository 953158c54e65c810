package commands_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/adapters/out/postgres/auctionrepo"
	"auctiondelivery/internal/adapters/out/postgres/feedbackrepo"
	"auctiondelivery/internal/adapters/out/postgres/inboxrepo"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankedAmounts reads the amounts of the latest ranked-bids inbox message.
func (h *harness) rankedAmounts(orderID kernel.UUID) []string {
	h.t.Helper()
	var msg inboxrepo.MessageDTO
	require.NoError(h.t, h.db.
		Where("kind = ? AND subject_id = ?", string(ports.InboxRankedBids), orderID.Bytes()).
		Order("created_at DESC").
		First(&msg).Error)
	lines, ok := msg.Body["bids"].([]any)
	require.True(h.t, ok)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.(map[string]any)["amount"].(string))
	}
	return out
}

func TestSubmitBid_QuorumClosesWindowAndRanksBids(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	w1, w2, w3 := h.seed.Delivery(), h.seed.Delivery(), h.seed.Delivery()

	// When
	first := h.bid(w1, orderID, "8.00")
	second := h.bid(w2, orderID, "6.50")
	third := h.bid(w3, orderID, "7.00")

	// Then
	assert.False(t, first.ClosedWindow)
	assert.False(t, second.ClosedWindow)
	assert.True(t, third.ClosedWindow)
	assert.Equal(t, 3, third.BidCount)

	assert.EqualValues(t, 1, h.seed.Count(&auctionrepo.WindowDTO{}, "order_id = ? AND close_reason = ? AND closed_at IS NOT NULL",
		orderID.Bytes(), string(auction.ClosedByQuorum)))
	assert.Equal(t, []string{"6.50", "7.00", "8.00"}, h.rankedAmounts(orderID))
	assert.True(t, h.scheduler.Cancelled(orderID))
	assert.Contains(t, h.notifier.Events(), "bidding_closed")

	// And the order keeps waiting for a manager
	assert.Equal(t, order.AwaitingBids, h.order(orderID).Status())
}

func TestSubmitBid_RepeatBidsFromOneWorkerCountTowardsQuorum(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	worker := h.seed.Delivery()

	// When
	h.bid(worker, orderID, "9.00")
	h.bid(worker, orderID, "8.50")
	third := h.bid(h.seed.Delivery(), orderID, "8.00")

	// Then
	assert.True(t, third.ClosedWindow)
	assert.EqualValues(t, 2, h.seed.Count(&auctionrepo.BidDTO{}, "delivery_id = ?", worker.Bytes()))
	assert.Equal(t, []string{"8.00", "8.50", "9.00"}, h.rankedAmounts(orderID))
}

func TestSubmitBid_RejectsBidsAfterDeadline(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	h.clock.Advance(auction.DefaultWindowDuration + time.Second)
	cmd, err := commands.NewSubmitBidCommand(h.seed.Delivery(), orderID, kernel.MustMoney("5.00"), 15)
	require.NoError(t, err)

	// When
	_, err = h.submitBid.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Zero(t, h.seed.Count(&auctionrepo.BidDTO{}, ""))
}

func TestSubmitBid_RejectsBidsOnClosedWindow(t *testing.T) {
	// Given a window closed by quorum
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	for range 3 {
		h.bid(h.seed.Delivery(), orderID, "7.00")
	}
	cmd, err := commands.NewSubmitBidCommand(h.seed.Delivery(), orderID, kernel.MustMoney("4.00"), 15)
	require.NoError(t, err)

	// When
	_, err = h.submitBid.Handle(t.Context(), cmd)

	// Then
	require.ErrorIs(t, err, auction.ErrNotAcceptingBids)
	assert.EqualValues(t, 3, h.seed.Count(&auctionrepo.BidDTO{}, ""))
}

func TestSubmitBid_RequiresDeliveryRole(t *testing.T) {
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	cmd, err := commands.NewSubmitBidCommand(h.seed.Chef(), orderID, kernel.MustMoney("4.00"), 15)
	require.NoError(t, err)

	_, err = h.submitBid.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestNewSubmitBidCommand_Validation(t *testing.T) {
	_, err := commands.NewSubmitBidCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.ZeroMoney(), 10)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewSubmitBidCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.MustMoney("3.00"), 0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestAssignDelivery_OverrideRequiresMemo(t *testing.T) {
	// Given three bids on an order
	h := newHarness(t)
	orderID, customerID := h.awaitingOrder()
	manager := h.seed.Manager()
	w1, w2, w3 := h.seed.Delivery(), h.seed.Delivery(), h.seed.Delivery()
	expensive := h.bid(w1, orderID, "8.00")
	h.bid(w2, orderID, "6.50")
	h.bid(w3, orderID, "7.00")

	// When the manager picks the most expensive bid without a memo
	_, err := h.assignBid(manager, orderID, &expensive.BidID, "  ")

	// Then
	require.ErrorIs(t, err, feedback.ErrMemoRequired)
	assert.Equal(t, order.AwaitingBids, h.order(orderID).Status())
	assert.Zero(t, h.seed.Count(&feedbackrepo.MemoDTO{}, ""))

	// When they explain the choice
	assigned, err := h.assignBid(manager, orderID, &expensive.BidID, "fastest ETA for a fragile cake")

	// Then
	require.NoError(t, err)
	assert.True(t, assigned.IsEqual(w1))
	o := h.order(orderID)
	assert.Equal(t, order.ReadyForDelivery, o.Status())
	require.NotNil(t, o.DeliveryID())
	assert.True(t, o.DeliveryID().IsEqual(w1))
	assert.EqualValues(t, 1, h.seed.Count(&feedbackrepo.MemoDTO{}, "memo_type = ? AND order_id = ?",
		string(feedback.MemoDeliveryBidOverride), orderID.Bytes()))
	assert.EqualValues(t, 1, h.seed.Count(&auctionrepo.BidDTO{}, "is_selected = ?", true))
	assert.Contains(t, h.notifier.To(w1), "delivery_assigned")
	assert.Contains(t, h.notifier.To(customerID), "order_ready_for_delivery")
}

func TestAssignDelivery_LowestBidNeedsNoMemo(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	w1, w2 := h.seed.Delivery(), h.seed.Delivery()
	h.bid(w1, orderID, "9.00")
	cheap := h.bid(w2, orderID, "6.00")

	// When assigning before the window closes
	assigned, err := h.assignBid(h.seed.Manager(), orderID, &cheap.BidID, "")

	// Then the assignment closes the window
	require.NoError(t, err)
	assert.True(t, assigned.IsEqual(w2))
	assert.EqualValues(t, 1, h.seed.Count(&auctionrepo.WindowDTO{}, "close_reason = ?", string(auction.ClosedByAssignment)))
	assert.Zero(t, h.seed.Count(&feedbackrepo.MemoDTO{}, ""))
	assert.True(t, h.scheduler.Cancelled(orderID))
}

func TestAssignDelivery_FallsBackToDispatchWithoutBids(t *testing.T) {
	// Given a closed window with no bids and two workers with different ratings
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	h.seed.DeliveryWithRating(3.5, 10)
	best := h.seed.DeliveryWithRating(4.8, 12)
	cmd, err := commands.NewCloseBiddingCommand(orderID, auction.ClosedByTimeout)
	require.NoError(t, err)
	_, err = h.closeBidding.Handle(t.Context(), cmd)
	require.NoError(t, err)

	// When
	assigned, err := h.assignBid(h.seed.Manager(), orderID, nil, "")

	// Then
	require.NoError(t, err)
	o := h.order(orderID)
	assert.Equal(t, order.ReadyForDelivery, o.Status())
	assert.True(t, o.DeliveryID().IsEqual(assigned))
	assert.True(t, assigned.IsEqual(best))
}

func TestAssignDelivery_NoWorkerAvailable(t *testing.T) {
	// Given
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()

	// When
	_, err := h.assignBid(h.seed.Manager(), orderID, nil, "")

	// Then
	require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	assert.Equal(t, order.AwaitingBids, h.order(orderID).Status())
}

func TestAssignDelivery_RequiresManager(t *testing.T) {
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	res := h.bid(h.seed.Delivery(), orderID, "5.00")

	_, err := h.assignBid(h.seed.Chef(), orderID, &res.BidID, "")

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestCloseBidding_IsIdempotent(t *testing.T) {
	// Given an order nobody bid on
	h := newHarness(t)
	orderID, _ := h.awaitingOrder()
	cmd, err := commands.NewCloseBiddingCommand(orderID, auction.ClosedByTimeout)
	require.NoError(t, err)

	// When
	closed, err := h.closeBidding.Handle(t.Context(), cmd)
	require.NoError(t, err)
	again, err := h.closeBidding.Handle(t.Context(), cmd)
	require.NoError(t, err)

	// Then
	assert.True(t, closed)
	assert.False(t, again)
	assert.EqualValues(t, 1, h.seed.Count(&auctionrepo.WindowDTO{}, "close_reason = ?", string(auction.ClosedByTimeout)))
	assert.Zero(t, h.seed.Count(&inboxrepo.MessageDTO{}, "kind = ?", string(ports.InboxRankedBids)))
}

func TestCloseBidding_UnknownOrder(t *testing.T) {
	h := newHarness(t)
	cmd, err := commands.NewCloseBiddingCommand(kernel.NewUUID(), auction.ClosedManually)
	require.NoError(t, err)

	_, err = h.closeBidding.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestNewCloseBiddingCommand_RejectsInternalReasons(t *testing.T) {
	_, err := commands.NewCloseBiddingCommand(kernel.NewUUID(), auction.ClosedByQuorum)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
