package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	mu     sync.Mutex
	closed []kernel.UUID
	err    error
}

func (c *recordingCloser) Handle(_ context.Context, cmd commands.CloseBiddingCommand) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	c.closed = append(c.closed, cmd.OrderID())
	return true, nil
}

func (c *recordingCloser) Closed() []kernel.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]kernel.UUID(nil), c.closed...)
}

type MockWindowFinder struct{ mock.Mock }

func (m *MockWindowFinder) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, now, limit)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockWindowFinder) ListOpen(ctx context.Context) ([]*auction.Window, error) {
	args := m.Called(ctx)
	windows, _ := args.Get(0).([]*auction.Window)
	return windows, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBiddingWindowTimers_FireClosesWindow(t *testing.T) {
	// Given
	closer := &recordingCloser{}
	timers := jobs.NewBiddingWindowTimers(discardLogger())
	timers.Attach(closer)
	orderID := kernel.NewUUID()

	// When
	timers.Schedule(orderID, time.Now().Add(10*time.Millisecond))

	// Then
	require.Eventually(t, func() bool { return len(closer.Closed()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, closer.Closed()[0].IsEqual(orderID))
	assert.Zero(t, timers.Pending())
}

func TestBiddingWindowTimers_CancelPreventsClose(t *testing.T) {
	// Given
	closer := &recordingCloser{}
	timers := jobs.NewBiddingWindowTimers(discardLogger())
	timers.Attach(closer)
	orderID := kernel.NewUUID()
	timers.Schedule(orderID, time.Now().Add(30*time.Millisecond))

	// When
	timers.Cancel(orderID)
	timers.Cancel(kernel.NewUUID())

	// Then
	assert.Never(t, func() bool { return len(closer.Closed()) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Zero(t, timers.Pending())
}

func TestBiddingWindowTimers_RescheduleReplacesTimer(t *testing.T) {
	closer := &recordingCloser{}
	timers := jobs.NewBiddingWindowTimers(discardLogger())
	timers.Attach(closer)
	orderID := kernel.NewUUID()

	timers.Schedule(orderID, time.Now().Add(time.Hour))
	timers.Schedule(orderID, time.Now())

	require.Eventually(t, func() bool { return len(closer.Closed()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return len(closer.Closed()) > 1 }, 50*time.Millisecond, 10*time.Millisecond)
}

func TestBiddingWindowTimers_StaleFireKeepsRearmedTimer(t *testing.T) {
	// Given a timer that fired just as its order was re-armed
	closer := &recordingCloser{}
	timers := jobs.NewBiddingWindowTimers(discardLogger())
	timers.Attach(closer)
	orderID := kernel.NewUUID()
	timers.Schedule(orderID, time.Now().Add(time.Hour))
	stale := timers.Armed(orderID)
	timers.Schedule(orderID, time.Now().Add(time.Hour))

	// When the old timer's fire runs
	timers.FireWith(orderID, stale)

	// Then the re-armed timer is still tracked and nothing closed
	assert.Equal(t, 1, timers.Pending())
	assert.NotSame(t, stale, timers.Armed(orderID))
	assert.Empty(t, closer.Closed())

	// And cancelling still reaches the live timer
	timers.Cancel(orderID)
	assert.Zero(t, timers.Pending())
}

func TestBiddingWindowTimers_RearmSchedulesOpenWindows(t *testing.T) {
	// Given two windows open in storage, one already past its deadline
	ctx := t.Context()
	overdue, err := auction.OpenWindow(kernel.NewUUID(), time.Now().Add(-time.Hour), time.Minute)
	require.NoError(t, err)
	later, err := auction.OpenWindow(kernel.NewUUID(), time.Now(), time.Hour)
	require.NoError(t, err)
	finder := new(MockWindowFinder)
	finder.On("ListOpen", ctx).Return([]*auction.Window{overdue, later}, nil).Once()

	closer := &recordingCloser{}
	timers := jobs.NewBiddingWindowTimers(discardLogger())
	timers.Attach(closer)
	t.Cleanup(timers.Stop)

	// When
	n, err := timers.Rearm(ctx, finder)

	// Then the overdue one closes right away
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Eventually(t, func() bool { return len(closer.Closed()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, closer.Closed()[0].IsEqual(overdue.OrderID()))
	assert.Equal(t, 1, timers.Pending())
	finder.AssertExpectations(t)
}

func TestBiddingWindowSweepJob_RunOnceClosesExpired(t *testing.T) {
	// Given
	ctx := t.Context()
	now := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	expired := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	finder := new(MockWindowFinder)
	finder.On("ListExpiredOpen", ctx, now, mock.AnythingOfType("int")).Return(expired, nil).Once()
	closer := &recordingCloser{}
	job := jobs.NewBiddingWindowSweepJob(finder, closer, func() time.Time { return now }, "", nil, discardLogger())

	// When
	closed, err := job.RunOnce(ctx)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, closed)
	assert.Len(t, closer.Closed(), 2)
	finder.AssertExpectations(t)
}

func TestBiddingWindowSweepJob_RunOnceReportsFailures(t *testing.T) {
	ctx := t.Context()
	finder := new(MockWindowFinder)
	finder.On("ListExpiredOpen", ctx, mock.Anything, mock.Anything).Return([]kernel.UUID{kernel.NewUUID()}, nil).Once()
	closer := &recordingCloser{err: errors.New("db down")}
	job := jobs.NewBiddingWindowSweepJob(finder, closer, time.Now, "", nil, discardLogger())

	closed, err := job.RunOnce(ctx)

	require.Error(t, err)
	assert.Zero(t, closed)
}

func TestBiddingWindowSweepJob_StartRejectsBadSpec(t *testing.T) {
	job := jobs.NewBiddingWindowSweepJob(new(MockWindowFinder), &recordingCloser{}, time.Now, "not a spec", nil, discardLogger())

	require.Error(t, job.Start())
}

type MockRefundPayer struct{ mock.Mock }

func (m *MockRefundPayer) RetryPendingRefunds(ctx context.Context, books ledger.Books, limit int) (int, error) {
	args := m.Called(ctx, books, limit)
	return args.Int(0), args.Error(1)
}

func TestPendingRefundJob_RunOncePaysABatch(t *testing.T) {
	// Given
	ctx := t.Context()
	payer := new(MockRefundPayer)
	payer.On("RetryPendingRefunds", ctx, mock.Anything, mock.AnythingOfType("int")).Return(2, nil).Once()
	job := jobs.NewPendingRefundJob(payer, nil, "", nil, discardLogger())

	// When
	paid, err := job.RunOnce(ctx)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, paid)
	payer.AssertExpectations(t)
}

func TestPendingRefundJob_RunOnceReportsGatewayFailures(t *testing.T) {
	ctx := t.Context()
	payer := new(MockRefundPayer)
	payer.On("RetryPendingRefunds", ctx, mock.Anything, mock.Anything).Return(1, errors.New("gateway down")).Once()
	job := jobs.NewPendingRefundJob(payer, nil, "", nil, discardLogger())

	paid, err := job.RunOnce(ctx)

	require.Error(t, err)
	assert.Equal(t, 1, paid)
}

func TestPendingRefundJob_StartRejectsBadSpec(t *testing.T) {
	job := jobs.NewPendingRefundJob(new(MockRefundPayer), nil, "not a spec", nil, discardLogger())

	require.Error(t, job.Start())
}
