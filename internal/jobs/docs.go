// Package jobs provides the background work of the delivery auction.
//
// # Available Jobs
//
//  1. BiddingWindowTimers - one time.AfterFunc timer per open bidding window; when it
//     fires the window is closed with reason "timeout". Timers are cancelled when a window
//     closes early (quorum, assignment).
//  2. BiddingWindowSweepJob - a github.com/robfig/cron/v3 job (default every ten seconds)
//     that closes any window still open past its deadline, e.g. after a restart lost its
//     timer.
//  3. PendingRefundJob - a cron job (default every minute) that pays refunds left PENDING
//     when the gateway refused them after the balance had already been drained.
//
// The timers and the sweep go through the same idempotent close command, so a window is
// closed exactly once whichever path gets there first.
//
// # Usage
//
//	timers := jobs.NewBiddingWindowTimers(logger)
//	closeHandler := commands.NewCloseBiddingCommandHandler(uowFactory, timers, notifier, clock, logger, m)
//	timers.Attach(closeHandler)
//
//	sweep := jobs.NewBiddingWindowSweepJob(windowRepo, closeHandler, clock.Now, "", jobMetrics, logger)
//	refunds := jobs.NewPendingRefundJob(ledger, uowFactory.Create(), "", jobMetrics, logger)
//	manager := jobs.NewJobManager(timers, windowRepo, sweep, refunds, logger)
//	if err := manager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll()
package jobs
