package commands

import (
	"context"
	"slices"

	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
)

// notifyAfterCommit hands notifications to the notifier. Call it only after a successful
// commit; delivery failures stay inside the notifier.
func notifyAfterCommit(ctx context.Context, notifier ports.Notifier, notes ...ports.Notification) {
	if notifier == nil || len(notes) == 0 {
		return
	}
	notifier.Notify(ctx, notes...)
}

// settleAfterCommit pays the refunds a committed discipline cascade reserved, then sends
// notes plus a notice for every refund the gateway accepted.
func settleAfterCommit(
	ctx context.Context,
	engine *discipline.Engine,
	uowFactory UoWFactory,
	notifier ports.Notifier,
	refunds []ledger.Refund,
	notes ...ports.Notification,
) {
	if len(refunds) > 0 {
		notes = append(slices.Clip(notes), engine.PayRefunds(ctx, uowFactory.Create(), refunds)...)
	}
	notifyAfterCommit(ctx, notifier, notes...)
}

func userNote(userID kernel.UUID, event string, payload map[string]any) ports.Notification {
	return ports.Notification{
		Audience:    ports.AudienceUser,
		RecipientID: &userID,
		Event:       event,
		Payload:     payload,
	}
}

func managersNote(event string, payload map[string]any) ports.Notification {
	return ports.Notification{Audience: ports.AudienceManagers, Event: event, Payload: payload}
}
