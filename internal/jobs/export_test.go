package jobs

import "auctiondelivery/internal/core/domain/model/kernel"

// Armed returns the tracking entry currently held for an order.
func (t *BiddingWindowTimers) Armed(orderID kernel.UUID) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timers[orderID]
}

// FireWith runs the fire path as the timer armed with entry would.
func (t *BiddingWindowTimers) FireWith(orderID kernel.UUID, entry any) {
	armed, _ := entry.(*armedTimer)
	t.fire(orderID, armed)
}
