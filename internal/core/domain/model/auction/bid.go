package auction

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

var (
	ErrBidIsNotConstructed = errors.New("Bid must be created via NewBid constructor")

	// ErrBidAlreadySelected is returned when a second bid of the same order is selected.
	ErrBidAlreadySelected = errs.NewStateConflictError("bid", "already selected")
)

// Bid is a delivery worker's offer to deliver an order.
type Bid struct {
	id         kernel.UUID
	orderID    kernel.UUID
	deliveryID kernel.UUID
	amount     kernel.Money
	etaMinutes int
	createdAt  time.Time
	isSelected bool

	isConstructed bool
}

// NewBid validates an incoming offer. The amount must be positive and the ETA at least
// one minute.
func NewBid(id, orderID, deliveryID kernel.UUID, amount kernel.Money, etaMinutes int, createdAt time.Time) (*Bid, error) {
	b := &Bid{
		id:            id,
		orderID:       orderID,
		deliveryID:    deliveryID,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		deliveryID.Validate(),
		b.setAmount(amount),
		b.setETA(etaMinutes),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBid rebuilds a persisted bid.
func RestoreBid(
	id, orderID, deliveryID kernel.UUID,
	amount kernel.Money,
	etaMinutes int,
	createdAt time.Time,
	isSelected bool,
) (*Bid, error) {
	b, err := NewBid(id, orderID, deliveryID, amount, etaMinutes, createdAt)
	if err != nil {
		return nil, err
	}
	b.isSelected = isSelected
	return b, nil
}

func (b *Bid) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBidIsNotConstructed
	}
	return nil
}

func (b *Bid) ID() kernel.UUID {
	return b.id
}

func (b *Bid) OrderID() kernel.UUID {
	return b.orderID
}

func (b *Bid) DeliveryID() kernel.UUID {
	return b.deliveryID
}

func (b *Bid) Amount() kernel.Money {
	return b.amount
}

func (b *Bid) ETAMinutes() int {
	return b.etaMinutes
}

func (b *Bid) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Bid) IsSelected() bool {
	return b.isSelected
}

// Select marks the bid as the winning one.
func (b *Bid) Select() error {
	if b.isSelected {
		return ErrBidAlreadySelected
	}
	b.isSelected = true
	return nil
}

func (b *Bid) setAmount(amount kernel.Money) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("bid_amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	b.amount = amount
	return nil
}

func (b *Bid) setETA(eta int) error {
	if eta < 1 {
		return errs.NewValueIsOutOfRangeError("eta_minutes", eta, 1, "unbounded")
	}
	b.etaMinutes = eta
	return nil
}

// Rank returns the bids ordered by amount ascending, ties broken by earliest submission
// and then by id so the order is total. The input slice is left untouched.
func Rank(bids []*Bid) []*Bid {
	ranked := make([]*Bid, len(bids))
	copy(ranked, bids)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.amount.Equal(b.amount) {
			return a.amount.LessThan(b.amount)
		}
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.id.Less(b.id)
	})
	return ranked
}

// Lowest returns the minimum bid amount, false when there are no bids.
func Lowest(bids []*Bid) (kernel.Money, bool) {
	if len(bids) == 0 {
		return kernel.Money{}, false
	}
	lowest := bids[0].amount
	for _, b := range bids[1:] {
		if b.amount.LessThan(lowest) {
			lowest = b.amount
		}
	}
	return lowest, true
}
