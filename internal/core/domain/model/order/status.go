package order

import (
	"fmt"

	"auctiondelivery/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions (no skipping, no backward moves):
//
//	Placed ──> AwaitingBids ──> ReadyForDelivery ──> OutForDelivery ──> Delivered
//
// Delivered is terminal.
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota

	// Placed is the status of a freshly debited order, before its auction opens.
	Placed

	// AwaitingBids means the bidding window was opened. The order stays here after the
	// window closes until a manager assigns a delivery worker.
	AwaitingBids

	// ReadyForDelivery means a delivery worker was assigned.
	ReadyForDelivery

	// OutForDelivery means the assigned worker picked the order up.
	OutForDelivery

	// Delivered is final.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "UNKNOWN",
		Placed:           "PLACED",
		AwaitingBids:     "AWAITING_BIDS",
		ReadyForDelivery: "READY_FOR_DELIVERY",
		OutForDelivery:   "OUT_FOR_DELIVERY",
		Delivered:        "DELIVERED",
	}
}

// next maps each status to the only status it may move to.
func next() map[Status]Status {
	//nolint:exhaustive // Unknown and Delivered have no successor
	return map[Status]Status{
		Placed:           AwaitingBids,
		AwaitingBids:     ReadyForDelivery,
		ReadyForDelivery: OutForDelivery,
		OutForDelivery:   Delivered,
	}
}

// ParseStatus converts the persisted/API name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition exists.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// ValidateCanHaveDeliveryWorker checks that a delivery worker is present exactly from
// ReadyForDelivery onwards.
func (s Status) ValidateCanHaveDeliveryWorker(assigned bool) error {
	needsWorker := s >= ReadyForDelivery
	if assigned && !needsWorker {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a delivery worker", s),
		)
	}
	if !assigned && needsWorker {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no delivery worker", s),
		)
	}
	return nil
}

// TransitionTo returns target if it is the direct successor of s, otherwise a
// StateConflictError. Every status change of an order goes through here.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if successor, ok := next()[s]; !ok || successor != target {
		return Unknown, errs.NewStateConflictError("order", fmt.Sprintf("cannot move from %s to %s", s, target))
	}
	return target, nil
}
