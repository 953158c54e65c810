package order

import (
	"errors"
	"fmt"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNotAssigned is returned when someone other than the assigned delivery worker
	// tries to move the order.
	ErrNotAssigned = errs.NewPermissionDeniedError("update order status", "delivery worker is not assigned to this order")

	// ErrEmptyCart is returned for an order without items.
	ErrEmptyCart = errs.NewValueIsRequiredError("cart_items")
)

// Order is the aggregate root of the order lifecycle. It owns the status, the
// timestamps and the assigned delivery worker.
//
// Order follows these invariants:
//   - Has at least one item and a non-negative total
//   - A delivery worker is set exactly from ReadyForDelivery onwards
//   - picked_up_at is set iff the order left ReadyForDelivery
//   - delivered_at is set iff the order is Delivered
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	items        []Item
	status       Status
	totalPrice   kernel.Money
	discountRate decimal.Decimal
	freeDelivery bool
	deliveryFee  kernel.Money
	deliveryID   *kernel.UUID
	createdAt    time.Time
	pickedUpAt   *time.Time
	deliveredAt  *time.Time

	// version is the optimistic concurrency token maintained by the repository.
	version int64

	isConstructed bool
}

// NewOrder creates a Placed order from cart lines priced by the caller.
//
// Example:
//
//	item, _ := order.NewItem(itemID, chefID, 2, kernel.MustMoney("20.00"))
//	pricing := calculator.Quote([]order.Item{item}, customer.IsVIP(), freeDelivery)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item}, pricing, now)
func NewOrder(id, customerID kernel.UUID, items []Item, pricing Pricing, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Placed,
		discountRate:  pricing.DiscountRate,
		freeDelivery:  pricing.FreeDelivery,
		deliveryFee:   pricing.DeliveryFee,
		createdAt:     createdAt,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setTotal(pricing.Total),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the persisted state of an order.
type Snapshot struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	Items        []Item
	Status       Status
	TotalPrice   kernel.Money
	DiscountRate decimal.Decimal
	FreeDelivery bool
	DeliveryFee  kernel.Money
	DeliveryID   *kernel.UUID
	CreatedAt    time.Time
	PickedUpAt   *time.Time
	DeliveredAt  *time.Time
	Version      int64
}

// RestoreOrder rebuilds an order loaded from storage and re-checks its invariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:        s.Status,
		discountRate:  s.DiscountRate,
		freeDelivery:  s.FreeDelivery,
		deliveryFee:   s.DeliveryFee,
		deliveryID:    s.DeliveryID,
		createdAt:     s.CreatedAt,
		pickedUpAt:    s.PickedUpAt,
		deliveredAt:   s.DeliveredAt,
		version:       s.Version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setItems(s.Items),
		o.setTotal(s.TotalPrice),
		s.Status.Validate(),
		s.Status.ValidateCanHaveDeliveryWorker(s.DeliveryID != nil),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order went through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// ChefIDs returns the distinct chefs whose items appear in the order, in item order.
func (o *Order) ChefIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(o.items))
	chefs := make([]kernel.UUID, 0, len(o.items))
	for _, it := range o.items {
		if _, ok := seen[it.chefID]; ok {
			continue
		}
		seen[it.chefID] = struct{}{}
		chefs = append(chefs, it.chefID)
	}
	return chefs
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

func (o *Order) DiscountRate() decimal.Decimal {
	return o.discountRate
}

func (o *Order) IsFreeDelivery() bool {
	return o.freeDelivery
}

// DeliveryPrice is the delivery fee charged to the customer; it is what the delivery
// worker is credited on completion.
func (o *Order) DeliveryPrice() kernel.Money {
	return o.deliveryFee
}

// DeliveryID returns the assigned delivery worker, nil before assignment.
func (o *Order) DeliveryID() *kernel.UUID {
	return o.deliveryID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) Version() int64 {
	return o.version
}

// AdvanceVersion is called by the repository once an optimistic update succeeded.
func (o *Order) AdvanceVersion() {
	o.version++
}

// BelongsTo reports whether customerID placed the order.
func (o *Order) BelongsTo(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// IsAssignedTo reports whether deliveryID is the assigned delivery worker.
func (o *Order) IsAssignedTo(deliveryID kernel.UUID) bool {
	return o.deliveryID != nil && o.deliveryID.IsEqual(deliveryID)
}

// OpenBidding moves a Placed order to AwaitingBids.
func (o *Order) OpenBidding() error {
	newStatus, err := o.status.TransitionTo(AwaitingBids)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// AssignDelivery records the delivery worker chosen by a manager and moves the order to
// ReadyForDelivery. It fails with a state conflict unless the order is AwaitingBids.
func (o *Order) AssignDelivery(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(ReadyForDelivery)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryID = &deliveryID
	return nil
}

// UpdateStatus applies a delivery worker's status change. Only OutForDelivery and
// Delivered can be requested, and only by the assigned worker.
func (o *Order) UpdateStatus(deliveryID kernel.UUID, target Status, at time.Time) error {
	if !o.IsAssignedTo(deliveryID) {
		return ErrNotAssigned
	}

	switch target { //nolint:exhaustive // other targets are not worker-driven
	case OutForDelivery:
		return o.pickUp(at)
	case Delivered:
		return o.deliver(at)
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"new_status",
			fmt.Errorf("%s cannot be set by a delivery worker", target),
		)
	}
}

func (o *Order) pickUp(at time.Time) error {
	newStatus, err := o.status.TransitionTo(OutForDelivery)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.pickedUpAt = &at
	return nil
}

func (o *Order) deliver(at time.Time) error {
	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.deliveredAt = &at
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if total.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total_price", fmt.Errorf("%s is negative", total))
	}
	o.totalPrice = total
	return nil
}
