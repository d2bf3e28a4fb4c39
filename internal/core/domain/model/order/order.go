package order

import (
	"errors"
	"fmt"
	"time"

	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the NewOrder or RestoreOrder factory functions.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Customer-facing phrases reported by TimeLeft.
const (
	pickedUpPhrase  = "Order has been picked up."
	deliveredPhrase = "Order has been delivered."
	cancelledPhrase = "Order was cancelled."

	// ReadyPhrase is reported once the estimated-ready instant has passed.
	ReadyPhrase = "Order ready for pickup/delivery."
)

// Order represents one purchase. It is the aggregate root that owns the order
// lifecycle from placement through agent assignment to completion, including
// the time math for readiness.
//
// Order follows these invariants:
//   - non-empty id and customer username
//   - a valid order type and at least one item line
//   - every line has a positive quantity and, at placement, a catalog entry
//   - discount is within [0, 100] percent
//   - estimated-ready time is placement time plus the type's fixed lead time
//   - rating, once set, is within [1, 5]
//
// Orders are never deleted; cancellation is a status. Status, rating and
// feedback are mutated only through the ordering service and the delivery
// agent holding the order.
type Order struct {
	// id is the unique identifier, deterministic from placement time and
	// customer username (see NewID)
	id string

	// customerUsername references the owning customer by identity
	customerUsername string

	// orderType selects the fulfilment flow and the preparation lead time
	orderType Type

	// items are the ordered lines; line order is preserved from placement
	items Items

	// placedAt is the placement timestamp
	placedAt time.Time

	// estimatedReady is placedAt plus the order type's lead time
	estimatedReady time.Time

	// status is the current lifecycle state
	status Status

	// specialInstructions is optional free text from the customer
	specialInstructions string

	// discount is a percentage in [0, 100] applied to the total
	discount float64

	// rating is the optional customer rating in [1, 5], set after delivery
	rating *int

	// feedback is the optional rating comment
	feedback string

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewID derives the deterministic order identifier from the placement instant
// and the customer's username. Two orders of the same customer placed within
// the same second collide; the ordering service disambiguates such ids with a
// numeric suffix.
func NewID(placedAt time.Time, customerUsername string) string {
	return fmt.Sprintf("O-%s-%s", placedAt.Format("20060102150405"), customerUsername)
}

// NewOrder creates a new Order in Placed status with validation. This is the
// only way to place a valid order; RestoreOrder exists for reconstruction from
// persistence.
//
// Parameters:
//   - id: unique order identifier (the service derives it via NewID)
//   - customerUsername: identity of the owning customer
//   - orderType: HomeDelivery or Takeaway
//   - items: at least one line, positive quantities, names on the menu
//   - placedAt: placement timestamp (estimated-ready time is derived from it)
//   - specialInstructions: optional free text
//   - discount: percentage in [0, 100]
//   - cat: the menu the items are validated against
//
// Returns the order, or a validation error joining every violated rule.
func NewOrder(
	id string,
	customerUsername string,
	orderType Type,
	items Items,
	placedAt time.Time,
	specialInstructions string,
	discount float64,
	cat *catalog.Catalog,
) (*Order, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		specialInstructions: specialInstructions,
		status:              Placed,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerUsername(customerUsername),
		o.setOrderType(orderType),
		o.setItems(items, cat),
		o.setPlacedAt(placedAt),
		o.setDiscount(discount),
	); err != nil {
		return nil, err
	}

	o.estimatedReady = o.placedAt.Add(o.orderType.LeadTime())
	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage, including its
// status, timestamps and any rating. Unlike NewOrder it does not re-validate
// item names against the current catalog, so a snapshot taken under an older
// menu still loads.
func RestoreOrder(
	id string,
	customerUsername string,
	orderType Type,
	items Items,
	placedAt time.Time,
	estimatedReady time.Time,
	status Status,
	specialInstructions string,
	discount float64,
	rating *int,
	feedback string,
) (*Order, error) {
	o := &Order{
		specialInstructions: specialInstructions,
		feedback:            feedback,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerUsername(customerUsername),
		o.setOrderType(orderType),
		o.setItems(items, nil),
		o.setPlacedAt(placedAt),
		o.setDiscount(discount),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	if estimatedReady.IsZero() {
		return nil, errs.NewValueIsRequiredError("estimated ready time")
	}
	o.estimatedReady = estimatedReady

	if rating != nil {
		if err := o.SetRating(*rating, feedback); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order's unique identifier.
func (o *Order) ID() string {
	return o.id
}

// CustomerUsername returns the username of the customer who placed the order.
func (o *Order) CustomerUsername() string {
	return o.customerUsername
}

// OrderType returns whether the order is home delivery or takeaway.
func (o *Order) OrderType() Type {
	return o.orderType
}

// Items returns a copy of the order's item lines in placement order.
func (o *Order) Items() Items {
	return o.items.Clone()
}

// PlacedAt returns the placement timestamp.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// EstimatedReady returns the instant the order counts as ready.
func (o *Order) EstimatedReady() time.Time {
	return o.estimatedReady
}

// Status returns the current lifecycle state of the order.
func (o *Order) Status() Status {
	return o.status
}

// SpecialInstructions returns the optional free-text instructions.
func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

// Discount returns the discount percentage in [0, 100].
func (o *Order) Discount() float64 {
	return o.discount
}

// Rating returns the customer rating in [1, 5], or nil when the order has not
// been rated.
func (o *Order) Rating() *int {
	if o.rating == nil {
		return nil
	}
	r := *o.rating
	return &r
}

// Feedback returns the optional rating comment.
func (o *Order) Feedback() string {
	return o.feedback
}

// UpdateStatus overwrites the order's lifecycle state. The workflow is
// deliberately permissive: the ordering service and the holding agent drive
// transitions and each validates its own preconditions before calling this.
func (o *Order) UpdateStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	o.status = status
	return nil
}

// SetRating records the customer's rating and feedback. The rating must be
// within [1, 5]; the ordering service additionally ensures the order has been
// delivered before accepting a rating.
func (o *Order) SetRating(rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	o.rating = &rating
	o.feedback = feedback
	return nil
}

// TimeLeft reports the order's remaining preparation time as a human-readable
// phrase at the given instant.
//
// Picked-up, delivered and cancelled orders report a fixed phrase for their
// status. Any other order reports ReadyPhrase once the estimated-ready instant
// has passed, and otherwise the remaining duration broken into hours and
// minutes, or minutes and seconds below one hour.
func (o *Order) TimeLeft(now time.Time) string {
	switch o.status {
	case PickedUp:
		return pickedUpPhrase
	case Delivered:
		return deliveredPhrase
	case Cancelled:
		return cancelledPhrase
	}

	remaining := o.estimatedReady.Sub(now)
	if remaining <= 0 {
		return ReadyPhrase
	}

	totalSeconds := int(remaining.Seconds())
	minutes, seconds := totalSeconds/60, totalSeconds%60
	hours, minutes := minutes/60, minutes%60

	if hours > 0 {
		return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
	}
	return fmt.Sprintf("%d minutes, %d seconds", minutes, seconds)
}

// IsReadyForPickup reports whether the order is ready at the given instant:
// its status is non-terminal and the estimated-ready time has been reached.
func (o *Order) IsReadyForPickup(now time.Time) bool {
	switch o.status {
	case PickedUp, Delivered, Cancelled:
		return false
	}

	return !now.Before(o.estimatedReady)
}

// Total computes the order price: the sum of catalog price times quantity over
// all lines, reduced by the discount percentage. Lines absent from the given
// catalog contribute zero.
func (o *Order) Total(cat *catalog.Catalog) float64 {
	var subtotal float64
	for _, line := range o.items {
		price, _ := cat.Price(line.Name)
		subtotal += price * float64(line.Quantity)
	}

	if o.discount > 0 {
		subtotal *= 1 - o.discount/100
	}
	return subtotal
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	o.id = id
	return nil
}

// setCustomerUsername validates and sets the owning customer's username.
// This is a private method used only during construction.
func (o *Order) setCustomerUsername(username string) error {
	if username == "" {
		return errs.NewValueIsRequiredError("customer username")
	}
	o.customerUsername = username
	return nil
}

// setOrderType validates and sets the order type.
// This is a private method used only during construction.
func (o *Order) setOrderType(orderType Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	o.orderType = orderType
	return nil
}

// setItems validates and sets the item lines. When a catalog is given, every
// line name must be on the menu. This is a private method used only during
// construction.
func (o *Order) setItems(items Items, cat *catalog.Catalog) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}

	seen := make(map[string]bool, len(items))
	for _, line := range items {
		if line.Name == "" {
			return errs.NewValueIsRequiredError("item name")
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("quantity %d for %s is not positive", line.Quantity, line.Name),
			)
		}
		if seen[line.Name] {
			return errs.NewValueIsInvalidErrorWithCause(
				"order items",
				fmt.Errorf("%s is listed twice", line.Name),
			)
		}
		seen[line.Name] = true

		if cat != nil && !cat.Has(line.Name) {
			return errs.NewValueIsInvalidErrorWithCause(
				"order items",
				fmt.Errorf("item %q is not available in the menu", line.Name),
			)
		}
	}

	o.items = items.Clone()
	return nil
}

// setPlacedAt validates and sets the placement timestamp.
// This is a private method used only during construction.
func (o *Order) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placement time")
	}
	o.placedAt = placedAt
	return nil
}

// setDiscount validates and sets the discount percentage.
// This is a private method used only during construction.
func (o *Order) setDiscount(discount float64) error {
	if discount < 0 || discount > 100 {
		return errs.NewValueIsOutOfRangeError("discount", discount, 0, 100)
	}
	o.discount = discount
	return nil
}

// setStatus validates and sets the lifecycle state during restoration.
// This is a private method used only during construction.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
