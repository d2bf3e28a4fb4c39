package order

import (
	"fmt"
	"time"

	"foodorder/internal/pkg/errs"
)

// Fixed preparation lead times per order type. A home-delivery order is
// considered ready two minutes after placement, a takeaway order after ten.
const (
	homeDeliveryLeadTime = 2 * time.Minute
	takeawayLeadTime     = 10 * time.Minute
)

// Type distinguishes how an order leaves the restaurant: brought to the
// customer by a delivery agent, or collected at the counter.
type Type int

const (
	// TypeUnknown represents an invalid or undefined order type.
	TypeUnknown Type = iota

	// HomeDelivery orders are assigned to a delivery agent.
	HomeDelivery

	// Takeaway orders are collected by the customer.
	Takeaway
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:  "Unknown",
		HomeDelivery: "Home Delivery",
		Takeaway:     "Takeaway",
	}
}

func getValidTypeStrings() map[Type]string {
	//nolint:exhaustive // TypeUnknown is intentionally excluded as it's invalid
	return map[Type]string{
		HomeDelivery: "Home Delivery",
		Takeaway:     "Takeaway",
	}
}

// Validate checks if the Type value is one of the defined order types.
func (t Type) Validate() error {
	if _, ok := getValidTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// String returns the human-readable name of the order type. It implements
// fmt.Stringer and is safe to call on any Type value.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// TypeFromString parses the human-readable type name produced by String.
// Used when reconstructing orders from persistence and when binding requests.
func TypeFromString(s string) (Type, error) {
	for t, str := range getValidTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%q is not a valid order type", s))
}

// LeadTime returns the fixed preparation time after which an order of this
// type counts as ready.
func (t Type) LeadTime() time.Duration {
	if t == HomeDelivery {
		return homeDeliveryLeadTime
	}
	return takeawayLeadTime
}
