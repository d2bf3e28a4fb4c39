package order

import (
	"fmt"

	"foodorder/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State machine:
//
//	Placed ──┬──> Delivering ──> Out for Delivery / On the Way ──> Delivered
//	         │         │
//	         │         └──> Completed            (agent-finalized)
//	         └──> Awaiting Delivery Agent
//	Takeaway: Placed ──> Picked Up
//	Cancelled is reachable from any state except Delivered and Completed.
//
// Picked Up, Delivered and Cancelled are terminal for customer-facing time
// reporting; Completed is the agent-finalized terminal state. Transitions are
// mediated by the ordering service and the delivery agent, which overwrite the
// status directly rather than through per-transition methods: the workflow
// intentionally allows the agent to move a held order through intermediate
// delivery states in any order.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Placed is the initial status of every order.
	Placed

	// AwaitingAgent marks a home-delivery order placed while no agent was free.
	AwaitingAgent

	// Delivering means an agent has taken the order.
	Delivering

	// OutForDelivery means the agent reported the order as en route.
	OutForDelivery

	// OnTheWay is an alternative en-route report used interchangeably with
	// OutForDelivery.
	OnTheWay

	// PickedUp is the terminal status of a takeaway order collected by the
	// customer.
	PickedUp

	// Delivered is the terminal status of a home-delivery order confirmed by
	// the customer.
	Delivered

	// Completed is the terminal status an agent sets once its completion
	// deadline has elapsed.
	Completed

	// Cancelled is the terminal status of a withdrawn order.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "Unknown",
		Placed:         "Placed",
		AwaitingAgent:  "Awaiting Delivery Agent",
		Delivering:     "Delivering",
		OutForDelivery: "Out for Delivery",
		OnTheWay:       "On the Way",
		PickedUp:       "Picked Up",
		Delivered:      "Delivered",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Placed:         "Placed",
		AwaitingAgent:  "Awaiting Delivery Agent",
		Delivering:     "Delivering",
		OutForDelivery: "Out for Delivery",
		OnTheWay:       "On the Way",
		PickedUp:       "Picked Up",
		Delivered:      "Delivered",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status. It implements
// fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses the human-readable status name produced by String.
// Used when reconstructing orders from persistence.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}
