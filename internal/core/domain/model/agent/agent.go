// Package agent provides the DeliveryAgent aggregate. An agent is part of a
// fixed, pre-provisioned pool, holds at most one order at a time, and owns the
// assignment and polling-style completion logic for that order.
package agent

import (
	"errors"
	"time"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

// completionTime is the fixed delivery window: an agent considers a held
// order completed this long after assignment.
const completionTime = 2 * time.Minute

var (
	// ErrAgentIsNotConstructed is returned when using a DeliveryAgent that was
	// not created via NewDeliveryAgent or RestoreDeliveryAgent.
	ErrAgentIsNotConstructed = errors.New("DeliveryAgent must be created via NewDeliveryAgent constructor")
)

// DeliveryAgent represents one member of the delivery pool. The agent tracks
// the order it is currently handling as a weak reference — the order's
// lifecycle stays governed by the ordering service — together with an internal
// completion deadline it polls against.
//
// Invariants:
//   - id and name are non-empty
//   - at most one order is held at a time
//   - the held order is in whatever status the agent most recently set
//
// Agents are provisioned once at system start and never created or destroyed
// at runtime.
type DeliveryAgent struct {
	// id is the unique agent identifier within the pool
	id string

	// name is the display name
	name string

	// current is the order being handled, nil when idle
	current *order.Order

	// deadline is the completion instant for the held order, nil when idle
	deadline *time.Time

	// guard ensures the agent was created via a constructor
	guard guard.ConstructorGuard
}

// NewDeliveryAgent creates an idle agent with the given identity.
func NewDeliveryAgent(id, name string) (*DeliveryAgent, error) {
	a := &DeliveryAgent{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreDeliveryAgent reconstructs an agent from persistent storage,
// including the order it was handling and its completion deadline.
func RestoreDeliveryAgent(id, name string, current *order.Order, deadline *time.Time) (*DeliveryAgent, error) {
	a := &DeliveryAgent{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
	); err != nil {
		return nil, err
	}

	if current != nil {
		if err := current.Validate(); err != nil {
			return nil, err
		}
		if deadline == nil {
			return nil, errs.NewValueIsRequiredError("completion deadline")
		}
		a.current = current
		d := *deadline
		a.deadline = &d
	}

	return a, nil
}

// Validate ensures the DeliveryAgent instance was properly constructed.
func (a *DeliveryAgent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// ID returns the unique agent identifier.
func (a *DeliveryAgent) ID() string {
	return a.id
}

// Name returns the display name.
func (a *DeliveryAgent) Name() string {
	return a.name
}

// IsAvailable reports whether the agent is free to take a new order.
func (a *DeliveryAgent) IsAvailable() bool {
	return a.current == nil
}

// CurrentOrder returns the order the agent is handling, or nil when idle.
func (a *DeliveryAgent) CurrentOrder() *order.Order {
	return a.current
}

// Deadline returns the completion instant for the held order, or nil when
// idle.
func (a *DeliveryAgent) Deadline() *time.Time {
	if a.deadline == nil {
		return nil
	}
	d := *a.deadline
	return &d
}

// AssignOrder takes the order only when its estimated-ready instant has
// already strictly passed at the given time. On success the agent holds the
// order, marks it Delivering and arms a completion deadline two minutes out;
// otherwise the call is a no-op. It reports whether the assignment took
// effect.
//
// Assigning an order whose ready time is still in the future therefore does
// nothing — a freshly placed order only gets an agent once a later reconcile
// pass finds it ready. This mirrors the long-standing behavior of the system;
// callers must not assume placement implies assignment.
func (a *DeliveryAgent) AssignOrder(o *order.Order, now time.Time) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	if !o.EstimatedReady().Before(now) {
		return false, nil
	}

	if err := o.UpdateStatus(order.Delivering); err != nil {
		return false, err
	}

	a.current = o
	deadline := now.Add(completionTime)
	a.deadline = &deadline
	return true, nil
}

// CompleteOrder is the agent's polling self-check: if a held order's
// completion deadline has elapsed at the given time, the order is marked
// Completed and the agent becomes idle. It reports whether a completion
// happened. This is invoked opportunistically by the reconcile pass, not by
// any event callback.
func (a *DeliveryAgent) CompleteOrder(now time.Time) (bool, error) {
	if a.current == nil || a.deadline == nil {
		return false, nil
	}

	if a.deadline.After(now) {
		return false, nil
	}

	if err := a.current.UpdateStatus(order.Completed); err != nil {
		return false, err
	}

	a.current = nil
	a.deadline = nil
	return true, nil
}

// UpdateOrderStatus overwrites the held order's status, for transitions such
// as Out for Delivery. A no-op when the agent is idle.
func (a *DeliveryAgent) UpdateOrderStatus(status order.Status) error {
	if a.current == nil {
		return nil
	}
	return a.current.UpdateStatus(status)
}

// Release drops the held order without touching its status. The ordering
// service calls this when a customer cancels or confirms receipt of the order
// the agent was handling.
func (a *DeliveryAgent) Release() {
	a.current = nil
	a.deadline = nil
}

// setID validates and sets the agent identifier.
// This is a private method used only during construction.
func (a *DeliveryAgent) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("agent id")
	}
	a.id = id
	return nil
}

// setName validates and sets the display name.
// This is a private method used only during construction.
func (a *DeliveryAgent) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("agent name")
	}
	a.name = name
	return nil
}
