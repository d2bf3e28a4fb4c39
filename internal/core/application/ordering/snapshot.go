package ordering

import (
	"fmt"
	"sort"

	"foodorder/internal/core/domain/model/agent"
	"foodorder/internal/core/domain/model/customer"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/core/ports"
	"foodorder/internal/pkg/errs"
)

// snapshot captures the full in-memory state as a persistable snapshot.
// Orders are serialized once from the global list; customer histories and
// agent assignments carry order-id references. Map-backed collections are
// sorted so repeated snapshots of the same state are byte-identical.
// Called with the service lock held.
func (s *Service) snapshot() *ports.Snapshot {
	snap := &ports.Snapshot{
		Customers:  make([]ports.CustomerSnapshot, 0, len(s.customers)),
		Orders:     make([]ports.OrderSnapshot, 0, len(s.orders)),
		Agents:     make([]ports.AgentSnapshot, 0, len(s.agents)),
		PromoCodes: make([]ports.PromoCodeSnapshot, 0, len(s.promoCodes)),
	}

	for _, o := range s.orders {
		snap.Orders = append(snap.Orders, orderToSnapshot(o))
	}

	for _, c := range s.customers {
		orderIDs := make([]string, 0, len(c.Orders()))
		for _, o := range c.Orders() {
			orderIDs = append(orderIDs, o.ID())
		}
		snap.Customers = append(snap.Customers, ports.CustomerSnapshot{
			Username:             c.Username(),
			Password:             c.Password(),
			Name:                 c.Name(),
			Address:              c.Address(),
			NotificationsEnabled: c.NotificationsEnabled(),
			OrderIDs:             orderIDs,
		})
	}
	sort.Slice(snap.Customers, func(i, j int) bool {
		return snap.Customers[i].Username < snap.Customers[j].Username
	})

	for _, a := range s.agents {
		as := ports.AgentSnapshot{
			ID:       a.ID(),
			Name:     a.Name(),
			Deadline: a.Deadline(),
		}
		if current := a.CurrentOrder(); current != nil {
			id := current.ID()
			as.CurrentOrderID = &id
		}
		snap.Agents = append(snap.Agents, as)
	}

	for code, discount := range s.promoCodes {
		snap.PromoCodes = append(snap.PromoCodes, ports.PromoCodeSnapshot{Code: code, Discount: discount})
	}
	sort.Slice(snap.PromoCodes, func(i, j int) bool {
		return snap.PromoCodes[i].Code < snap.PromoCodes[j].Code
	})

	return snap
}

// restore replaces the service state with the snapshot's contents. Orders are
// rebuilt first; customers and agents then resolve their order-id references
// against them, so shared identity survives the round trip. The state is only
// swapped in once the whole snapshot restored cleanly.
func (s *Service) restore(snap *ports.Snapshot) error {
	orders := make([]*order.Order, 0, len(snap.Orders))
	ordersByID := make(map[string]*order.Order, len(snap.Orders))
	for _, os := range snap.Orders {
		o, err := orderFromSnapshot(os)
		if err != nil {
			return fmt.Errorf("restore order %s: %w", os.ID, err)
		}
		if _, dup := ordersByID[o.ID()]; dup {
			return fmt.Errorf("restore order %s: %w", os.ID,
				errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("duplicate id in snapshot")))
		}
		orders = append(orders, o)
		ordersByID[o.ID()] = o
	}

	customers := make(map[string]*customer.Customer, len(snap.Customers))
	for _, cs := range snap.Customers {
		history := make([]*order.Order, 0, len(cs.OrderIDs))
		for _, id := range cs.OrderIDs {
			o, found := ordersByID[id]
			if !found {
				return fmt.Errorf("restore customer %s: %w", cs.Username,
					errs.NewObjectNotFoundError("orderId", id))
			}
			history = append(history, o)
		}

		c, err := customer.RestoreCustomer(
			cs.Username, cs.Password, cs.Name, cs.Address,
			cs.NotificationsEnabled, history,
		)
		if err != nil {
			return fmt.Errorf("restore customer %s: %w", cs.Username, err)
		}
		customers[c.Username()] = c
	}

	agents := make([]*agent.DeliveryAgent, 0, len(snap.Agents))
	for _, as := range snap.Agents {
		var current *order.Order
		if as.CurrentOrderID != nil {
			o, found := ordersByID[*as.CurrentOrderID]
			if !found {
				return fmt.Errorf("restore agent %s: %w", as.ID,
					errs.NewObjectNotFoundError("orderId", *as.CurrentOrderID))
			}
			current = o
		}

		a, err := agent.RestoreDeliveryAgent(as.ID, as.Name, current, as.Deadline)
		if err != nil {
			return fmt.Errorf("restore agent %s: %w", as.ID, err)
		}
		agents = append(agents, a)
	}

	promoCodes := make(map[string]float64, len(snap.PromoCodes))
	for _, ps := range snap.PromoCodes {
		promoCodes[ps.Code] = ps.Discount
	}

	s.orders = orders
	s.customers = customers
	s.agents = agents
	s.promoCodes = promoCodes
	return nil
}

func orderToSnapshot(o *order.Order) ports.OrderSnapshot {
	items := make([]ports.ItemSnapshot, 0, len(o.Items()))
	for _, line := range o.Items() {
		items = append(items, ports.ItemSnapshot{Name: line.Name, Quantity: line.Quantity})
	}

	return ports.OrderSnapshot{
		ID:                  o.ID(),
		CustomerUsername:    o.CustomerUsername(),
		OrderType:           o.OrderType().String(),
		Items:               items,
		PlacedAt:            o.PlacedAt(),
		EstimatedReady:      o.EstimatedReady(),
		Status:              o.Status().String(),
		SpecialInstructions: o.SpecialInstructions(),
		Discount:            o.Discount(),
		Rating:              o.Rating(),
		Feedback:            o.Feedback(),
	}
}

func orderFromSnapshot(os ports.OrderSnapshot) (*order.Order, error) {
	orderType, err := order.TypeFromString(os.OrderType)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(os.Status)
	if err != nil {
		return nil, err
	}

	items := make(order.Items, 0, len(os.Items))
	for _, line := range os.Items {
		items = append(items, order.Line{Name: line.Name, Quantity: line.Quantity})
	}

	return order.RestoreOrder(
		os.ID,
		os.CustomerUsername,
		orderType,
		items,
		os.PlacedAt,
		os.EstimatedReady,
		status,
		os.SpecialInstructions,
		os.Discount,
		os.Rating,
		os.Feedback,
	)
}
