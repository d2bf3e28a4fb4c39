package ordering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodorder/internal/core/domain/model/agent"
	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/core/domain/model/customer"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/core/ports"
	"foodorder/internal/pkg/errs"
)

// Default manager credentials, overridable via WithManagerCredentials.
const (
	defaultManagerUsername = "manager"
	defaultManagerPassword = "manager123"
)

// Typed state errors. Every operation validates before mutating, so a
// returned error always means the system state is unchanged.
var (
	ErrUsernameAlreadyTaken   = errors.New("username already exists")
	ErrIncorrectPassword      = errors.New("incorrect password")
	ErrCancelAfterDelivery    = errors.New("cannot cancel an order that has already been delivered")
	ErrAgentAlreadyOnTheWay   = errors.New("cannot cancel order as delivery agent is already on the way")
	ErrRatingRequiresDelivery = errors.New("can only rate orders that have been delivered")
	ErrOrderNotReady          = errors.New("order is not ready for pickup/delivery yet")
	ErrAlreadyPickedUp        = errors.New("order has already been picked up")
	ErrNotOutForDelivery      = errors.New("order is not out for delivery yet")
	ErrAlreadyDelivered       = errors.New("order has already been marked as delivered")
)

// ManagerCredentials is the single fixed credential pair granting access to
// the reporting view. Checked by plain equality.
type ManagerCredentials struct {
	Username string
	Password string
}

// Service is the ordering façade: it orchestrates order creation, delivery
// agent assignment, cancellation, delivery confirmation and reporting reads,
// and mediates every cross-entity mutation. All state lives in memory as one
// object graph; each successful mutating operation saves a full snapshot
// through the injected store.
//
// The system model is a single sequential actor. The mutex below only
// serializes the HTTP adapter's goroutines and the reconcile tick onto that
// model; there is no finer-grained locking discipline.
//
// Time-based transitions (agent completion, ready-order assignment) are
// lazy: they happen only when CheckUnassignedOrders runs, either from the
// scheduler tick or before a customer-facing operation. Callers must not
// assume any background process advances order status on its own.
type Service struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	store   ports.SnapshotStore
	logger  *slog.Logger
	now     func() time.Time

	// customers indexes accounts by username
	customers map[string]*customer.Customer

	// orders is the canonical global list, in placement order; every entry
	// also appears in exactly one customer's history
	orders []*order.Order

	// agents is the fixed delivery pool, scanned in provisioning order
	agents []*agent.DeliveryAgent

	// promoCodes maps promo code to discount percentage
	promoCodes map[string]float64

	manager ManagerCredentials
}

// Option customizes a Service at construction time.
type Option func(*Service)

// WithClock replaces the service's time source. Tests use this to drive
// lead times and completion deadlines deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPromoCodes replaces the default promo-code table.
func WithPromoCodes(codes map[string]float64) Option {
	return func(s *Service) {
		s.promoCodes = make(map[string]float64, len(codes))
		for code, discount := range codes {
			s.promoCodes[code] = discount
		}
	}
}

// WithManagerCredentials replaces the default manager credential pair.
func WithManagerCredentials(username, password string) Option {
	return func(s *Service) {
		s.manager = ManagerCredentials{Username: username, Password: password}
	}
}

func defaultPromoCodes() map[string]float64 {
	return map[string]float64{
		"WELCOME50": 50,
		"SAVE10":    10,
		"FREESHIP":  15,
	}
}

// NewService creates a Service with an empty customer base and order list.
// The catalog and the agent pool are injected configuration; agents keep
// their slice order as the pool scan order.
func NewService(
	cat *catalog.Catalog,
	agents []*agent.DeliveryAgent,
	store ports.SnapshotStore,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("snapshot store")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	seen := make(map[string]bool, len(agents))
	for _, a := range agents {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if seen[a.ID()] {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"agent pool",
				fmt.Errorf("agent id %s is provisioned twice", a.ID()),
			)
		}
		seen[a.ID()] = true
	}

	s := &Service{
		catalog:    cat,
		store:      store,
		logger:     logger.With("component", "ordering_service"),
		now:        time.Now,
		customers:  make(map[string]*customer.Customer),
		agents:     append([]*agent.DeliveryAgent(nil), agents...),
		promoCodes: defaultPromoCodes(),
		manager:    ManagerCredentials{Username: defaultManagerUsername, Password: defaultManagerPassword},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// LoadService creates a Service and restores the latest snapshot from the
// store. A missing, unreadable or corrupt snapshot degrades to a fresh empty
// state: the failure is logged, never surfaced.
func LoadService(
	ctx context.Context,
	cat *catalog.Catalog,
	agents []*agent.DeliveryAgent,
	store ports.SnapshotStore,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	s, err := NewService(cat, agents, store, logger, opts...)
	if err != nil {
		return nil, err
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load snapshot, starting with a fresh state", "error", err)
		return s, nil
	}
	if snapshot == nil {
		return s, nil
	}

	if err = s.restore(snapshot); err != nil {
		s.logger.WarnContext(ctx, "Failed to restore snapshot, starting with a fresh state", "error", err)
	}
	return s, nil
}

// Catalog returns the injected menu.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// RegisterCustomer creates a new account. It fails when the username is
// already taken or any field is empty.
func (s *Service) RegisterCustomer(ctx context.Context, username, password, name string) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.customers[username]; taken {
		return nil, ErrUsernameAlreadyTaken
	}

	c, err := customer.NewCustomer(username, password, name)
	if err != nil {
		return nil, err
	}

	s.customers[username] = c
	if err = s.saveState(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// LoginCustomer authenticates an account by username and password equality.
func (s *Service) LoginCustomer(username, password string) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.customers[username]
	if !found {
		return nil, errs.NewObjectNotFoundError("username", username)
	}
	if c.Password() != password {
		return nil, ErrIncorrectPassword
	}
	return c, nil
}

// LoginManager checks the fixed manager credential pair by equality.
func (s *Service) LoginManager(username, password string) bool {
	return username == s.manager.Username && password == s.manager.Password
}

// PlaceOrderParams carries the optional arguments of PlaceOrder. A non-empty
// PromoCode overrides Discount.
type PlaceOrderParams struct {
	SpecialInstructions string
	Discount            float64
	PromoCode           string
}

// PlaceOrder validates and creates a new order for the customer, appending it
// to both the customer's history and the global list. Home-delivery orders
// are offered to the first available agent in pool order; when no agent is
// free the order is parked in Awaiting Delivery Agent status instead of
// failing. Persists on success.
func (s *Service) PlaceOrder(
	ctx context.Context,
	cust *customer.Customer,
	orderType order.Type,
	items order.Items,
	params PlaceOrderParams,
) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.placeOrder(ctx, cust, orderType, items, params)
}

// placeOrder is PlaceOrder with the service lock already held.
func (s *Service) placeOrder(
	ctx context.Context,
	cust *customer.Customer,
	orderType order.Type,
	items order.Items,
	params PlaceOrderParams,
) (*order.Order, error) {
	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return nil, err
	}

	discount := params.Discount
	if params.PromoCode != "" {
		promoDiscount, known := s.promoCodes[params.PromoCode]
		if !known {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"promo code",
				fmt.Errorf("invalid promo code: %s", params.PromoCode),
			)
		}
		discount = promoDiscount
	}

	now := s.now()
	o, err := order.NewOrder(
		s.nextOrderID(now, cust.Username()),
		cust.Username(),
		orderType,
		items,
		now,
		params.SpecialInstructions,
		discount,
		s.catalog,
	)
	if err != nil {
		return nil, err
	}

	if err = cust.AddOrder(o); err != nil {
		return nil, err
	}
	s.orders = append(s.orders, o)

	if orderType == order.HomeDelivery {
		if !s.offerToPool(o, now) {
			if err = o.UpdateStatus(order.AwaitingAgent); err != nil {
				return nil, err
			}
		}
	}

	if err = s.saveState(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// offerToPool hands the order to the first available agent in pool order and
// reports whether any agent was free to take it. Note that an available
// agent's AssignOrder may still decline silently when the order is not ready
// yet; the order then simply stays Placed until a reconcile pass.
func (s *Service) offerToPool(o *order.Order, now time.Time) bool {
	for _, a := range s.agents {
		if !a.IsAvailable() {
			continue
		}

		if _, err := a.AssignOrder(o, now); err != nil {
			s.logger.Warn("Agent refused order", "agent", a.ID(), "order", o.ID(), "error", err)
			continue
		}
		return true
	}
	return false
}

// CheckUnassignedOrders runs one reconcile pass: every agent polls its
// completion deadline, then every ready home-delivery order still in Placed
// status is offered to the first available agent. It returns the number of
// agent completion polls plus attempted assignments, and persists the state.
//
// This is the system's only clock-driven advancement. It is invoked by the
// scheduler tick and opportunistically before customer-facing operations.
func (s *Service) CheckUnassignedOrders(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reconcile(ctx)
}

// reconcile is CheckUnassignedOrders with the service lock already held.
func (s *Service) reconcile(ctx context.Context) (int, error) {
	now := s.now()
	count := 0

	for _, a := range s.agents {
		completed, err := a.CompleteOrder(now)
		if err != nil {
			return count, err
		}
		if completed {
			s.logger.Debug("Agent completed its order", "agent", a.ID())
		}
		count++
	}

	for _, o := range s.orders {
		if o.OrderType() != order.HomeDelivery || o.Status() != order.Placed {
			continue
		}
		if !o.IsReadyForPickup(now) {
			continue
		}

		for _, a := range s.agents {
			if !a.IsAvailable() || o.Status() == order.Delivering {
				continue
			}

			assigned, err := a.AssignOrder(o, now)
			if err != nil {
				return count, err
			}
			if assigned {
				s.logger.Debug("Assigned order to agent", "agent", a.ID(), "order", o.ID())
			}
			count++
			break
		}
	}

	if count > 0 {
		if err := s.saveState(ctx); err != nil {
			return count, err
		}
	}
	return count, nil
}

// CancelOrder withdraws one of the customer's orders. Delivered and completed
// orders cannot be cancelled, nor can an order whose agent is already
// reported en route. Cancelling frees any agent holding the order and
// triggers a reconcile pass to backfill the freed capacity.
func (s *Service) CancelOrder(ctx context.Context, cust *customer.Customer, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return err
	}

	o := cust.OrderByID(orderID)
	if o == nil {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}

	if o.Status() == order.Delivered || o.Status() == order.Completed {
		return ErrCancelAfterDelivery
	}

	for _, a := range s.agents {
		current := a.CurrentOrder()
		if current == nil || current.ID() != orderID {
			continue
		}
		if o.Status() == order.OutForDelivery || o.Status() == order.OnTheWay {
			return ErrAgentAlreadyOnTheWay
		}
		a.Release()
		break
	}

	if err = o.UpdateStatus(order.Cancelled); err != nil {
		return err
	}
	if err = s.saveState(ctx); err != nil {
		return err
	}

	_, err = s.reconcile(ctx)
	return err
}

// RateOrder records a rating in [1, 5] with optional feedback on one of the
// customer's delivered orders.
func (s *Service) RateOrder(ctx context.Context, cust *customer.Customer, orderID string, rating int, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rating < 1 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return err
	}

	o := cust.OrderByID(orderID)
	if o == nil {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}
	if o.Status() != order.Delivered {
		return ErrRatingRequiresDelivery
	}

	if err = o.SetRating(rating, feedback); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// MarkOrderReceived confirms that the customer has the order in hand. It
// fails before the estimated-ready time. Takeaway orders transition to
// Picked Up exactly once. Home-delivery orders must be en route (or already
// delivered, which fails as a repeat confirmation); confirming sets
// Delivered, frees the handling agent and triggers a reconcile pass.
func (s *Service) MarkOrderReceived(ctx context.Context, cust *customer.Customer, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return err
	}

	o := cust.OrderByID(orderID)
	if o == nil {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}

	now := s.now()
	if o.EstimatedReady().After(now) {
		return ErrOrderNotReady
	}

	if o.OrderType() == order.Takeaway {
		if o.Status() == order.Completed || o.Status() == order.PickedUp {
			return ErrAlreadyPickedUp
		}
		if err = o.UpdateStatus(order.PickedUp); err != nil {
			return err
		}
		return s.saveState(ctx)
	}

	switch o.Status() {
	case order.OutForDelivery, order.OnTheWay:
	case order.Delivered:
		return ErrAlreadyDelivered
	default:
		return ErrNotOutForDelivery
	}

	if err = o.UpdateStatus(order.Delivered); err != nil {
		return err
	}

	for _, a := range s.agents {
		current := a.CurrentOrder()
		if current == nil || current.ID() != orderID {
			continue
		}

		a.Release()
		if err = s.saveState(ctx); err != nil {
			return err
		}
		_, err = s.reconcile(ctx)
		return err
	}

	// No agent was tracking the order; the confirmation still stands.
	return s.saveState(ctx)
}

// ReorderPrevious places a fresh order copying the item lines and special
// instructions of a prior order of the customer. Discounts and promo codes
// are not carried over.
func (s *Service) ReorderPrevious(ctx context.Context, cust *customer.Customer, orderID string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return nil, err
	}

	previous := cust.OrderByID(orderID)
	if previous == nil {
		return nil, errs.NewObjectNotFoundError("orderId", orderID)
	}

	return s.placeOrder(ctx, cust, previous.OrderType(), previous.Items(), PlaceOrderParams{
		SpecialInstructions: previous.SpecialInstructions(),
	})
}

// CustomerOrders returns the customer's full order history in placement
// order.
func (s *Service) CustomerOrders(cust *customer.Customer) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return nil, err
	}
	return cust.Orders(), nil
}

// OrdersByDateRange returns the customer's orders placed within [start, end],
// bounds inclusive.
func (s *Service) OrdersByDateRange(cust *customer.Customer, start, end time.Time) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cust, err := s.resolveCustomer(cust)
	if err != nil {
		return nil, err
	}

	var filtered []*order.Order
	for _, o := range cust.Orders() {
		if !o.PlacedAt().Before(start) && !o.PlacedAt().After(end) {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// OrderDetails is the detailed read model of one order.
type OrderDetails struct {
	OrderID             string
	CustomerUsername    string
	CustomerName        string
	OrderType           order.Type
	Items               order.Items
	Status              order.Status
	PlacedAt            time.Time
	EstimatedReady      time.Time
	SpecialInstructions string
	Discount            float64
	Total               float64
	TimeLeft            string
}

// GetOrderDetails looks an order up in the global list by id, regardless of
// which customer placed it.
func (s *Service) GetOrderDetails(orderID string) (OrderDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID() != orderID {
			continue
		}

		customerName := "Unknown"
		if c, found := s.customers[o.CustomerUsername()]; found {
			customerName = c.Name()
		}

		return OrderDetails{
			OrderID:             o.ID(),
			CustomerUsername:    o.CustomerUsername(),
			CustomerName:        customerName,
			OrderType:           o.OrderType(),
			Items:               o.Items(),
			Status:              o.Status(),
			PlacedAt:            o.PlacedAt(),
			EstimatedReady:      o.EstimatedReady(),
			SpecialInstructions: o.SpecialInstructions(),
			Discount:            o.Discount(),
			Total:               o.Total(s.catalog),
			TimeLeft:            o.TimeLeft(s.now()),
		}, nil
	}

	return OrderDetails{}, errs.NewObjectNotFoundError("orderId", orderID)
}

// UpdateCustomerProfile changes the display name and/or address of an
// account. Empty arguments leave the corresponding field untouched.
func (s *Service) UpdateCustomerProfile(ctx context.Context, username, name, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.customers[username]
	if !found {
		return errs.NewObjectNotFoundError("username", username)
	}

	if name != "" {
		if err := c.Rename(name); err != nil {
			return err
		}
	}
	if address != "" {
		c.ChangeAddress(address)
	}

	return s.saveState(ctx)
}

// UpdateNotificationPreferences toggles the customer's notification setting.
func (s *Service) UpdateNotificationPreferences(ctx context.Context, username string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.customers[username]
	if !found {
		return errs.NewObjectNotFoundError("username", username)
	}

	c.SetNotificationsEnabled(enabled)
	return s.saveState(ctx)
}

// AllOrders returns a copy of the canonical global order list in placement
// order. Reports are computed over this enumeration.
func (s *Service) AllOrders() []*order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*order.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Agents returns a copy of the delivery pool in scan order.
func (s *Service) Agents() []*agent.DeliveryAgent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*agent.DeliveryAgent, len(s.agents))
	copy(out, s.agents)
	return out
}

// resolveCustomer maps a customer handle back to the account held by the
// service, guarding against stale or foreign handles.
func (s *Service) resolveCustomer(cust *customer.Customer) (*customer.Customer, error) {
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	c, found := s.customers[cust.Username()]
	if !found {
		return nil, errs.NewObjectNotFoundError("username", cust.Username())
	}
	return c, nil
}

// nextOrderID derives a unique order id from the placement instant and the
// customer's username, suffixing a sequence number when two orders of the
// same customer land in the same second.
func (s *Service) nextOrderID(now time.Time, username string) string {
	base := order.NewID(now, username)
	if !s.orderIDExists(base) {
		return base
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !s.orderIDExists(candidate) {
			return candidate
		}
	}
}

func (s *Service) orderIDExists(id string) bool {
	for _, o := range s.orders {
		if o.ID() == id {
			return true
		}
	}
	return false
}

// saveState persists the full state snapshot. Called after every successful
// mutation with the service lock held.
func (s *Service) saveState(ctx context.Context) error {
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
