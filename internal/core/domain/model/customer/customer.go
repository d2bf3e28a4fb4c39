// Package customer provides the Customer aggregate: account identity,
// profile data and the append-only order history a customer owns.
package customer

import (
	"errors"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	// ErrCustomerIsNotConstructed is returned when using a Customer that was
	// not created via NewCustomer or RestoreCustomer.
	ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")
)

// Customer represents a registered account. The username is the identity; the
// password is an opaque credential compared by equality. A customer owns an
// ordered, append-only history of its orders — the ordering service is the
// only writer of order contents, the customer merely holds the references.
//
// Invariants:
//   - username, password and display name are non-empty at creation
//   - the order history only ever grows, in placement order
type Customer struct {
	// username is the unique account identity
	username string

	// password is the opaque credential, compared by equality
	password string

	// name is the display name
	name string

	// address is the optional delivery address
	address string

	// notificationsEnabled is the notification preference, on by default
	notificationsEnabled bool

	// orders is the append-only history in placement order
	orders []*order.Order

	// guard ensures the customer was created via a constructor
	guard guard.ConstructorGuard
}

// NewCustomer creates a new Customer with validation. Username, password and
// name are all required; notifications start enabled and the address empty.
func NewCustomer(username, password, name string) (*Customer, error) {
	c := &Customer{
		notificationsEnabled: true,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setUsername(username),
		c.setPassword(password),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCustomer reconstructs a Customer from persistent storage, including
// profile fields and the order history in its persisted sequence.
func RestoreCustomer(
	username, password, name, address string,
	notificationsEnabled bool,
	orders []*order.Order,
) (*Customer, error) {
	c := &Customer{
		address:              address,
		notificationsEnabled: notificationsEnabled,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setUsername(username),
		c.setPassword(password),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	c.orders = append([]*order.Order(nil), orders...)

	return c, nil
}

// Validate ensures the Customer instance was properly constructed.
func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// Username returns the unique account identity.
func (c *Customer) Username() string {
	return c.username
}

// Password returns the opaque credential for equality comparison and
// persistence.
func (c *Customer) Password() string {
	return c.password
}

// Name returns the display name.
func (c *Customer) Name() string {
	return c.name
}

// Address returns the optional delivery address.
func (c *Customer) Address() string {
	return c.address
}

// NotificationsEnabled returns the notification preference.
func (c *Customer) NotificationsEnabled() bool {
	return c.notificationsEnabled
}

// Orders returns the customer's order history in placement order. The
// returned slice is a copy; the orders themselves are shared references.
func (c *Customer) Orders() []*order.Order {
	out := make([]*order.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// OrderByID returns the order with the given id from the customer's history,
// or nil when the customer never placed it.
func (c *Customer) OrderByID(id string) *order.Order {
	for _, o := range c.orders {
		if o.ID() == id {
			return o
		}
	}
	return nil
}

// AddOrder appends an order to the history. Only the ordering service calls
// this, right after it created the order.
func (c *Customer) AddOrder(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	c.orders = append(c.orders, o)
	return nil
}

// Rename changes the display name.
func (c *Customer) Rename(name string) error {
	return c.setName(name)
}

// ChangeAddress sets the delivery address. An empty address is allowed; it
// means "not set".
func (c *Customer) ChangeAddress(address string) {
	c.address = address
}

// SetNotificationsEnabled updates the notification preference.
func (c *Customer) SetNotificationsEnabled(enabled bool) {
	c.notificationsEnabled = enabled
}

// setUsername validates and sets the account identity.
// This is a private method used only during construction.
func (c *Customer) setUsername(username string) error {
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}
	c.username = username
	return nil
}

// setPassword validates and sets the credential.
// This is a private method used only during construction.
func (c *Customer) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}
	c.password = password
	return nil
}

// setName validates and sets the display name.
func (c *Customer) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
