// Package catalog holds the static menu configuration consumed by the
// ordering core: the item-to-price table. The catalog is injected
// configuration, never business logic; the core validates order contents
// against it and prices totals with it but never mutates it.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

// ErrCatalogIsNotConstructed is returned when using a Catalog that was not
// created via NewCatalog or LoadFile.
var ErrCatalogIsNotConstructed = errors.New("Catalog must be created via NewCatalog constructor")

// MenuItem is a single priced entry of the menu.
type MenuItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog is the immutable item-to-price lookup table.
//
// Invariants:
//   - at least one item
//   - item names are non-empty and unique
//   - prices are not negative
//
// Items keep their declaration order so that listings render deterministically.
type Catalog struct {
	items  []MenuItem
	prices map[string]float64

	guard guard.ConstructorGuard
}

// NewCatalog creates a validated Catalog from the given menu items.
func NewCatalog(items []MenuItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("menu items")
	}

	prices := make(map[string]float64, len(items))
	for _, item := range items {
		if item.Name == "" {
			return nil, errs.NewValueIsRequiredError("menu item name")
		}
		if item.Price < 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"menu item price",
				fmt.Errorf("%s is priced at %v", item.Name, item.Price),
			)
		}
		if _, exists := prices[item.Name]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"menu item name",
				fmt.Errorf("%s is listed twice", item.Name),
			)
		}
		prices[item.Name] = item.Price
	}

	return &Catalog{
		items:  append([]MenuItem(nil), items...),
		prices: prices,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Default returns the reference menu the system ships with.
func Default() *Catalog {
	cat, err := NewCatalog([]MenuItem{
		{Name: "Pizza", Price: 12.99},
		{Name: "Burger", Price: 8.99},
		{Name: "Salad", Price: 7.50},
		{Name: "Sushi", Price: 15.99},
		{Name: "Pasta", Price: 11.50},
	})
	if err != nil {
		// The reference menu is a compile-time constant; it cannot fail validation.
		panic(err)
	}
	return cat
}

// LoadFile reads a catalog from a JSON file of the form
// {"items": [{"name": "Pizza", "price": 12.99}, ...]}.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file struct {
		Items []MenuItem `json:"items"`
	}
	if err = json.Unmarshal(data, &file); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("catalog file", err)
	}

	return NewCatalog(file.Items)
}

// Validate ensures the Catalog was created through a constructor.
func (c *Catalog) Validate() error {
	if c == nil {
		return ErrCatalogIsNotConstructed
	}
	return c.guard.Validate(ErrCatalogIsNotConstructed)
}

// Items returns the menu entries in declaration order. The returned slice is
// a copy.
func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Price returns the price of the named item and whether the item exists.
func (c *Catalog) Price(name string) (float64, bool) {
	price, ok := c.prices[name]
	return price, ok
}

// Has reports whether the named item is on the menu.
func (c *Catalog) Has(name string) bool {
	_, ok := c.prices[name]
	return ok
}
