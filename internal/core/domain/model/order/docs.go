// Package order provides domain entities and business logic for order
// management in the food-ordering system. It implements the Order aggregate
// root with lifecycle management, readiness time math and pricing.
//
// The package includes:
//   - Order: the aggregate root owning identity, items, timestamps and rating
//   - Status: the lifecycle state machine of an order
//   - Type: the fulfilment type (home delivery or takeaway) with its lead time
//   - Items: the ordered item lines of a purchase
//
// Key business rules:
//   - Orders must have a valid identifier, a known type and at least one item
//   - Quantities are positive and, at placement, every item is on the menu
//   - Discounts are percentages in [0, 100]; ratings, once given, in [1, 5]
//   - The estimated-ready time is placement time plus the type's lead time
//   - Cancellation is a status, never a deletion
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
