// Package ports defines the interfaces the application core requires from
// its driven adapters, together with the data transfer types crossing them.
package ports

import (
	"context"
	"time"
)

// SnapshotStore persists the entire system state as one opaque snapshot.
// Save replaces any previous snapshot atomically; Load returns the latest
// snapshot, or nil when none has ever been saved.
//
// The store is the system's only I/O boundary. Implementations must treat a
// snapshot as a whole: partial writes must never become visible to Load.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Snapshot is the full persisted system state. Orders are stored once, in the
// canonical global list; customer histories and agent assignments reference
// them by order id.
type Snapshot struct {
	Customers  []CustomerSnapshot  `json:"customers"`
	Orders     []OrderSnapshot     `json:"orders"`
	Agents     []AgentSnapshot     `json:"agents"`
	PromoCodes []PromoCodeSnapshot `json:"promo_codes"`
}

// CustomerSnapshot is the persisted form of one customer account.
type CustomerSnapshot struct {
	Username             string   `json:"username"`
	Password             string   `json:"password"`
	Name                 string   `json:"name"`
	Address              string   `json:"address,omitempty"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	OrderIDs             []string `json:"order_ids"`
}

// OrderSnapshot is the persisted form of one order.
type OrderSnapshot struct {
	ID                  string         `json:"id"`
	CustomerUsername    string         `json:"customer_username"`
	OrderType           string         `json:"order_type"`
	Items               []ItemSnapshot `json:"items"`
	PlacedAt            time.Time      `json:"placed_at"`
	EstimatedReady      time.Time      `json:"estimated_ready"`
	Status              string         `json:"status"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	Discount            float64        `json:"discount"`
	Rating              *int           `json:"rating,omitempty"`
	Feedback            string         `json:"feedback,omitempty"`
}

// ItemSnapshot is one persisted item line of an order.
type ItemSnapshot struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// AgentSnapshot is the persisted form of one delivery agent, including the
// order it was handling and its completion deadline, if any.
type AgentSnapshot struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	CurrentOrderID *string    `json:"current_order_id,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// PromoCodeSnapshot is one persisted promo-code entry.
type PromoCodeSnapshot struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}
