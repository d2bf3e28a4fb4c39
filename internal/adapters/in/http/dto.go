package http

import (
	"time"

	"foodorder/internal/core/application/ordering"
	"foodorder/internal/core/domain/model/order"
)

// Error is the uniform error payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RegisterRequest is the payload of POST /api/v1/customers.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CustomerResponse is the customer profile view.
type CustomerResponse struct {
	Username             string `json:"username"`
	Name                 string `json:"name"`
	Address              string `json:"address,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// ItemLine is one item line in requests and responses.
type ItemLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest is the payload of POST /api/v1/orders.
type PlaceOrderRequest struct {
	OrderType           string     `json:"order_type"`
	Items               []ItemLine `json:"items"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	Discount            float64    `json:"discount,omitempty"`
	PromoCode           string     `json:"promo_code,omitempty"`
}

// OrderResponse is the customer-facing order view.
type OrderResponse struct {
	ID                  string     `json:"id"`
	OrderType           string     `json:"order_type"`
	Items               []ItemLine `json:"items"`
	Status              string     `json:"status"`
	PlacedAt            time.Time  `json:"placed_at"`
	EstimatedReady      time.Time  `json:"estimated_ready"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	Discount            float64    `json:"discount"`
	Rating              *int       `json:"rating,omitempty"`
	Feedback            string     `json:"feedback,omitempty"`
	TimeLeft            string     `json:"time_left"`
}

// OrderDetailsResponse extends the order view with customer identity and the
// priced total, for the lookup-by-id endpoint.
type OrderDetailsResponse struct {
	OrderResponse
	CustomerUsername string  `json:"customer_username"`
	CustomerName     string  `json:"customer_name"`
	Total            float64 `json:"total"`
}

// RateOrderRequest is the payload of POST /api/v1/orders/:id/rating.
type RateOrderRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

// UpdateProfileRequest is the payload of PUT /api/v1/profile.
type UpdateProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// NotificationsRequest is the payload of PUT /api/v1/profile/notifications.
type NotificationsRequest struct {
	Enabled bool `json:"enabled"`
}

// RestaurantReportResponse is the manager statistics view.
type RestaurantReportResponse struct {
	TotalOrders        int     `json:"total_orders"`
	HomeDeliveryOrders int     `json:"home_delivery_orders"`
	TakeawayOrders     int     `json:"takeaway_orders"`
	Revenue            float64 `json:"revenue"`
	AverageLeadTime    string  `json:"average_lead_time"`
	Text               string  `json:"text"`
}

// PopularItemResponse is one entry of the popularity ranking.
type PopularItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PopularItemsResponse is the manager popularity view.
type PopularItemsResponse struct {
	Rankings    []PopularItemResponse `json:"rankings"`
	MostPopular *PopularItemResponse  `json:"most_popular,omitempty"`
	Text        string                `json:"text"`
}

// AgentResponse is the manager view of one delivery agent.
type AgentResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Available      bool       `json:"available"`
	CurrentOrderID *string    `json:"current_order_id,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// MenuItemResponse is one priced menu entry.
type MenuItemResponse struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func toOrderResponse(o *order.Order, now time.Time) OrderResponse {
	items := make([]ItemLine, 0, len(o.Items()))
	for _, line := range o.Items() {
		items = append(items, ItemLine{Name: line.Name, Quantity: line.Quantity})
	}

	return OrderResponse{
		ID:                  o.ID(),
		OrderType:           o.OrderType().String(),
		Items:               items,
		Status:              o.Status().String(),
		PlacedAt:            o.PlacedAt(),
		EstimatedReady:      o.EstimatedReady(),
		SpecialInstructions: o.SpecialInstructions(),
		Discount:            o.Discount(),
		Rating:              o.Rating(),
		Feedback:            o.Feedback(),
		TimeLeft:            o.TimeLeft(now),
	}
}

func toOrderDetailsResponse(details ordering.OrderDetails) OrderDetailsResponse {
	items := make([]ItemLine, 0, len(details.Items))
	for _, line := range details.Items {
		items = append(items, ItemLine{Name: line.Name, Quantity: line.Quantity})
	}

	return OrderDetailsResponse{
		OrderResponse: OrderResponse{
			ID:                  details.OrderID,
			OrderType:           details.OrderType.String(),
			Items:               items,
			Status:              details.Status.String(),
			PlacedAt:            details.PlacedAt,
			EstimatedReady:      details.EstimatedReady,
			SpecialInstructions: details.SpecialInstructions,
			Discount:            details.Discount,
			TimeLeft:            details.TimeLeft,
		},
		CustomerUsername: details.CustomerUsername,
		CustomerName:     details.CustomerName,
		Total:            details.Total,
	}
}
