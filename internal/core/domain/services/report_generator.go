package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"foodorder/internal/core/domain/model/catalog"
	"foodorder/internal/core/domain/model/order"
)

// ReportGenerator is a stateless domain service producing aggregate
// statistics over a given order list for the manager view. It holds no
// mutable state; the catalog is only consulted for prices.
//
// Note that restaurant revenue deliberately ignores per-order discounts,
// while Order.Total applies them: the manager view reports gross menu value,
// not discounted takings.
type ReportGenerator struct {
	catalog *catalog.Catalog
}

// NewReportGenerator creates a ReportGenerator pricing against the given
// catalog.
func NewReportGenerator(cat *catalog.Catalog) ReportGenerator {
	return ReportGenerator{catalog: cat}
}

// RestaurantReport aggregates order counts, gross revenue and the average
// preparation lead time over the given orders.
type RestaurantReport struct {
	TotalOrders        int
	HomeDeliveryOrders int
	TakeawayOrders     int
	Revenue            float64
	AverageLeadTime    string
}

// String renders the report in the manager-facing text format.
func (r RestaurantReport) String() string {
	return fmt.Sprintf(
		"Total Orders: %d\nHome Delivery Orders: %d\nTakeaway Orders: %d\nRevenue: $%.2f\nAverage Estimated Time: %s\n",
		r.TotalOrders, r.HomeDeliveryOrders, r.TakeawayOrders, r.Revenue, r.AverageLeadTime,
	)
}

// RestaurantReport computes the restaurant statistics over the given orders.
// Revenue sums catalog price times quantity over every order, discounts
// excluded. The average lead time is the mean of estimated-ready minus
// placement across all orders, formatted H:MM:SS, or "N/A" when there are no
// orders.
func (g ReportGenerator) RestaurantReport(orders []*order.Order) RestaurantReport {
	report := RestaurantReport{
		TotalOrders:     len(orders),
		AverageLeadTime: g.averageLeadTime(orders),
	}

	for _, o := range orders {
		if o.OrderType() == order.HomeDelivery {
			report.HomeDeliveryOrders++
		}

		for _, line := range o.Items() {
			price, _ := g.catalog.Price(line.Name)
			report.Revenue += price * float64(line.Quantity)
		}
	}
	report.TakeawayOrders = report.TotalOrders - report.HomeDeliveryOrders

	return report
}

// averageLeadTime computes the mean preparation window across the orders,
// formatted H:MM:SS, or "N/A" for an empty list.
func (g ReportGenerator) averageLeadTime(orders []*order.Order) string {
	if len(orders) == 0 {
		return "N/A"
	}

	var total time.Duration
	for _, o := range orders {
		total += o.EstimatedReady().Sub(o.PlacedAt())
	}
	avg := total / time.Duration(len(orders))

	totalSeconds := int(avg.Seconds())
	minutes, seconds := totalSeconds/60, totalSeconds%60
	hours, minutes := minutes/60, minutes%60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// ItemPopularity is one entry of the popular-items ranking.
type ItemPopularity struct {
	Name     string
	Quantity int
}

// PopularItemsReport ranks menu items by total quantity ordered, descending.
// Ties keep the order in which items were first encountered across the order
// list.
type PopularItemsReport struct {
	Rankings []ItemPopularity
}

// MostPopular returns the top-ranked item, or false when there were no orders.
func (r PopularItemsReport) MostPopular() (ItemPopularity, bool) {
	if len(r.Rankings) == 0 {
		return ItemPopularity{}, false
	}
	return r.Rankings[0], true
}

// String renders the ranking in the manager-facing text format.
func (r PopularItemsReport) String() string {
	if len(r.Rankings) == 0 {
		return "No orders to analyze."
	}

	var b strings.Builder
	b.WriteString("Popular Items Report:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for i, item := range r.Rankings {
		fmt.Fprintf(&b, "%d. %s: %d orders\n", i+1, item.Name, item.Quantity)
	}

	top, _ := r.MostPopular()
	fmt.Fprintf(&b, "\nMost Popular Item: %s with %d orders\n", top.Name, top.Quantity)
	return b.String()
}

// PopularItemsReport sums the ordered quantity per item name across the given
// orders and ranks items by quantity, descending, with stable first-seen
// tie-breaks.
func (g ReportGenerator) PopularItemsReport(orders []*order.Order) PopularItemsReport {
	counts := make(map[string]int)
	var firstSeen []string

	for _, o := range orders {
		for _, line := range o.Items() {
			if _, seen := counts[line.Name]; !seen {
				firstSeen = append(firstSeen, line.Name)
			}
			counts[line.Name] += line.Quantity
		}
	}

	rankings := make([]ItemPopularity, 0, len(firstSeen))
	for _, name := range firstSeen {
		rankings = append(rankings, ItemPopularity{Name: name, Quantity: counts[name]})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Quantity > rankings[j].Quantity
	})

	return PopularItemsReport{Rankings: rankings}
}
