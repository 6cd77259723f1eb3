// Package pricing derives order totals from line items.
package pricing

import (
	"myfood-be/internal/catalog"
	"myfood-be/internal/order"

	"github.com/shopspring/decimal"
)

// CalculateTotalPrice sums the price of every dish the items resolve to.
// A menu contributes only the courses it has, so a partial or empty menu
// never fails. The result is not rounded.
func CalculateTotalPrice(items []order.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, d := range Breakdown(items) {
		total = total.Add(d.Price)
	}
	return total
}

// Breakdown flattens items into the dishes they contain, menus expanded in
// serving order.
func Breakdown(items []order.LineItem) []*catalog.Dish {
	dishes := make([]*catalog.Dish, 0, len(items))
	for _, it := range items {
		if it.Unit == nil {
			continue
		}
		dishes = append(dishes, it.Unit.Dishes()...)
	}
	return dishes
}
