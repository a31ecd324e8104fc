package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VisibleDishes filters the menu by course and by a case-insensitive
// search over name and description. Input order is kept.
func VisibleDishes(menu []Dish, courseFilter, searchText string) []Dish {
	q := strings.ToLower(strings.TrimSpace(searchText))
	visible := make([]Dish, 0, len(menu))
	for _, d := range menu {
		if courseFilter != FilterAll && string(d.Course) != courseFilter {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.Description), q) {
			continue
		}
		visible = append(visible, d)
	}
	return visible
}

type CourseStats struct {
	Count        int
	AveragePrice float64
}

// CourseAverages returns stats for every course; an empty course has a
// zero average.
func CourseAverages(menu []Dish) map[Course]CourseStats {
	out := make(map[Course]CourseStats, len(Courses))
	for _, c := range Courses {
		sum := decimal.Zero
		count := 0
		for _, d := range menu {
			if d.Course != c {
				continue
			}
			sum = sum.Add(decimal.NewFromFloat(d.Price))
			count++
		}
		stats := CourseStats{Count: count}
		if count > 0 {
			stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
		}
		out[c] = stats
	}
	return out
}

type CartTotals struct {
	TotalItems int
	TotalPrice float64
}

type CartLine struct {
	Dish      Dish
	Quantity  int
	LineTotal float64
}

// CartLines lists cart entries whose dish is still on the menu, in menu
// order. Orphaned entries are skipped.
func CartLines(menu []Dish, cart Cart) []CartLine {
	lines := make([]CartLine, 0, len(cart))
	for _, d := range menu {
		qty := cart[d.ID]
		if qty <= 0 {
			continue
		}
		total := decimal.NewFromFloat(d.Price).Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, CartLine{Dish: d, Quantity: qty, LineTotal: total.InexactFloat64()})
	}
	return lines
}

// Totals counts items and sums prices over dishes present in both the
// menu and the cart.
func Totals(menu []Dish, cart Cart) CartTotals {
	items := 0
	sum := decimal.Zero
	for _, d := range menu {
		qty := cart[d.ID]
		if qty <= 0 {
			continue
		}
		items += qty
		sum = sum.Add(decimal.NewFromFloat(d.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return CartTotals{TotalItems: items, TotalPrice: sum.InexactFloat64()}
}
