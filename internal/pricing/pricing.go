package pricing

import "math"

// TaxRate applied to the item subtotal of every purchase and sales order.
const TaxRate = 0.09

// RoundCents rounds to two decimals, half away from zero. Every derived
// money field is rounded at computation time so totals never accumulate
// sub-cent drift.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Line is the quantity/price pair shared by purchase and sales order items.
type Line struct {
	Quantity  int
	UnitPrice float64
}

// Totals holds the derived money fields of an order.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Subtotal sums quantity × unit price over all lines, rounded to cents.
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += RoundCents(float64(l.Quantity) * l.UnitPrice)
	}
	return RoundCents(sum)
}

// Tax returns 9% of the given subtotal, rounded to cents.
func Tax(subtotal float64) float64 {
	return RoundCents(subtotal * TaxRate)
}

// OrderTotals computes subtotal, tax and grand total.
// total = subtotal + tax - discount + shipping.
func OrderTotals(lines []Line, discount, shipping float64) Totals {
	subtotal := Subtotal(lines)
	tax := Tax(subtotal)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    RoundCents(subtotal + tax - discount + shipping),
	}
}
