package pricing

import "testing"

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.125, 0.13}, // exact binary half rounds away from zero
		{-0.125, -0.13},
		{1.004, 1.0},
		{19.999, 20.0},
		{1.8, 1.8},
	}
	for _, tc := range cases {
		if got := RoundCents(tc.in); got != tc.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTaxIsNinePercent(t *testing.T) {
	cases := []struct {
		subtotal float64
		want     float64
	}{
		{20.00, 1.80},
		{100.00, 9.00},
		{0, 0},
		{33.33, 3.00}, // 2.9997 rounds up
	}
	for _, tc := range cases {
		if got := Tax(tc.subtotal); got != tc.want {
			t.Errorf("Tax(%v) = %v, want %v", tc.subtotal, got, tc.want)
		}
	}
}

func TestOrderTotalsScenario(t *testing.T) {
	// one line, quantity=10, unitPrice=2.00, no discount/shipping
	got := OrderTotals([]Line{{Quantity: 10, UnitPrice: 2.00}}, 0, 0)

	if got.Subtotal != 20.00 {
		t.Errorf("subtotal = %v, want 20.00", got.Subtotal)
	}
	if got.Tax != 1.80 {
		t.Errorf("tax = %v, want 1.80", got.Tax)
	}
	if got.Total != 21.80 {
		t.Errorf("total = %v, want 21.80", got.Total)
	}
}

func TestOrderTotalsDiscountAndShipping(t *testing.T) {
	lines := []Line{
		{Quantity: 3, UnitPrice: 10.50},
		{Quantity: 1, UnitPrice: 4.25},
	}
	got := OrderTotals(lines, 5.00, 12.30)

	if got.Subtotal != 35.75 {
		t.Errorf("subtotal = %v, want 35.75", got.Subtotal)
	}
	if got.Tax != 3.22 { // 3.2175 rounds to 3.22
		t.Errorf("tax = %v, want 3.22", got.Tax)
	}
	if got.Total != 46.27 {
		t.Errorf("total = %v, want 46.27", got.Total)
	}
}
