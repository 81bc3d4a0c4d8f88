package sales

import (
	"testing"

	"quantix-backend/internal/models"
)

func TestSalesOrderTransitions(t *testing.T) {
	legal := []struct{ from, to models.SalesOrderStatus }{
		{models.SOStatusPending, models.SOStatusConfirmed},
		{models.SOStatusConfirmed, models.SOStatusProcessing},
		{models.SOStatusProcessing, models.SOStatusShipped},
		{models.SOStatusShipped, models.SOStatusDelivered},
		{models.SOStatusPending, models.SOStatusCancelled},
		{models.SOStatusShipped, models.SOStatusCancelled},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to models.SalesOrderStatus }{
		{models.SOStatusPending, models.SOStatusShipped},
		{models.SOStatusPending, models.SOStatusDelivered},
		{models.SOStatusConfirmed, models.SOStatusPending},
		{models.SOStatusDelivered, models.SOStatusCancelled},
		{models.SOStatusCancelled, models.SOStatusPending},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestDedupeLinesMergesSameProduct(t *testing.T) {
	lines := []OrderLine{
		{ProductID: 1, Quantity: 2, UnitPrice: 5.00},
		{ProductID: 2, Quantity: 1, UnitPrice: 3.00},
		{ProductID: 1, Quantity: 3, UnitPrice: 5.00},
	}

	got := DedupeLines(lines)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ProductID != 1 || got[0].Quantity != 5 {
		t.Errorf("line 0 = %+v, want product 1 quantity 5", got[0])
	}
	if got[1].ProductID != 2 || got[1].Quantity != 1 {
		t.Errorf("line 1 = %+v, want product 2 quantity 1", got[1])
	}
}

func TestDedupeLinesKeepsDistinct(t *testing.T) {
	lines := []OrderLine{
		{ProductID: 3, Quantity: 1, UnitPrice: 9.99},
		{ProductID: 4, Quantity: 2, UnitPrice: 1.50},
	}
	got := DedupeLines(lines)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != lines[0] || got[1] != lines[1] {
		t.Errorf("distinct lines should pass through unchanged: %+v", got)
	}
}
