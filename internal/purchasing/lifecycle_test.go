package purchasing

import (
	"errors"
	"testing"

	"quantix-backend/internal/models"
)

func TestPOTransitions(t *testing.T) {
	legal := []struct{ from, to models.PurchaseOrderStatus }{
		{models.POStatusDraft, models.POStatusSent},
		{models.POStatusDraft, models.POStatusCancelled},
		{models.POStatusSent, models.POStatusAcknowledged},
		{models.POStatusSent, models.POStatusPartiallyReceived},
		{models.POStatusAcknowledged, models.POStatusReceived},
		{models.POStatusPartiallyReceived, models.POStatusReceived},
		{models.POStatusPartiallyReceived, models.POStatusPartiallyReceived},
		{models.POStatusAcknowledged, models.POStatusClosed},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to models.PurchaseOrderStatus }{
		{models.POStatusDraft, models.POStatusReceived},
		{models.POStatusDraft, models.POStatusAcknowledged},
		{models.POStatusReceived, models.POStatusSent},
		{models.POStatusCancelled, models.POStatusDraft},
		{models.POStatusClosed, models.POStatusSent},
		{models.POStatusPartiallyReceived, models.POStatusSent}, // no regression
		{models.POStatusPartiallyReceived, models.POStatusAcknowledged},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestReceivable(t *testing.T) {
	yes := []models.PurchaseOrderStatus{
		models.POStatusSent,
		models.POStatusAcknowledged,
		models.POStatusPartiallyReceived,
	}
	no := []models.PurchaseOrderStatus{
		models.POStatusDraft,
		models.POStatusReceived,
		models.POStatusCancelled,
		models.POStatusClosed,
	}
	for _, s := range yes {
		if !Receivable(s) {
			t.Errorf("expected %s to be receivable", s)
		}
	}
	for _, s := range no {
		if Receivable(s) {
			t.Errorf("expected %s to not be receivable", s)
		}
	}
}

func newItems() []models.PurchaseOrderItem {
	return []models.PurchaseOrderItem{
		{ID: 1, ProductName: "Widget", Quantity: 10, UnitPrice: 2.00, ReceivedQuantity: 0, PendingQuantity: 10},
	}
}

func checkConservation(t *testing.T, items []models.PurchaseOrderItem) {
	t.Helper()
	for _, it := range items {
		if it.ReceivedQuantity+it.PendingQuantity != it.Quantity {
			t.Errorf("item %d: received %d + pending %d != quantity %d",
				it.ID, it.ReceivedQuantity, it.PendingQuantity, it.Quantity)
		}
	}
}

func TestPartialThenFullReceive(t *testing.T) {
	items := newItems()

	// receive 6 of 10
	status, err := ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: 6}})
	if err != nil {
		t.Fatalf("first receive failed: %v", err)
	}
	if status != models.POStatusPartiallyReceived {
		t.Errorf("status = %s, want Partially Received", status)
	}
	if items[0].ReceivedQuantity != 6 || items[0].PendingQuantity != 4 {
		t.Errorf("counters = %d/%d, want 6/4", items[0].ReceivedQuantity, items[0].PendingQuantity)
	}
	checkConservation(t, items)

	// receive the remaining 4
	status, err = ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: 4}})
	if err != nil {
		t.Fatalf("second receive failed: %v", err)
	}
	if status != models.POStatusReceived {
		t.Errorf("status = %s, want Received", status)
	}
	if items[0].PendingQuantity != 0 {
		t.Errorf("pending = %d, want 0", items[0].PendingQuantity)
	}
	checkConservation(t, items)
}

func TestOverReceiveRejectedHard(t *testing.T) {
	items := newItems()
	if _, err := ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: 6}}); err != nil {
		t.Fatal(err)
	}

	// pending is 4, asking for 5 must fail without clamping
	_, err := ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: 5}})
	if err == nil {
		t.Fatal("over-receive should be rejected")
	}
	if items[0].ReceivedQuantity != 6 || items[0].PendingQuantity != 4 {
		t.Errorf("counters mutated on rejected receive: %d/%d", items[0].ReceivedQuantity, items[0].PendingQuantity)
	}
	checkConservation(t, items)
}

func TestReceiveWithNoQuantitiesRejected(t *testing.T) {
	items := newItems()
	_, err := ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: 0}})
	if !errors.Is(err, ErrNothingReceived) {
		t.Errorf("err = %v, want ErrNothingReceived", err)
	}
}

func TestReceiveUnknownItemRejected(t *testing.T) {
	items := newItems()
	if _, err := ApplyReceive(items, []ReceiveLine{{ItemID: 99, QuantityReceived: 1}}); err == nil {
		t.Error("receiving against a foreign item id should be rejected")
	}
	checkConservation(t, items)
}

func TestNegativeQuantityRejected(t *testing.T) {
	items := newItems()
	if _, err := ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: -1}}); err == nil {
		t.Error("negative quantity_received should be rejected")
	}
}

func TestSplitLinesCannotExceedPending(t *testing.T) {
	items := newItems()
	// two lines of 6 against pending 10 total 12, must be rejected as a whole
	_, err := ApplyReceive(items, []ReceiveLine{
		{ItemID: 1, QuantityReceived: 6},
		{ItemID: 1, QuantityReceived: 6},
	})
	if err == nil {
		t.Fatal("split lines summing past pending should be rejected")
	}
	if items[0].ReceivedQuantity != 0 {
		t.Errorf("items mutated on rejected receive")
	}
}

func TestMultiItemPartialStatus(t *testing.T) {
	items := []models.PurchaseOrderItem{
		{ID: 1, Quantity: 5, PendingQuantity: 5},
		{ID: 2, Quantity: 3, PendingQuantity: 3},
	}

	status, err := ApplyReceive(items, []ReceiveLine{{ItemID: 1, QuantityReceived: 5}})
	if err != nil {
		t.Fatal(err)
	}
	if status != models.POStatusPartiallyReceived {
		t.Errorf("status = %s, want Partially Received while item 2 is pending", status)
	}

	status, err = ApplyReceive(items, []ReceiveLine{{ItemID: 2, QuantityReceived: 3}})
	if err != nil {
		t.Fatal(err)
	}
	if status != models.POStatusReceived {
		t.Errorf("status = %s, want Received", status)
	}
	checkConservation(t, items)
}
