package shipping

import "testing"

func TestEstimateCostKnownCarrier(t *testing.T) {
	// fedex: base 12.00, 2.50/kg; 10 units = 5 kg
	got := EstimateCost("fedex", 10)
	want := 12.00 + 5*2.50
	if got != want {
		t.Errorf("EstimateCost(fedex, 10) = %v, want %v", got, want)
	}
}

func TestEstimateCostZeroQuantity(t *testing.T) {
	if got := EstimateCost("ups", 0); got != 10.00 {
		t.Errorf("EstimateCost(ups, 0) = %v, want base cost 10.00", got)
	}
}

func TestEstimateCostUnknownCarrier(t *testing.T) {
	if got := EstimateCost("carrier-pigeon", 10); got != 0 {
		t.Errorf("EstimateCost(unknown) = %v, want 0", got)
	}
	if got := EstimateCost("", 10); got != 0 {
		t.Errorf("EstimateCost(empty) = %v, want 0", got)
	}
}

func TestLookupCarrier(t *testing.T) {
	rate, ok := LookupCarrier("dhl")
	if !ok {
		t.Fatal("dhl should be a known carrier")
	}
	if rate.Name != "DHL" {
		t.Errorf("name = %q, want DHL", rate.Name)
	}
	if _, ok := LookupCarrier("nope"); ok {
		t.Error("unknown carrier should not resolve")
	}
}
