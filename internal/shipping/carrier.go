package shipping

import "quantix-backend/internal/pricing"

// CarrierRate: fixed per-carrier pricing. Cost = base + weight × per-kg rate,
// with shipment weight estimated at 0.5 kg per ordered unit.
type CarrierRate struct {
	Name      string
	BaseCost  float64
	PerKgRate float64
}

const kgPerUnit = 0.5

var carrierRates = map[string]CarrierRate{
	"fedex":  {Name: "FedEx", BaseCost: 12.00, PerKgRate: 2.50},
	"ups":    {Name: "UPS", BaseCost: 10.00, PerKgRate: 2.75},
	"usps":   {Name: "USPS", BaseCost: 8.00, PerKgRate: 1.90},
	"dhl":    {Name: "DHL", BaseCost: 15.00, PerKgRate: 3.20},
	"ontrac": {Name: "OnTrac", BaseCost: 9.50, PerKgRate: 2.10},
}

// LookupCarrier returns the rate entry for a carrier key.
func LookupCarrier(key string) (CarrierRate, bool) {
	r, ok := carrierRates[key]
	return r, ok
}

// EstimateCost computes the shipping cost for a carrier and total line-item
// quantity. Unknown or empty carrier keys cost 0, letting the caller fall
// back to a manually entered amount.
func EstimateCost(carrier string, totalQuantity int) float64 {
	rate, ok := carrierRates[carrier]
	if !ok {
		return 0
	}
	weight := kgPerUnit * float64(totalQuantity)
	return pricing.RoundCents(rate.BaseCost + weight*rate.PerKgRate)
}
