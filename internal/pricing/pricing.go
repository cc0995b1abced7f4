package pricing

import "storefront-service/internal/models"

// Breakdown is the priced checkout: a pure lookup-and-sum with no
// rounding, tax or currency conversion
type Breakdown struct {
	Subtotal    int64 `json:"subtotal"`
	Shipping    int64 `json:"shipping"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// DeliveryFee returns the fee of the company matching the selected id,
// or 0 when none is selected or found
func DeliveryFee(companies []models.DeliveryCompany, companyID int64) int64 {
	for _, c := range companies {
		if c.ID == companyID {
			return c.Fee
		}
	}
	return 0
}

// Quote prices a checkout from the cart subtotal, the selected region
// and the selected delivery company. Recomputed on every call so it
// always reflects current inputs.
func Quote(subtotal int64, region string, companies []models.DeliveryCompany, companyID int64) Breakdown {
	shipping := ShippingCost(region)
	fee := DeliveryFee(companies, companyID)

	return Breakdown{
		Subtotal:    subtotal,
		Shipping:    shipping,
		DeliveryFee: fee,
		Total:       subtotal + shipping + fee,
	}
}
