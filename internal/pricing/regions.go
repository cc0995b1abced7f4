package pricing

// Region is a named geographic region with a flat shipping cost in DZD
type Region struct {
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

// regions is the fixed shipping table: the 48 wilayas. Names are data
// keys matched exactly against the customer's selection.
var regions = []Region{
	{Name: "أدرار", Cost: 600},
	{Name: "الشلف", Cost: 400},
	{Name: "الأغواط", Cost: 500},
	{Name: "أم البواقي", Cost: 450},
	{Name: "باتنة", Cost: 450},
	{Name: "بجاية", Cost: 350},
	{Name: "بسكرة", Cost: 550},
	{Name: "بشار", Cost: 700},
	{Name: "البليدة", Cost: 300},
	{Name: "البويرة", Cost: 350},
	{Name: "تمنراست", Cost: 800},
	{Name: "تبسة", Cost: 500},
	{Name: "تلمسان", Cost: 500},
	{Name: "تيارت", Cost: 450},
	{Name: "تيزي وزو", Cost: 350},
	{Name: "الجزائر", Cost: 250},
	{Name: "الجلفة", Cost: 450},
	{Name: "جيجل", Cost: 400},
	{Name: "سطيف", Cost: 400},
	{Name: "سعيدة", Cost: 500},
	{Name: "سكيكدة", Cost: 450},
	{Name: "سيدي بلعباس", Cost: 500},
	{Name: "عنابة", Cost: 450},
	{Name: "قالمة", Cost: 450},
	{Name: "قسنطينة", Cost: 400},
	{Name: "المدية", Cost: 350},
	{Name: "مستغانم", Cost: 450},
	{Name: "المسيلة", Cost: 400},
	{Name: "معسكر", Cost: 450},
	{Name: "ورقلة", Cost: 600},
	{Name: "وهران", Cost: 400},
	{Name: "البيض", Cost: 550},
	{Name: "إليزي", Cost: 850},
	{Name: "برج بوعريريج", Cost: 400},
	{Name: "بومرداس", Cost: 300},
	{Name: "الطارف", Cost: 500},
	{Name: "تندوف", Cost: 850},
	{Name: "تيسمسيلت", Cost: 400},
	{Name: "الوادي", Cost: 600},
	{Name: "خنشلة", Cost: 500},
	{Name: "سوق أهراس", Cost: 500},
	{Name: "تيبازة", Cost: 300},
	{Name: "ميلة", Cost: 400},
	{Name: "عين الدفلى", Cost: 350},
	{Name: "النعامة", Cost: 600},
	{Name: "عين تيموشنت", Cost: 500},
	{Name: "غرداية", Cost: 550},
	{Name: "غليزان", Cost: 400},
}

// Regions returns the full shipping table in fixed order
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// ShippingCost returns the flat cost for a region name, or 0 when the
// name is empty or not in the table
func ShippingCost(region string) int64 {
	for _, r := range regions {
		if r.Name == region {
			return r.Cost
		}
	}
	return 0
}

// KnownRegion reports whether the name is in the shipping table
func KnownRegion(region string) bool {
	for _, r := range regions {
		if r.Name == region {
			return true
		}
	}
	return false
}
