package models

import "github.com/shopspring/decimal"

// Totals are the checkout price breakdown, rounded to cents.
type Totals struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

// PricingRules come from configuration: tax is a flat rate on the item
// subtotal, shipping is flat but waived once the subtotal reaches the
// free-shipping minimum.
type PricingRules struct {
	TaxRate         float64
	FreeShippingMin float64
	ShippingPrice   float64
}

// ComputeTotals derives the order totals from the item snapshots. All
// arithmetic runs on decimals so 0.1+0.2 style float drift never reaches a
// stored price.
func ComputeTotals(items []OrderItem, rules PricingRules) Totals {
	itemsPrice := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty)))
		itemsPrice = itemsPrice.Add(line)
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := decimal.NewFromFloat(rules.ShippingPrice)
	if itemsPrice.GreaterThanOrEqual(decimal.NewFromFloat(rules.FreeShippingMin)) {
		shipping = decimal.Zero
	}

	tax := itemsPrice.Mul(decimal.NewFromFloat(rules.TaxRate)).Round(2)
	total := itemsPrice.Add(shipping).Add(tax).Round(2)

	return Totals{
		ItemsPrice:    itemsPrice.InexactFloat64(),
		TaxPrice:      tax.InexactFloat64(),
		ShippingPrice: shipping.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}
