package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var defaultRules = PricingRules{
	TaxRate:         0.15,
	FreeShippingMin: 100,
	ShippingPrice:   10,
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
		want  Totals
	}{
		{
			name: "two line items under the shipping threshold",
			items: []OrderItem{
				{Name: "Widget", Qty: 2, Price: 10.00},
				{Name: "Gadget", Qty: 1, Price: 5.00},
			},
			want: Totals{ItemsPrice: 25.00, TaxPrice: 3.75, ShippingPrice: 10.00, TotalPrice: 38.75},
		},
		{
			name:  "free shipping at the threshold",
			items: []OrderItem{{Name: "Pricey", Qty: 1, Price: 100.00}},
			want:  Totals{ItemsPrice: 100.00, TaxPrice: 15.00, ShippingPrice: 0, TotalPrice: 115.00},
		},
		{
			name:  "no items",
			items: nil,
			want:  Totals{ItemsPrice: 0, TaxPrice: 0, ShippingPrice: 10.00, TotalPrice: 10.00},
		},
		{
			name: "float-hostile prices stay exact",
			items: []OrderItem{
				{Name: "A", Qty: 3, Price: 0.10},
				{Name: "B", Qty: 1, Price: 0.20},
			},
			want: Totals{ItemsPrice: 0.50, TaxPrice: 0.08, ShippingPrice: 10.00, TotalPrice: 10.58},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, defaultRules)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeanRating(t *testing.T) {
	assert.Equal(t, 0.0, MeanRating(nil))
	assert.Equal(t, 4.0, MeanRating([]Review{{Rating: 4}}))
	assert.Equal(t, 3.0, MeanRating([]Review{{Rating: 4}, {Rating: 2}}))
	assert.InDelta(t, 4.333333, MeanRating([]Review{{Rating: 5}, {Rating: 5}, {Rating: 3}}), 0.0001)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageCount(tt.total, PageSize), "total=%d", tt.total)
	}
}
