package services

import (
	"testing"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"

	"github.com/stretchr/testify/assert"
)

func lineItem(unit float64, qty int, pricing map[string]float64) models.LineItem {
	return models.LineItem{
		Id:             "li",
		UnitPrice:      unit,
		Quantity:       qty,
		OptionsPricing: pricing,
	}
}

func TestSubtotalIncludesOptionSurcharges(t *testing.T) {
	items := []models.LineItem{
		lineItem(100, 2, map[string]float64{"engraving": 25}),
		lineItem(40, 1, nil),
	}
	// (100+25)*2 + 40
	assert.Equal(t, 290.0, Subtotal(items))
}

func TestSubtotalEmptyCart(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestPercentageCouponDiscount(t *testing.T) {
	coupon := &models.Coupon{Type: models.CouponTypePercentage, Amount: 10}
	assert.Equal(t, 20.0, CouponDiscount(200, coupon))
}

func TestPercentageCouponCappedByMaxDiscount(t *testing.T) {
	maxDiscount := 15.0
	coupon := &models.Coupon{Type: models.CouponTypePercentage, Amount: 10, MaxDiscount: &maxDiscount}
	assert.Equal(t, 15.0, CouponDiscount(1000, coupon))
}

func TestFixedCouponKeepsFaceValue(t *testing.T) {
	coupon := &models.Coupon{Type: models.CouponTypeFixed, Amount: 50}
	assert.Equal(t, 50.0, CouponDiscount(200, coupon))
	// Face value is reported even above the subtotal; clamping happens on the
	// final total, not the discount line.
	assert.Equal(t, 50.0, CouponDiscount(30, coupon))
}

func TestFreeShippingCouponHasNoGoodsDiscount(t *testing.T) {
	coupon := &models.Coupon{Type: models.CouponTypeFreeShipping, Amount: 0}
	assert.Equal(t, 0.0, CouponDiscount(500, coupon))
}

func TestNilCouponNoDiscount(t *testing.T) {
	assert.Equal(t, 0.0, CouponDiscount(500, nil))
}

func TestComputeOrderTotalsWithPercentageCoupon(t *testing.T) {
	items := []models.LineItem{lineItem(100, 3, nil)}
	coupon := &models.Coupon{Type: models.CouponTypePercentage, Amount: 10}
	quote := ShippingQuote{Cost: 40}

	totals := ComputeOrderTotals(items, coupon, quote)
	assert.Equal(t, 300.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.CouponDiscount)
	assert.Equal(t, 40.0, totals.ShippingCost)
	assert.False(t, totals.FreeShipping)
	assert.Equal(t, 310.0, totals.Total)
}

func TestComputeOrderTotalsNeverNegative(t *testing.T) {
	items := []models.LineItem{lineItem(30, 1, nil)}
	coupon := &models.Coupon{Type: models.CouponTypeFixed, Amount: 100}
	quote := ShippingQuote{Cost: 0, FreeShipping: true}

	totals := ComputeOrderTotals(items, coupon, quote)
	assert.Equal(t, 100.0, totals.CouponDiscount)
	assert.Equal(t, 0.0, totals.Total)
}

func TestFreeShippingQuoteZeroesShippingLine(t *testing.T) {
	items := []models.LineItem{lineItem(600, 1, nil)}
	quote := ShippingQuote{FreeShipping: true, Cost: 0}

	totals := ComputeOrderTotals(items, nil, quote)
	assert.True(t, totals.FreeShipping)
	assert.Equal(t, 0.0, totals.ShippingCost)
	assert.Equal(t, 600.0, totals.Total)
}

func TestFreeShippingCouponZeroesShippingLine(t *testing.T) {
	items := []models.LineItem{lineItem(100, 1, nil)}
	coupon := &models.Coupon{Type: models.CouponTypeFreeShipping}
	quote := ShippingQuote{Cost: 40}

	totals := ComputeOrderTotals(items, coupon, quote)
	assert.True(t, totals.FreeShipping)
	assert.Equal(t, 0.0, totals.ShippingCost)
	assert.Equal(t, 100.0, totals.Total)
}

func TestCouponEligibility(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name   string
		coupon models.Coupon
		reason string
	}{
		{"active", models.Coupon{IsActive: true, ExpiresAt: &future}, ""},
		{"no expiry", models.Coupon{IsActive: true}, ""},
		{"inactive", models.Coupon{IsActive: false}, "invalid coupon code"},
		{"expired", models.Coupon{IsActive: true, ExpiresAt: &expired}, "invalid coupon code"},
		{"below minimum", models.Coupon{IsActive: true, MinAmount: 200}, "minimum order amount of 200.00 required for this coupon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CheckCouponEligibility(&tc.coupon, 100, now)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}
			var rejected *CouponRejectedError
			assert.ErrorAs(t, err, &rejected)
			assert.Equal(t, tc.reason, rejected.Reason)
		})
	}
}
