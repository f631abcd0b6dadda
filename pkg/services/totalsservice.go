package services

import (
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
)

// Subtotal sums (unit price + option surcharges) × quantity over all items.
func Subtotal(items []models.LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// CouponDiscount computes the subtotal discount for an applied coupon.
// Percentage coupons are capped by the coupon's optional max. Fixed coupons
// are taken at face value and may exceed the subtotal; only the final total
// is clamped. Free-shipping coupons never touch the subtotal.
func CouponDiscount(subtotal float64, coupon *models.Coupon) float64 {
	if coupon == nil {
		return 0
	}

	switch coupon.Type {
	case models.CouponTypePercentage:
		discount := subtotal * coupon.Amount / 100
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
		return discount
	case models.CouponTypeFixed:
		return coupon.Amount
	default:
		return 0
	}
}

// ComputeOrderTotals composes the cart, an optional coupon and a resolved
// shipping quote into the final order summary. The grand total never goes
// below zero.
func ComputeOrderTotals(items []models.LineItem, coupon *models.Coupon, quote ShippingQuote) models.OrderTotals {
	subtotal := Subtotal(items)
	discount := CouponDiscount(subtotal, coupon)

	freeShipping := quote.FreeShipping
	if coupon != nil && coupon.Type == models.CouponTypeFreeShipping {
		freeShipping = true
	}

	shipping := quote.Cost
	if freeShipping {
		shipping = 0
	}

	goods := subtotal - discount
	if goods < 0 {
		goods = 0
	}

	return models.OrderTotals{
		Subtotal:       subtotal,
		CouponDiscount: discount,
		ShippingCost:   shipping,
		FreeShipping:   freeShipping,
		Total:          goods + shipping,
	}
}
