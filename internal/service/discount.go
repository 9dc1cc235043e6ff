package service

import (
	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateDiscount returns the amount c takes off cartTotal.
//
// FLAT never discounts more than the cart is worth. PERCENT is capped by
// MaxDiscountAmount when one is set. An unknown kind yields zero. The result is
// never negative.
func CalculateDiscount(c *models.Coupon, cartTotal decimal.Decimal) decimal.Decimal {
	if c == nil || !cartTotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch c.Kind {
	case models.CouponKindFlat:
		discount = decimal.Min(c.DiscountValue, cartTotal)
	case models.CouponKindPercent:
		discount = cartTotal.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscountAmount != nil {
			discount = decimal.Min(discount, *c.MaxDiscountAmount)
		}
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
