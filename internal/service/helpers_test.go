package service

import (
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// evalTime is the fixed "now" used across the service tests.
var evalTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	return lo.ToPtr(dec(s))
}

func datePtr(s string) *models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func tierPtr(t models.UserTier) *models.UserTier {
	return &t
}

func flat(code, value string) *models.Coupon {
	return &models.Coupon{
		Code:          code,
		Kind:          models.CouponKindFlat,
		DiscountValue: dec(value),
		Categories:    []string{},
	}
}

func percent(code, value string) *models.Coupon {
	return &models.Coupon{
		Code:          code,
		Kind:          models.CouponKindPercent,
		DiscountValue: dec(value),
		Categories:    []string{},
	}
}

func cartOf(total string, categories ...string) models.Cart {
	items := lo.Map(categories, func(c string, i int) models.CartItem {
		return models.CartItem{Category: c, Price: dec("1")}
	})
	return models.Cart{Total: dec(total), Items: items}
}
