package service

import (
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/samber/lo"
)

// IsEligible reports whether c can be applied to cart for user at time now.
// Expiry is compared by UTC calendar day: a coupon expiring today is still eligible.
func IsEligible(c *models.Coupon, user models.User, cart models.Cart, now time.Time) bool {
	return isEligible(c, user, cart, cart.Categories(), models.NewDate(now))
}

// FilterEligible returns the eligible subset of coupons. It never returns nil.
func FilterEligible(coupons []*models.Coupon, user models.User, cart models.Cart, now time.Time) []*models.Coupon {
	cartCategories := cart.Categories()
	today := models.NewDate(now)

	eligible := lo.Filter(coupons, func(c *models.Coupon, _ int) bool {
		return c != nil && isEligible(c, user, cart, cartCategories, today)
	})
	if eligible == nil {
		return []*models.Coupon{}
	}
	return eligible
}

func isEligible(c *models.Coupon, user models.User, cart models.Cart, cartCategories []string, today models.Date) bool {
	return notExpired(c, today) &&
		meetsMinCartValue(c, cart) &&
		matchesTier(c, user) &&
		underUsageCap(c) &&
		matchesCategories(c, cartCategories)
}

func notExpired(c *models.Coupon, today models.Date) bool {
	return c.ExpiryDate == nil || c.ExpiryDate.Compare(today) >= 0
}

func meetsMinCartValue(c *models.Coupon, cart models.Cart) bool {
	return c.MinCartValue == nil || cart.Total.GreaterThanOrEqual(*c.MinCartValue)
}

// no tier hierarchy: a GOLD user does not qualify for a SILVER coupon
func matchesTier(c *models.Coupon, user models.User) bool {
	if c.UserTier == nil {
		return true
	}
	return user.Tier != nil && *user.Tier == *c.UserTier
}

func underUsageCap(c *models.Coupon) bool {
	return c.MaxUsage == nil || c.UsedCount < *c.MaxUsage
}

// one shared category is enough
func matchesCategories(c *models.Coupon, cartCategories []string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	return lo.Some(cartCategories, c.Categories)
}
