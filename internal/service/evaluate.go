package service

import (
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/shopspring/decimal"
)

// Evaluate runs the whole best-coupon pipeline over an in-memory snapshot:
// eligibility filter, discount calculation, ranking. It does not mutate the snapshot.
func Evaluate(snapshot []*models.Coupon, user models.User, cart models.Cart, now time.Time) *models.EvaluationResult {
	eligible := FilterEligible(snapshot, user, cart, now)

	best, ok := SelectBest(eligible, cart.Total)
	if !ok {
		return &models.EvaluationResult{
			Message:         models.MessageNoCoupon,
			BestCoupon:      nil,
			DiscountAmount:  decimal.Zero,
			FinalAmount:     cart.Total,
			ApplicableCount: 0,
		}
	}

	return &models.EvaluationResult{
		Message:         models.MessageBestCouponFound,
		BestCoupon:      best.Coupon,
		DiscountAmount:  best.Discount,
		FinalAmount:     cart.Total.Sub(best.Discount),
		ApplicableCount: len(eligible),
	}
}
