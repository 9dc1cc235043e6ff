package service

import (
	"slices"
	"strings"

	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/shopspring/decimal"
)

// Candidate is an eligible coupon together with the discount it yields for the cart.
type Candidate struct {
	Coupon   *models.Coupon
	Discount decimal.Decimal
}

// expiryBound orders expiry dates with "never expires" above every real date.
type expiryBound struct {
	date      models.Date
	unbounded bool
}

func expiryOf(c *models.Coupon) expiryBound {
	if c.ExpiryDate == nil {
		return expiryBound{unbounded: true}
	}
	return expiryBound{date: *c.ExpiryDate}
}

func (e expiryBound) compare(o expiryBound) int {
	switch {
	case e.unbounded && o.unbounded:
		return 0
	case e.unbounded:
		return 1
	case o.unbounded:
		return -1
	default:
		return e.date.Compare(o.date)
	}
}

// CompareCandidates is the total order used to rank candidates. A negative result
// means a ranks before b.
//
//  1. larger discount first
//  2. earlier expiry first, no expiry last
//  3. smaller code first
func CompareCandidates(a, b Candidate) int {
	if c := b.Discount.Cmp(a.Discount); c != 0 {
		return c
	}
	if c := expiryOf(a.Coupon).compare(expiryOf(b.Coupon)); c != 0 {
		return c
	}
	return strings.Compare(a.Coupon.Code, b.Coupon.Code)
}

// RankCandidates prices every coupon against cartTotal and returns them in rank order.
func RankCandidates(coupons []*models.Coupon, cartTotal decimal.Decimal) []Candidate {
	candidates := make([]Candidate, 0, len(coupons))
	for _, c := range coupons {
		candidates = append(candidates, Candidate{
			Coupon:   c,
			Discount: CalculateDiscount(c, cartTotal),
		})
	}
	slices.SortStableFunc(candidates, CompareCandidates)
	return candidates
}

// SelectBest returns the top ranked candidate, or false when coupons is empty.
func SelectBest(coupons []*models.Coupon, cartTotal decimal.Decimal) (Candidate, bool) {
	ranked := RankCandidates(coupons, cartTotal)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	return ranked[0], true
}
