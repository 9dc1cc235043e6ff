package models

import (
	"strings"
	"time"

	ierr "github.com/Cheertaboi/coupon-catalog-service/internal/errors"
	"github.com/Cheertaboi/coupon-catalog-service/internal/validator"
	"github.com/shopspring/decimal"
)

// BestCouponRequest is the body of POST /coupons/best-coupon.
type BestCouponRequest struct {
	User *User `json:"user" validate:"required"`
	Cart *Cart `json:"cart" validate:"required"`
	// Timestamp optionally overrides the evaluation time (RFC3339).
	Timestamp string `json:"timestamp,omitempty"`
}

func (r *BestCouponRequest) Validate() error {
	if r.User != nil && r.User.Tier != nil && strings.TrimSpace(string(*r.User.Tier)) == "" {
		r.User.Tier = nil
	}

	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Cart.Total.IsPositive() {
		return ierr.NewError("cart total must be positive").
			WithHint("cart.total must be a positive number").
			Mark(ierr.ErrValidation)
	}

	if _, err := r.EvaluationTime(time.Now()); err != nil {
		return err
	}

	return nil
}

// EvaluationTime returns the parsed Timestamp, or fallback when none was sent.
func (r *BestCouponRequest) EvaluationTime(fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(r.Timestamp) == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Timestamp))
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("invalid timestamp; use RFC3339").
			Mark(ierr.ErrValidation)
	}
	return t.UTC(), nil
}

// BatchBestCouponRequest is the body of POST /coupons/best-coupon/batch.
type BatchBestCouponRequest struct {
	Requests []BestCouponRequest `json:"requests" validate:"required,min=1"`
}

func (r *BatchBestCouponRequest) Validate(maxBatchSize int) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if maxBatchSize > 0 && len(r.Requests) > maxBatchSize {
		return ierr.NewError("batch too large").
			WithHintf("at most %d requests per batch", maxBatchSize).
			WithReportableDetails(map[string]any{
				"size": len(r.Requests),
				"max":  maxBatchSize,
			}).
			Mark(ierr.ErrValidation)
	}

	for i := range r.Requests {
		if err := r.Requests[i].Validate(); err != nil {
			return ierr.WithError(err).
				WithReportableDetails(map[string]any{"index": i}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// EvaluationResult is the outcome of a best-coupon evaluation.
// BestCoupon is nil when no coupon is eligible.
type EvaluationResult struct {
	Message         string          `json:"message"`
	BestCoupon      *Coupon         `json:"bestCoupon"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
	ApplicableCount int             `json:"applicableCount"`
}

const (
	MessageBestCouponFound = "Best coupon found"
	MessageNoCoupon        = "No applicable coupons found"
)
