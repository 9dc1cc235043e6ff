package models

import (
	"strings"
	"time"

	ierr "github.com/Cheertaboi/coupon-catalog-service/internal/errors"
	"github.com/Cheertaboi/coupon-catalog-service/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CreateCouponRequest is the body of POST /coupons.
type CreateCouponRequest struct {
	Code              string           `json:"code" validate:"required"`
	Kind              CouponKind       `json:"type" validate:"required,oneof=FLAT PERCENT"`
	DiscountValue     *decimal.Decimal `json:"discountValue" validate:"required"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	MinCartValue      *decimal.Decimal `json:"minCartValue,omitempty"`
	ExpiryDate        *Date            `json:"expiryDate,omitempty"`
	UserTier          *UserTier        `json:"userTier,omitempty" validate:"omitempty,oneof=BRONZE SILVER GOLD PLATINUM"`
	Categories        []string         `json:"categories,omitempty"`
	MaxUsage          *int             `json:"maxUsage,omitempty" validate:"omitempty,min=1"`
	Description       string           `json:"description,omitempty"`
}

// Normalize applies the storage conventions: trimmed upper-case code, zero-valued
// optional amounts treated as unset, blank tier and blank or repeated categories dropped.
func (r *CreateCouponRequest) Normalize() {
	r.Code = NormalizeCode(r.Code)
	r.Description = strings.TrimSpace(r.Description)

	if r.MaxDiscountAmount != nil && r.MaxDiscountAmount.IsZero() {
		r.MaxDiscountAmount = nil
	}
	if r.MinCartValue != nil && r.MinCartValue.IsZero() {
		r.MinCartValue = nil
	}
	if r.MaxUsage != nil && *r.MaxUsage == 0 {
		r.MaxUsage = nil
	}
	if r.UserTier != nil && strings.TrimSpace(string(*r.UserTier)) == "" {
		r.UserTier = nil
	}

	categories := lo.Map(r.Categories, func(c string, _ int) string { return strings.TrimSpace(c) })
	r.Categories = lo.Uniq(lo.Compact(categories))
}

func (r *CreateCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("discountValue must be positive").
			WithHint("discountValue must be a positive number").
			Mark(ierr.ErrValidation)
	}

	if r.Kind == CouponKindPercent && r.DiscountValue.GreaterThan(hundred) {
		return ierr.NewError("percent discount above 100").
			WithHint("PERCENT discountValue cannot exceed 100").
			WithReportableDetails(map[string]any{
				"discountValue": r.DiscountValue.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if r.Kind == CouponKindFlat && r.MaxDiscountAmount != nil {
		return ierr.NewError("maxDiscountAmount set on flat coupon").
			WithHint("maxDiscountAmount is only applicable for PERCENT type").
			Mark(ierr.ErrValidation)
	}

	if r.MaxDiscountAmount != nil && r.MaxDiscountAmount.IsNegative() {
		return ierr.NewError("negative maxDiscountAmount").
			WithHint("maxDiscountAmount cannot be negative").
			Mark(ierr.ErrValidation)
	}

	if r.MinCartValue != nil && r.MinCartValue.IsNegative() {
		return ierr.NewError("negative minCartValue").
			WithHint("minCartValue cannot be negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToCoupon builds a fresh coupon with a zero usage counter. The caller assigns the ID.
func (r *CreateCouponRequest) ToCoupon(now time.Time) *Coupon {
	return &Coupon{
		Code:              r.Code,
		Kind:              r.Kind,
		DiscountValue:     *r.DiscountValue,
		MaxDiscountAmount: r.MaxDiscountAmount,
		MinCartValue:      r.MinCartValue,
		ExpiryDate:        r.ExpiryDate,
		UserTier:          r.UserTier,
		Categories:        r.Categories,
		MaxUsage:          r.MaxUsage,
		UsedCount:         0,
		Description:       r.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
