package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func init() {
	// amounts go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// CouponKind is the discount strategy of a coupon.
type CouponKind string

const (
	CouponKindFlat    CouponKind = "FLAT"
	CouponKindPercent CouponKind = "PERCENT"
)

// UserTier is the loyalty tier a coupon may be restricted to.
type UserTier string

const (
	UserTierBronze   UserTier = "BRONZE"
	UserTierSilver   UserTier = "SILVER"
	UserTierGold     UserTier = "GOLD"
	UserTierPlatinum UserTier = "PLATINUM"
)

type Coupon struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	Kind              CouponKind       `json:"type"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount"`
	MinCartValue      *decimal.Decimal `json:"minCartValue"`
	ExpiryDate        *Date            `json:"expiryDate"`
	UserTier          *UserTier        `json:"userTier"`
	Categories        []string         `json:"categories"`
	MaxUsage          *int             `json:"maxUsage"`
	UsedCount         int              `json:"usedCount"`
	Description       string           `json:"description"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// NormalizeCode trims and uppercases a coupon code.
func NormalizeCode(code string) string {
	// a Caser is stateful and must not be shared between goroutines
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}
