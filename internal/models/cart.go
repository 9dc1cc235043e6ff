package models

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	Name     string          `json:"name,omitempty"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type Cart struct {
	Total decimal.Decimal `json:"total"`
	Items []CartItem      `json:"items"`
}

// Categories returns the category of every item, in item order.
func (c Cart) Categories() []string {
	return lo.Map(c.Items, func(it CartItem, _ int) string {
		return it.Category
	})
}

// User is the request-scoped profile; only the tier takes part in eligibility.
type User struct {
	Tier *UserTier `json:"tier,omitempty" validate:"omitempty,oneof=BRONZE SILVER GOLD PLATINUM"`
}
