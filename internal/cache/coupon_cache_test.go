package cache

import (
	"testing"
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponCache(t *testing.T) {
	c := NewCouponCache(time.Minute)

	_, ok := c.GetCatalog()
	assert.False(t, ok)

	catalog := []*models.Coupon{{Code: "A"}, {Code: "B"}}
	c.SetCatalog(catalog)
	catalog[0] = &models.Coupon{Code: "MUTATED"}

	got, ok := c.GetCatalog()
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Code)

	got[1] = nil
	again, _ := c.GetCatalog()
	assert.NotNil(t, again[1])

	c.Invalidate()
	_, ok = c.GetCatalog()
	assert.False(t, ok)
}

func TestCouponCache_Expires(t *testing.T) {
	c := NewCouponCache(20 * time.Millisecond)
	c.SetCatalog([]*models.Coupon{{Code: "A"}})

	assert.Eventually(t, func() bool {
		_, ok := c.GetCatalog()
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCouponCache_NilIsDisabled(t *testing.T) {
	var c *CouponCache

	c.SetCatalog([]*models.Coupon{{Code: "A"}})
	_, ok := c.GetCatalog()
	assert.False(t, ok)
	c.Invalidate()
}
