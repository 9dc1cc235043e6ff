package cache

import (
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	goCache "github.com/patrickmn/go-cache"
)

const catalogKey = "coupons:v1:catalog"

// CouponCache keeps the most recent catalog listing for a short TTL.
// A nil *CouponCache is valid and caches nothing.
type CouponCache struct {
	store *goCache.Cache
}

func NewCouponCache(ttl time.Duration) *CouponCache {
	return &CouponCache{
		store: goCache.New(ttl, 2*ttl),
	}
}

// GetCatalog returns a copy of the cached listing.
func (c *CouponCache) GetCatalog() ([]*models.Coupon, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.store.Get(catalogKey)
	if !ok {
		return nil, false
	}
	coupons, ok := val.([]*models.Coupon)
	if !ok {
		return nil, false
	}
	return append([]*models.Coupon(nil), coupons...), true
}

func (c *CouponCache) SetCatalog(coupons []*models.Coupon) {
	if c == nil {
		return
	}
	c.store.SetDefault(catalogKey, append([]*models.Coupon(nil), coupons...))
}

// Invalidate drops the cached listing, e.g. after a coupon is created.
func (c *CouponCache) Invalidate() {
	if c == nil {
		return
	}
	c.store.Delete(catalogKey)
}
