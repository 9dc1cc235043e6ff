package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	ierr "github.com/Cheertaboi/coupon-catalog-service/internal/errors"
	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
)

// MemoryCouponRepo keeps coupons in process memory. FetchCandidates does no
// pre-filtering at all and returns the whole catalog.
type MemoryCouponRepo struct {
	mu      sync.RWMutex
	byCode  map[string]*models.Coupon
	ordered []*models.Coupon
}

func NewMemoryCouponRepo() *MemoryCouponRepo {
	return &MemoryCouponRepo{
		byCode: make(map[string]*models.Coupon),
	}
}

func (r *MemoryCouponRepo) Ping(context.Context) error {
	return nil
}

func (r *MemoryCouponRepo) Create(_ context.Context, c *models.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[c.Code]; exists {
		return ierr.NewError("coupon code already exists").
			WithHint("Coupon code already exists").
			WithReportableDetails(map[string]any{"code": c.Code}).
			Mark(ierr.ErrDuplicateCode)
	}

	stored := copyCoupon(c)
	r.byCode[c.Code] = stored
	r.ordered = append(r.ordered, stored)
	return nil
}

// ListAll returns copies of every coupon, newest first.
func (r *MemoryCouponRepo) ListAll(context.Context) ([]*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Coupon, 0, len(r.ordered))
	for _, c := range r.ordered {
		out = append(out, copyCoupon(c))
	}
	slices.SortStableFunc(out, func(a, b *models.Coupon) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return out, nil
}

func (r *MemoryCouponRepo) FetchCandidates(ctx context.Context, _ models.User, _ models.Cart, _ time.Time) ([]*models.Coupon, error) {
	return r.ListAll(ctx)
}

// SetUsedCount overwrites the usage counter of a coupon. Redemption happens
// outside this service; this exists for seeding and tests.
func (r *MemoryCouponRepo) SetUsedCount(code string, used int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byCode[models.NormalizeCode(code)]
	if !ok {
		return ierr.NewError("coupon not found").
			WithHint("Coupon not found").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}
	c.UsedCount = used
	return nil
}

func copyCoupon(c *models.Coupon) *models.Coupon {
	if c == nil {
		return nil
	}
	copied := *c
	copied.Categories = append([]string{}, c.Categories...)
	if c.MaxDiscountAmount != nil {
		v := *c.MaxDiscountAmount
		copied.MaxDiscountAmount = &v
	}
	if c.MinCartValue != nil {
		v := *c.MinCartValue
		copied.MinCartValue = &v
	}
	if c.ExpiryDate != nil {
		v := *c.ExpiryDate
		copied.ExpiryDate = &v
	}
	if c.UserTier != nil {
		v := *c.UserTier
		copied.UserTier = &v
	}
	if c.MaxUsage != nil {
		v := *c.MaxUsage
		copied.MaxUsage = &v
	}
	return &copied
}
