package service

import (
	"context"
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/cache"
	"github.com/Cheertaboi/coupon-catalog-service/internal/concurrency"
	ierr "github.com/Cheertaboi/coupon-catalog-service/internal/errors"
	"github.com/Cheertaboi/coupon-catalog-service/internal/logger"
	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/google/uuid"
)

// CouponRepo is the store the service depends on (interface to allow mocking).
type CouponRepo interface {
	Create(ctx context.Context, c *models.Coupon) error
	ListAll(ctx context.Context) ([]*models.Coupon, error)
	// FetchCandidates may pre-filter on expiry, cart floor, tier and usage,
	// but must not filter on categories.
	FetchCandidates(ctx context.Context, user models.User, cart models.Cart, now time.Time) ([]*models.Coupon, error)
}

type Options struct {
	BatchWorkers int
	MaxBatchSize int
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type CouponService struct {
	repo   CouponRepo
	cache  *cache.CouponCache
	logger *logger.Logger
	opts   Options
}

// NewCouponService wires the service. cache may be nil to disable listing caching.
func NewCouponService(repo CouponRepo, cache *cache.CouponCache, logger *logger.Logger, opts Options) *CouponService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BatchWorkers < 1 {
		opts.BatchWorkers = 1
	}
	return &CouponService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		opts:   opts,
	}
}

// CreateCoupon validates and normalizes the request, then stores a new coupon.
func (s *CouponService) CreateCoupon(ctx context.Context, req models.CreateCouponRequest) (*models.Coupon, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToCoupon(s.opts.Now().UTC())
	c.ID = uuid.New().String()

	if err := s.repo.Create(ctx, c); err != nil {
		if ierr.IsDuplicateCode(err) {
			s.logger.Infow("duplicate coupon code rejected", "code", c.Code)
		}
		return nil, err
	}

	s.cache.Invalidate()
	s.logger.Infow("coupon created", "id", c.ID, "code", c.Code, "type", c.Kind)

	return c, nil
}

// ListCoupons returns the catalog, newest first.
func (s *CouponService) ListCoupons(ctx context.Context) ([]*models.Coupon, error) {
	if coupons, ok := s.cache.GetCatalog(); ok {
		return coupons, nil
	}

	coupons, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetCatalog(coupons)
	return coupons, nil
}

// FindBest fetches candidates for the request and selects the best coupon.
// Eligibility is always re-checked in full after the fetch.
func (s *CouponService) FindBest(ctx context.Context, req models.BestCouponRequest) (*models.EvaluationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now, err := req.EvaluationTime(s.opts.Now())
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.FetchCandidates(ctx, *req.User, *req.Cart, now)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := Evaluate(candidates, *req.User, *req.Cart, now)
	s.logResult(result, len(candidates))

	return result, nil
}

// FindBestBatch evaluates every request against one catalog snapshot, in parallel.
// Results are returned in request order.
func (s *CouponService) FindBestBatch(ctx context.Context, batch models.BatchBestCouponRequest) ([]*models.EvaluationResult, error) {
	if err := batch.Validate(s.opts.MaxBatchSize); err != nil {
		return nil, err
	}

	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	fallback := s.opts.Now()
	return concurrency.MapOrdered(ctx, s.opts.BatchWorkers, batch.Requests,
		func(_ context.Context, _ int, req models.BestCouponRequest) (*models.EvaluationResult, error) {
			now, err := req.EvaluationTime(fallback)
			if err != nil {
				return nil, err
			}
			return Evaluate(snapshot, *req.User, *req.Cart, now), nil
		})
}

func (s *CouponService) logResult(result *models.EvaluationResult, fetched int) {
	if result.BestCoupon == nil {
		s.logger.Debugw("no applicable coupon", "fetched", fetched)
		return
	}
	s.logger.Debugw("best coupon selected",
		"code", result.BestCoupon.Code,
		"discount", result.DiscountAmount.String(),
		"applicable", result.ApplicableCount,
		"fetched", fetched,
	)
}
