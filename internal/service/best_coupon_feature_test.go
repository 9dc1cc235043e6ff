package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Cheertaboi/coupon-catalog-service/internal/cache"
	"github.com/Cheertaboi/coupon-catalog-service/internal/logger"
	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/Cheertaboi/coupon-catalog-service/internal/repository"
	"github.com/cucumber/godog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type bestCouponTestContext struct {
	repo    *repository.MemoryCouponRepo
	service *CouponService
	now     time.Time
	coupons []*models.CreateCouponRequest
	used    map[string]int
	user    models.User
	cart    models.Cart
	result  *models.EvaluationResult
	err     error
}

func (c *bestCouponTestContext) reset() {
	c.repo = repository.NewMemoryCouponRepo()
	c.service = NewCouponService(c.repo, cache.NewCouponCache(time.Minute), logger.NewNopLogger(), Options{
		BatchWorkers: 1,
		Now:          func() time.Time { return c.now },
	})
	c.now = time.Now()
	c.coupons = nil
	c.used = map[string]int{}
	c.user = models.User{}
	c.cart = models.Cart{}
	c.result = nil
	c.err = nil
}

func (c *bestCouponTestContext) coupon(code string) (*models.CreateCouponRequest, error) {
	for _, req := range c.coupons {
		if req.Code == code {
			return req, nil
		}
	}
	return nil, fmt.Errorf("coupon %q was not declared", code)
}

func (c *bestCouponTestContext) theEvaluationDateIs(date string) error {
	d, err := models.ParseDate(date)
	if err != nil {
		return err
	}
	c.now = d.Add(12 * time.Hour)
	return nil
}

func (c *bestCouponTestContext) aCouponWorth(kind, code, value string) error {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	c.coupons = append(c.coupons, &models.CreateCouponRequest{
		Code:          code,
		Kind:          models.CouponKind(kind),
		DiscountValue: &v,
	})
	return nil
}

func (c *bestCouponTestContext) couponIsCappedAt(code, limit string) error {
	req, err := c.coupon(code)
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(limit)
	if err != nil {
		return err
	}
	req.MaxDiscountAmount = &v
	return nil
}

func (c *bestCouponTestContext) couponExpiresOn(code, date string) error {
	req, err := c.coupon(code)
	if err != nil {
		return err
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return err
	}
	req.ExpiryDate = &d
	return nil
}

func (c *bestCouponTestContext) couponRequiresTier(code, tier string) error {
	req, err := c.coupon(code)
	if err != nil {
		return err
	}
	req.UserTier = lo.ToPtr(models.UserTier(tier))
	return nil
}

func (c *bestCouponTestContext) couponIsLimitedToCategories(code, categories string) error {
	req, err := c.coupon(code)
	if err != nil {
		return err
	}
	req.Categories = strings.Split(categories, ",")
	return nil
}

func (c *bestCouponTestContext) couponHasBeenUsed(code string, used, limit int) error {
	req, err := c.coupon(code)
	if err != nil {
		return err
	}
	req.MaxUsage = lo.ToPtr(limit)
	c.used[code] = used
	return nil
}

func (c *bestCouponTestContext) aUserWithTier(tier string) error {
	c.user.Tier = lo.ToPtr(models.UserTier(tier))
	return nil
}

func (c *bestCouponTestContext) aCartTotalling(total string) error {
	return c.aCartTotallingWithItems(total, "")
}

func (c *bestCouponTestContext) aCartTotallingWithItems(total, categories string) error {
	t, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	c.cart = models.Cart{Total: t}
	for _, category := range lo.Compact(strings.Split(categories, ",")) {
		c.cart.Items = append(c.cart.Items, models.CartItem{
			Name:     category + " item",
			Category: category,
			Price:    decimal.NewFromInt(1),
		})
	}
	return nil
}

func (c *bestCouponTestContext) iAskForTheBestCoupon(ctx context.Context) error {
	for _, req := range c.coupons {
		if _, err := c.service.CreateCoupon(ctx, *req); err != nil {
			return fmt.Errorf("create %s: %w", req.Code, err)
		}
	}
	for code, used := range c.used {
		if err := c.repo.SetUsedCount(code, used); err != nil {
			return err
		}
	}

	user, cart := c.user, c.cart
	c.result, c.err = c.service.FindBest(ctx, models.BestCouponRequest{User: &user, Cart: &cart})
	return nil
}

func (c *bestCouponTestContext) evaluated() error {
	if c.err != nil {
		return fmt.Errorf("expected a result but got error: %v", c.err)
	}
	if c.result == nil {
		return errors.New("no evaluation was run")
	}
	return nil
}

func (c *bestCouponTestContext) theBestCouponIs(code string) error {
	if err := c.evaluated(); err != nil {
		return err
	}
	if c.result.BestCoupon == nil {
		return fmt.Errorf("expected %s but no coupon was selected", code)
	}
	if c.result.BestCoupon.Code != code {
		return fmt.Errorf("expected %s, got %s", code, c.result.BestCoupon.Code)
	}
	return nil
}

func (c *bestCouponTestContext) noCouponIsSelected() error {
	if err := c.evaluated(); err != nil {
		return err
	}
	if c.result.BestCoupon != nil {
		return fmt.Errorf("expected no coupon, got %s", c.result.BestCoupon.Code)
	}
	if !c.result.DiscountAmount.IsZero() {
		return fmt.Errorf("expected zero discount, got %s", c.result.DiscountAmount)
	}
	return nil
}

func (c *bestCouponTestContext) theDiscountIs(amount string) error {
	return c.amountEquals("discount", c.result.DiscountAmount, amount)
}

func (c *bestCouponTestContext) theFinalAmountIs(amount string) error {
	return c.amountEquals("final amount", c.result.FinalAmount, amount)
}

func (c *bestCouponTestContext) amountEquals(field string, got decimal.Decimal, want string) error {
	if err := c.evaluated(); err != nil {
		return err
	}
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", field, w, got)
	}
	return nil
}

func (c *bestCouponTestContext) couponsAreApplicable(count int) error {
	if err := c.evaluated(); err != nil {
		return err
	}
	if c.result.ApplicableCount != count {
		return fmt.Errorf("expected %d applicable coupons, got %d", count, c.result.ApplicableCount)
	}
	return nil
}

func InitializeBestCouponScenario(ctx *godog.ScenarioContext) {
	tc := &bestCouponTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the evaluation date is "([^"]*)"$`, tc.theEvaluationDateIs)
	ctx.Step(`^a (FLAT|PERCENT) coupon "([^"]*)" worth (\d+(?:\.\d+)?)$`, tc.aCouponWorth)
	ctx.Step(`^coupon "([^"]*)" is capped at (\d+(?:\.\d+)?)$`, tc.couponIsCappedAt)
	ctx.Step(`^coupon "([^"]*)" expires on "([^"]*)"$`, tc.couponExpiresOn)
	ctx.Step(`^coupon "([^"]*)" requires tier "([^"]*)"$`, tc.couponRequiresTier)
	ctx.Step(`^coupon "([^"]*)" is limited to categories "([^"]*)"$`, tc.couponIsLimitedToCategories)
	ctx.Step(`^coupon "([^"]*)" has been used (\d+) of (\d+) times$`, tc.couponHasBeenUsed)
	ctx.Step(`^a user with tier "([^"]*)"$`, tc.aUserWithTier)
	ctx.Step(`^a cart totalling (\d+(?:\.\d+)?)$`, tc.aCartTotalling)
	ctx.Step(`^a cart totalling (\d+(?:\.\d+)?) with items in categories "([^"]*)"$`, tc.aCartTotallingWithItems)

	// When steps
	ctx.Step(`^I ask for the best coupon$`, tc.iAskForTheBestCoupon)

	// Then steps
	ctx.Step(`^the best coupon is "([^"]*)"$`, tc.theBestCouponIs)
	ctx.Step(`^no coupon is selected$`, tc.noCouponIsSelected)
	ctx.Step(`^the discount is (\d+(?:\.\d+)?)$`, tc.theDiscountIs)
	ctx.Step(`^the final amount is (\d+(?:\.\d+)?)$`, tc.theFinalAmountIs)
	ctx.Step(`^(\d+) coupons are applicable$`, tc.couponsAreApplicable)
}

func TestBestCouponFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeBestCouponScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/best_coupon.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
