package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ierr "github.com/Cheertaboi/coupon-catalog-service/internal/errors"
	"github.com/Cheertaboi/coupon-catalog-service/internal/logger"
	"github.com/Cheertaboi/coupon-catalog-service/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const couponColumns = `
	id, code, kind, discount_value, max_discount_amount, min_cart_value,
	expiry_date, user_tier, max_usage, used_count, description,
	created_at, updated_at`

// couponRow mirrors the coupons table; categories live in coupon_categories.
type couponRow struct {
	ID                string              `db:"id"`
	Code              string              `db:"code"`
	Kind              string              `db:"kind"`
	DiscountValue     decimal.Decimal     `db:"discount_value"`
	MaxDiscountAmount decimal.NullDecimal `db:"max_discount_amount"`
	MinCartValue      decimal.NullDecimal `db:"min_cart_value"`
	ExpiryDate        *models.Date        `db:"expiry_date"`
	UserTier          sql.NullString      `db:"user_tier"`
	MaxUsage          sql.NullInt64       `db:"max_usage"`
	UsedCount         int                 `db:"used_count"`
	Description       string              `db:"description"`
	CreatedAt         time.Time           `db:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at"`
}

func (r couponRow) toModel(categories []string) *models.Coupon {
	c := &models.Coupon{
		ID:            r.ID,
		Code:          r.Code,
		Kind:          models.CouponKind(r.Kind),
		DiscountValue: r.DiscountValue,
		ExpiryDate:    r.ExpiryDate,
		UsedCount:     r.UsedCount,
		Description:   r.Description,
		Categories:    categories,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
	if r.MaxDiscountAmount.Valid {
		c.MaxDiscountAmount = lo.ToPtr(r.MaxDiscountAmount.Decimal)
	}
	if r.MinCartValue.Valid {
		c.MinCartValue = lo.ToPtr(r.MinCartValue.Decimal)
	}
	if r.UserTier.Valid {
		c.UserTier = lo.ToPtr(models.UserTier(r.UserTier.String))
	}
	if r.MaxUsage.Valid {
		c.MaxUsage = lo.ToPtr(int(r.MaxUsage.Int64))
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
	return c
}

// CouponRepo stores coupons in postgres or sqlite3. Queries are written with `?`
// placeholders and rebound for the connected driver.
type CouponRepo struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewCouponRepo(db *sqlx.DB, logger *logger.Logger) *CouponRepo {
	return &CouponRepo{db: db, logger: logger}
}

func (r *CouponRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create inserts the coupon and its categories in one transaction.
func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not create coupon").
			Mark(ierr.ErrDatabase)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertCoupon := r.db.Rebind(`
		INSERT INTO coupons (` + couponColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = tx.ExecContext(ctx, insertCoupon,
		c.ID,
		c.Code,
		string(c.Kind),
		c.DiscountValue,
		nullDecimal(c.MaxDiscountAmount),
		nullDecimal(c.MinCartValue),
		c.ExpiryDate,
		nullTier(c.UserTier),
		nullInt(c.MaxUsage),
		c.UsedCount,
		c.Description,
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("Coupon code already exists").
				WithReportableDetails(map[string]any{"code": c.Code}).
				Mark(ierr.ErrDuplicateCode)
		}
		return ierr.WithError(err).
			WithHint("Could not create coupon").
			Mark(ierr.ErrDatabase)
	}

	if len(c.Categories) > 0 {
		stmt := r.db.Rebind(`INSERT INTO coupon_categories (coupon_id, category) VALUES (?, ?)`)
		for _, cat := range c.Categories {
			if _, err := tx.ExecContext(ctx, stmt, c.ID, cat); err != nil {
				return ierr.WithError(err).
					WithHint("Could not store coupon categories").
					Mark(ierr.ErrDatabase)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Could not create coupon").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

// ListAll returns every coupon, newest first.
func (r *CouponRepo) ListAll(ctx context.Context) ([]*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC, code ASC`

	var rows []couponRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not list coupons").
			Mark(ierr.ErrDatabase)
	}

	return r.withCategories(ctx, rows)
}

// FetchCandidates pushes the expiry, minimum cart value, tier and usage predicates
// into SQL. Category matching needs the cart items and is left to the caller.
func (r *CouponRepo) FetchCandidates(ctx context.Context, user models.User, cart models.Cart, now time.Time) ([]*models.Coupon, error) {
	query := r.db.Rebind(`SELECT ` + couponColumns + ` FROM coupons
		WHERE (expiry_date IS NULL OR expiry_date >= ?)
		  AND (min_cart_value IS NULL OR min_cart_value <= ?)
		  AND (user_tier IS NULL OR user_tier = ?)
		  AND (max_usage IS NULL OR used_count < max_usage)
		ORDER BY created_at DESC, code ASC`)

	var rows []couponRow
	err := r.db.SelectContext(ctx, &rows, query,
		models.NewDate(now),
		cart.Total,
		nullTier(user.Tier),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not load coupons").
			Mark(ierr.ErrDatabase)
	}
	r.logger.Debugw("fetched coupon candidates", "count", len(rows))

	return r.withCategories(ctx, rows)
}

func (r *CouponRepo) withCategories(ctx context.Context, rows []couponRow) ([]*models.Coupon, error) {
	if len(rows) == 0 {
		return []*models.Coupon{}, nil
	}

	ids := lo.Map(rows, func(row couponRow, _ int) string { return row.ID })
	query, args, err := sqlx.In(`SELECT coupon_id, category FROM coupon_categories WHERE coupon_id IN (?) ORDER BY category`, ids)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not load coupon categories").
			Mark(ierr.ErrDatabase)
	}

	var links []struct {
		CouponID string `db:"coupon_id"`
		Category string `db:"category"`
	}
	if err := r.db.SelectContext(ctx, &links, r.db.Rebind(query), args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not load coupon categories").
			Mark(ierr.ErrDatabase)
	}

	byCoupon := make(map[string][]string, len(rows))
	for _, l := range links {
		byCoupon[l.CouponID] = append(byCoupon[l.CouponID], l.Category)
	}

	coupons := make([]*models.Coupon, 0, len(rows))
	for _, row := range rows {
		coupons = append(coupons, row.toModel(byCoupon[row.ID]))
	}
	return coupons, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullTier(t *models.UserTier) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*t), Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
