package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

type PromoCodeRepository interface {
	WithDB(db db.DB) PromoCodeRepository
	CreatePromoCode(ctx context.Context, promo model.PromoCode) error
	// GetActivePromoCode matches code case-insensitively among active promos.
	GetActivePromoCode(ctx context.Context, code string) (model.PromoCode, error)
}

type promoCodeRepository struct {
	db db.DB
}

func NewPromoCodeRepository(db db.DB) PromoCodeRepository {
	return &promoCodeRepository{
		db: db,
	}
}

func (r promoCodeRepository) WithDB(db db.DB) PromoCodeRepository {
	return &promoCodeRepository{
		db: db,
	}
}

type promoCodeRow struct {
	ID        uuid.UUID  `db:"id"`
	Code      string     `db:"code"`
	Discount  float64    `db:"discount"`
	ExpiresAt *time.Time `db:"expires_at"`
	Active    bool       `db:"active"`
	CreatedAt time.Time  `db:"created_at"`
}

func (r promoCodeRepository) CreatePromoCode(ctx context.Context, promo model.PromoCode) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO promo_codes (id, code, discount, expires_at, active, created_at)
		VALUES (@id, @code, @discount, @expires_at, @active, @created_at)
	`, pgx.NamedArgs{
		"id":         promo.ID,
		"code":       promo.Code,
		"discount":   promo.Discount,
		"expires_at": promo.ExpiresAt,
		"active":     promo.Active,
		"created_at": promo.CreatedAt,
	}); err != nil {
		return fmt.Errorf("create promo code: %w", translateErr(err))
	}

	return nil
}

func (r promoCodeRepository) GetActivePromoCode(ctx context.Context, code string) (model.PromoCode, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, discount, expires_at, active, created_at
		FROM promo_codes
		WHERE UPPER(code) = UPPER(@code) AND active = TRUE
	`, pgx.NamedArgs{"code": code})
	if err != nil {
		return model.PromoCode{}, fmt.Errorf("get active promo code: %w", translateErr(err))
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[promoCodeRow])
	if err != nil {
		return model.PromoCode{}, fmt.Errorf("get active promo code: %w", translateErr(err))
	}

	return model.PromoCode{
		ID:        row.ID,
		Code:      row.Code,
		Discount:  row.Discount,
		ExpiresAt: row.ExpiresAt,
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
	}, nil
}
