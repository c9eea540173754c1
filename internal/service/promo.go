package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

type CreatePromoParams struct {
	Code      string
	Discount  float64
	ExpiresAt *time.Time
	// Active defaults to true when nil.
	Active    *bool
}

type PromoService interface {
	// GetPromoDiscount returns only the discount of an active, unexpired promo.
	GetPromoDiscount(ctx context.Context, code string) (float64, error)
	CreatePromo(ctx context.Context, params CreatePromoParams) (model.PromoCode, error)
}

type promoService struct {
	db            db.DB
	promoRepo     repository.PromoCodeRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewPromoService(
	db db.DB,
	promoRepo repository.PromoCodeRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) PromoService {
	return &promoService{
		db:            db,
		promoRepo:     promoRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *promoService) GetPromoDiscount(ctx context.Context, code string) (float64, error) {
	code = model.NormalizePromoCode(code)
	if code == "" {
		return 0, apperr.PromoNotFoundErr
	}

	promo, err := s.promoRepo.GetActivePromoCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperr.PromoNotFoundErr.WrapParent(err)
		}
		return 0, fmt.Errorf("promo code repository get active promo code: %w", err)
	}

	if promo.ExpiredAt(time.Now()) {
		return 0, apperr.PromoExpiredErr
	}

	return promo.Discount, nil
}

func (s *promoService) CreatePromo(ctx context.Context, params CreatePromoParams) (model.PromoCode, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.PromoCode{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	var expiresAt *time.Time
	if params.ExpiresAt != nil {
		expiresAt = ptr.New(params.ExpiresAt.UTC().Truncate(time.Microsecond))
	}

	now := timestamp()
	promo := model.PromoCode{
		ID:        id,
		Code:      model.NormalizePromoCode(params.Code),
		Discount:  params.Discount,
		ExpiresAt: expiresAt,
		Active:    ptr.ValueOr(params.Active, true),
		CreatedAt: now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.promoRepo.
			WithDB(db).
			CreatePromoCode(ctx, promo); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.PromoCodeConflictErr.WrapParent(err)
			}
			return fmt.Errorf("promo code repository create promo code: %w", err)
		}

		return publishOutboxMsg(ctx, s.outboxMsgRepo.WithDB(db), event.TopicPromoCreated, promo.ID, event.PromoCreatedEvent{
			PromoID:   promo.ID.String(),
			Code:      promo.Code,
			ExpiresAt: promo.ExpiresAt,
			At:        now,
		})
	}); err != nil {
		return model.PromoCode{}, fmt.Errorf("db with tx: %w", err)
	}

	return promo, nil
}
