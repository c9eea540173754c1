package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/dto"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

type promoHandler struct {
	promoSvc  service.PromoService
	validator validator.Validator
}

func newPromoHandler(promoSvc service.PromoService, v validator.Validator) *promoHandler {
	return &promoHandler{
		promoSvc:  promoSvc,
		validator: v,
	}
}

func (h *promoHandler) GetPromo(w http.ResponseWriter, r *http.Request) error {
	discount, err := h.promoSvc.GetPromoDiscount(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		return fmt.Errorf("promo service get promo discount: %w", err)
	}

	return writeJSON(w, http.StatusOK, dto.PromoDiscountResponse{Discount: discount})
}

func (h *promoHandler) CreatePromo(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreatePromoRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		return err
	}

	promo, err := h.promoSvc.CreatePromo(r.Context(), service.CreatePromoParams{
		Code:      strings.TrimSpace(req.Code),
		Discount:  *req.Discount,
		ExpiresAt: req.ExpiresAt,
		Active:    req.Active,
	})
	if err != nil {
		return fmt.Errorf("promo service create promo: %w", err)
	}

	return writeJSON(w, http.StatusCreated, toPromoResponse(promo))
}

func toPromoResponse(p model.PromoCode) dto.PromoResponse {
	return dto.PromoResponse{
		Id:        p.ID,
		Code:      p.Code,
		Discount:  p.Discount,
		ExpiresAt: p.ExpiresAt,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}
