package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/dto"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

type productHandler struct {
	productSvc service.ProductService
	validator  validator.Validator
}

func newProductHandler(productSvc service.ProductService, v validator.Validator) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		validator:  v,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	var category, search, featured *string
	for name, dst := range map[string]**string{
		"category": &category,
		"search":   &search,
		"featured": &featured,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dst); err != nil {
			return apperr.InvalidQueryErr.WrapParent(err)
		}
	}

	params := service.ListProductsParams{}
	if category != nil {
		params.Category = *category
	}
	if search != nil {
		params.Search = *search
	}
	if featured != nil {
		v, err := parseFeatured(*featured)
		if err != nil {
			return err
		}
		params.Featured = v
	}

	products, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) GetSimilarProducts(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	products, err := h.productSvc.GetSimilarProducts(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get similar products: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreateProductRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Category:    strings.TrimSpace(req.Category),
		Images:      req.Images,
		Stock:       req.Stock,
		Featured:    req.Featured,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	var req dto.UpdateProductRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		return err
	}
	if err := h.validatePresentFields(req); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
		Stock:       req.Stock,
		Featured:    req.Featured,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	return writeJSON(w, http.StatusOK, toProductResponse(product))
}

// validatePresentFields rejects an update that would blank a required field.
// omitempty on pointers also skips an explicit "", so it is checked here.
func (h *productHandler) validatePresentFields(req dto.UpdateProductRequest) error {
	check := struct {
		Name     string `json:"name" validate:"notblank"`
		Category string `json:"category" validate:"notblank"`
	}{Name: "-", Category: "-"}

	if req.Name != nil {
		check.Name = *req.Name
	}
	if req.Category != nil {
		check.Category = *req.Category
	}

	if err := h.validator.Validate(check); err != nil {
		return fmt.Errorf("validate request body: %w", err)
	}
	return nil
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	return writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

// parseFeatured accepts true|false|1|0, case-insensitively.
func parseFeatured(v string) (*bool, error) {
	var b bool
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		b = true
	case "false", "0":
		b = false
	case "":
		return nil, nil
	default:
		return nil, apperr.InvalidQueryErr.WrapParent(fmt.Errorf("featured: unsupported value %q", v))
	}
	return &b, nil
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      nonNil(p.Images),
		Stock:       p.Stock,
		Featured:    p.Featured,
		Sizes:       nonNil(p.Sizes),
		Colors:      nonNil(p.Colors),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []model.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return items
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
