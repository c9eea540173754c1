package http_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) ListProducts(ctx context.Context, params service.ListProductsParams) ([]model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) GetSimilarProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id uuid.UUID, params service.UpdateProductParams) (model.Product, error) {
	args := m.Called(ctx, id, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPromoService struct {
	mock.Mock
}

func (m *mockPromoService) GetPromoDiscount(ctx context.Context, code string) (float64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockPromoService) CreatePromo(ctx context.Context, params service.CreatePromoParams) (model.PromoCode, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.PromoCode), args.Error(1)
}

type mockUploadService struct {
	mock.Mock
}

func (m *mockUploadService) UploadImage(ctx context.Context, r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	args := m.Called(ctx, string(content), filename)
	return args.String(0), args.Error(1)
}

type fakeHealthChecker struct {
	healthy bool
}

func (f fakeHealthChecker) IsHealthy(context.Context) (bool, error) {
	if !f.healthy {
		return false, errors.New("connection refused")
	}
	return true, nil
}

func sampleProduct() model.Product {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.Product{
		ID:        uuid.MustParse("0190b8a4-7c3e-7000-8000-000000000001"),
		Name:      "Linen Shirt",
		Price:     49.9,
		Category:  "shirts",
		Images:    []string{},
		Sizes:     []string{"M", "L"},
		Colors:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
