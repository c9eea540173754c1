package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

// fakeDB runs transactions inline. Query methods are left to the embedded nil
// interface because repositories are mocked.
type fakeDB struct {
	db.DB
	txCount int
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.txCount++
	return txFunc(f)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) WithDB(db.DB) repository.ProductRepository { return m }

func (m *mockProductRepo) CreateProduct(ctx context.Context, product model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepo) GetProductForUpdate(ctx context.Context, id uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepo) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) ListProductsByCategory(ctx context.Context, params repository.ListProductsByCategoryParams) ([]model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, product model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPromoRepo struct {
	mock.Mock
}

func (m *mockPromoRepo) WithDB(db.DB) repository.PromoCodeRepository { return m }

func (m *mockPromoRepo) CreatePromoCode(ctx context.Context, promo model.PromoCode) error {
	return m.Called(ctx, promo).Error(0)
}

func (m *mockPromoRepo) GetActivePromoCode(ctx context.Context, code string) (model.PromoCode, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.PromoCode), args.Error(1)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return m }

func (m *mockOutboxRepo) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockOutboxRepo) ListUnprocessedOutboxMsgs(ctx context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]repository.ListUnprocessedOutboxMsgsResult), args.Error(1)
}

func (m *mockOutboxRepo) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	return m.Called(ctx, params).Error(0)
}

func topicIs(topic string) any {
	return mock.MatchedBy(func(p repository.CreateOutboxMsgParams) bool {
		return p.Topic == topic
	})
}
