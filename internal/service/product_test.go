package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

type productFixture struct {
	db         *fakeDB
	repo       *mockProductRepo
	outboxRepo *mockOutboxRepo
	svc        service.ProductService
}

func newProductFixture() productFixture {
	f := productFixture{
		db:         &fakeDB{},
		repo:       &mockProductRepo{},
		outboxRepo: &mockOutboxRepo{},
	}
	f.svc = service.NewProductService(f.db, f.repo, f.outboxRepo)
	return f
}

func TestProductServiceListProducts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params service.ListProductsParams
		want   repository.ListProductsParams
	}{
		{
			name:   "empty filter",
			params: service.ListProductsParams{},
			want:   repository.ListProductsParams{},
		},
		{
			name:   "all category sentinel",
			params: service.ListProductsParams{Category: "all"},
			want:   repository.ListProductsParams{},
		},
		{
			name:   "exact category",
			params: service.ListProductsParams{Category: "shoes"},
			want:   repository.ListProductsParams{Category: ptr.New("shoes")},
		},
		{
			name:   "blank search ignored",
			params: service.ListProductsParams{Search: "   "},
			want:   repository.ListProductsParams{},
		},
		{
			name:   "search and featured false",
			params: service.ListProductsParams{Search: "tee", Featured: ptr.New(false)},
			want:   repository.ListProductsParams{Search: ptr.New("tee"), Featured: ptr.New(false)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture()
			products := []model.Product{{ID: uuid.New(), Name: "Tee"}}
			f.repo.On("ListProducts", ctx, tt.want).Return(products, nil).Once()

			got, err := f.svc.ListProducts(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, products, got)
			f.repo.AssertExpectations(t)
		})
	}

	t.Run("Should propagate storage failure", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("ListProducts", ctx, mock.Anything).Return([]model.Product(nil), errors.New("conn reset"))

		_, err := f.svc.ListProducts(ctx, service.ListProductsParams{})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductServiceGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return not found", func(t *testing.T) {
		f := newProductFixture()
		id := uuid.New()
		f.repo.On("GetProduct", ctx, id).Return(model.Product{}, repository.ErrNotFound)

		_, err := f.svc.GetProduct(ctx, id)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductServiceGetSimilarProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fail with not found for missing reference", func(t *testing.T) {
		f := newProductFixture()
		id := uuid.New()
		f.repo.On("GetProduct", ctx, id).Return(model.Product{}, repository.ErrNotFound)

		_, err := f.svc.GetSimilarProducts(ctx, id)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
		f.repo.AssertNotCalled(t, "ListProductsByCategory", mock.Anything, mock.Anything)
	})

	t.Run("Should query same category excluding reference", func(t *testing.T) {
		f := newProductFixture()
		ref := model.Product{ID: uuid.New(), Category: "shirts"}
		similar := []model.Product{{ID: uuid.New(), Category: "shirts"}}

		f.repo.On("GetProduct", ctx, ref.ID).Return(ref, nil)
		f.repo.On("ListProductsByCategory", ctx, repository.ListProductsByCategoryParams{
			Category:  "shirts",
			ExcludeID: ref.ID,
			Limit:     service.SimilarProductsLimit,
		}).Return(similar, nil)

		got, err := f.svc.GetSimilarProducts(ctx, ref.ID)
		require.NoError(t, err)
		assert.Equal(t, similar, got)
		assert.Equal(t, 6, service.SimilarProductsLimit)
	})
}

func TestProductServiceCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply defaults and publish created event", func(t *testing.T) {
		f := newProductFixture()

		var stored model.Product
		f.repo.On("CreateProduct", ctx, mock.AnythingOfType("model.Product")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(model.Product) }).
			Return(nil)
		f.outboxRepo.On("CreateOutboxMsg", ctx, topicIs(event.TopicProductCreated)).Return(nil)

		before := time.Now().Truncate(time.Microsecond)
		product, err := f.svc.CreateProduct(ctx, service.CreateProductParams{
			Name:     " Linen Shirt ",
			Price:    49.9,
			Category: "shirts",
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "Linen Shirt", product.Name)
		assert.Equal(t, 0, product.Stock)
		assert.False(t, product.Featured)
		assert.Equal(t, []string{}, product.Images)
		assert.Equal(t, []string{}, product.Sizes)
		assert.Equal(t, []string{}, product.Colors)
		assert.False(t, product.CreatedAt.Before(before))
		assert.True(t, product.CreatedAt.Equal(product.CreatedAt.Truncate(time.Microsecond)))
		assert.Equal(t, product.CreatedAt, product.UpdatedAt)
		assert.Equal(t, stored, product)
		assert.Equal(t, 1, f.db.txCount)

		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("Should round-trip through get", func(t *testing.T) {
		f := newProductFixture()

		var stored model.Product
		f.repo.On("CreateProduct", ctx, mock.Anything).
			Run(func(args mock.Arguments) { stored = args.Get(1).(model.Product) }).
			Return(nil)
		f.outboxRepo.On("CreateOutboxMsg", ctx, mock.Anything).Return(nil)

		created, err := f.svc.CreateProduct(ctx, service.CreateProductParams{
			Name:     "Boot",
			Price:    120,
			Category: "shoes",
			Stock:    ptr.New(3),
			Featured: ptr.New(true),
			Sizes:    []string{"42", "43"},
		})
		require.NoError(t, err)

		f.repo.On("GetProduct", ctx, created.ID).Return(stored, nil)
		got, err := f.svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
		assert.Equal(t, 3, got.Stock)
		assert.True(t, got.Featured)
	})

	t.Run("Should carry product fields in event payload", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("CreateProduct", ctx, mock.Anything).Return(nil)

		var payload []byte
		f.outboxRepo.On("CreateOutboxMsg", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				payload = args.Get(1).(repository.CreateOutboxMsgParams).Payload
			}).
			Return(nil)

		product, err := f.svc.CreateProduct(ctx, service.CreateProductParams{Name: "Cap", Price: 5, Category: "hats"})
		require.NoError(t, err)

		var ev event.ProductEvent
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, product.ID.String(), ev.ProductID)
		assert.Equal(t, "hats", ev.Category)
	})

	t.Run("Should fail when outbox write fails", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("CreateProduct", ctx, mock.Anything).Return(nil)
		f.outboxRepo.On("CreateOutboxMsg", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := f.svc.CreateProduct(ctx, service.CreateProductParams{Name: "Cap", Price: 5, Category: "hats"})
		assert.Error(t, err)
	})
}

func TestProductServiceUpdateProduct(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2024, 12, 24, 10, 0, 0, 0, time.UTC)

	existing := model.Product{
		ID:          uuid.New(),
		Name:        "Old name",
		Description: "keep me",
		Price:       10,
		Category:    "shirts",
		Images:      []string{"https://img/1.png"},
		Stock:       4,
		Sizes:       []string{"M"},
		Colors:      []string{"red"},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	t.Run("Should merge only provided fields", func(t *testing.T) {
		f := newProductFixture()
		f.repo.On("GetProductForUpdate", ctx, existing.ID).Return(existing, nil)

		var updated model.Product
		f.repo.On("UpdateProduct", ctx, mock.Anything).
			Run(func(args mock.Arguments) { updated = args.Get(1).(model.Product) }).
			Return(nil)
		f.outboxRepo.On("CreateOutboxMsg", ctx, topicIs(event.TopicProductUpdated)).Return(nil)

		got, err := f.svc.UpdateProduct(ctx, existing.ID, service.UpdateProductParams{
			Name:     ptr.New("New name"),
			Featured: ptr.New(true),
			Colors:   ptr.New([]string{}),
		})
		require.NoError(t, err)

		assert.Equal(t, "New name", got.Name)
		assert.True(t, got.Featured)
		assert.Equal(t, []string{}, got.Colors)
		assert.Equal(t, "keep me", got.Description)
		assert.Equal(t, 10.0, got.Price)
		assert.Equal(t, []string{"M"}, got.Sizes)
		assert.Equal(t, createdAt, got.CreatedAt)
		assert.True(t, got.UpdatedAt.After(createdAt))
		assert.True(t, got.UpdatedAt.Equal(got.UpdatedAt.Truncate(time.Microsecond)))
		assert.Equal(t, updated, got)
	})

	t.Run("Should fail with not found and skip writes", func(t *testing.T) {
		f := newProductFixture()
		id := uuid.New()
		f.repo.On("GetProductForUpdate", ctx, id).Return(model.Product{}, repository.ErrNotFound)

		_, err := f.svc.UpdateProduct(ctx, id, service.UpdateProductParams{Name: ptr.New("x")})
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
		f.repo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
		f.outboxRepo.AssertNotCalled(t, "CreateOutboxMsg", mock.Anything, mock.Anything)
	})
}

func TestProductServiceDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete and publish event", func(t *testing.T) {
		f := newProductFixture()
		id := uuid.New()
		f.repo.On("DeleteProduct", ctx, id).Return(nil)
		f.outboxRepo.On("CreateOutboxMsg", ctx, topicIs(event.TopicProductDeleted)).Return(nil)

		require.NoError(t, f.svc.DeleteProduct(ctx, id))
		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("Should fail with not found for missing product", func(t *testing.T) {
		f := newProductFixture()
		id := uuid.New()
		f.repo.On("DeleteProduct", ctx, id).Return(repository.ErrNotFound)

		err := f.svc.DeleteProduct(ctx, id)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
		f.outboxRepo.AssertNotCalled(t, "CreateOutboxMsg", mock.Anything, mock.Anything)
	})
}
