package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

// newTestDB connects to TEST_POSTGRES_URL, migrates it and truncates the
// catalog tables. The test is skipped when the variable is unset.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(pool))

	_, err = pool.Exec(ctx, "TRUNCATE products, promo_codes, outbox_messages")
	require.NoError(t, err)

	return db.NewClient(pool)
}

func newProduct(t *testing.T, name, category string, featured bool, createdAt time.Time) model.Product {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return model.Product{
		ID:        id,
		Name:      name,
		Price:     10,
		Category:  category,
		Featured:  featured,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestProductRepositoryIntegration(t *testing.T) {
	client := newTestDB(t)
	repo := repository.NewProductRepository(client)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	shirt := newProduct(t, "Blue Shirt", "shirts", true, now.Add(-3*time.Hour))
	tee := newProduct(t, "Graphic TEE", "shirts", false, now.Add(-2*time.Hour))
	boot := newProduct(t, "Hiking Boot", "shoes", false, now.Add(-1*time.Hour))
	promo := newProduct(t, "100% Cotton", "shirts", false, now)
	for _, p := range []model.Product{shirt, tee, boot, promo} {
		require.NoError(t, repo.CreateProduct(ctx, p))
	}

	ids := func(products []model.Product) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(products))
		for _, p := range products {
			out = append(out, p.ID)
		}
		return out
	}

	t.Run("Should list newest first without filter", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, repository.ListProductsParams{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{promo.ID, boot.ID, tee.ID, shirt.ID}, ids(products))
	})

	t.Run("Should filter by exact category", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, repository.ListProductsParams{Category: ptr.New("shoes")})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{boot.ID}, ids(products))
	})

	t.Run("Should search name case-insensitively", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, repository.ListProductsParams{Search: ptr.New("tee")})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{tee.ID}, ids(products))
	})

	t.Run("Should treat LIKE metacharacters literally", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, repository.ListProductsParams{Search: ptr.New("0%")})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{promo.ID}, ids(products))
	})

	t.Run("Should filter by featured tri-state", func(t *testing.T) {
		featured, err := repo.ListProducts(ctx, repository.ListProductsParams{Featured: ptr.New(true)})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{shirt.ID}, ids(featured))

		notFeatured, err := repo.ListProducts(ctx, repository.ListProductsParams{Featured: ptr.New(false)})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{promo.ID, boot.ID, tee.ID}, ids(notFeatured))
	})

	t.Run("Should list same category excluding reference", func(t *testing.T) {
		products, err := repo.ListProductsByCategory(ctx, repository.ListProductsByCategoryParams{
			Category:  "shirts",
			ExcludeID: shirt.ID,
			Limit:     6,
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{tee.ID, promo.ID}, ids(products))
	})

	t.Run("Should round-trip product with empty slices", func(t *testing.T) {
		got, err := repo.GetProduct(ctx, boot.ID)
		require.NoError(t, err)
		assert.Equal(t, boot.Name, got.Name)
		assert.Equal(t, []string{}, got.Images)
		assert.True(t, boot.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Should report missing product", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, uuid.New())
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		err = repo.DeleteProduct(ctx, uuid.New())
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})
}

func TestPromoCodeRepositoryIntegration(t *testing.T) {
	client := newTestDB(t)
	repo := repository.NewPromoCodeRepository(client)
	ctx := context.Background()

	welcome := model.PromoCode{ID: uuid.New(), Code: "WELCOME", Discount: 15, Active: true, CreatedAt: time.Now()}
	require.NoError(t, repo.CreatePromoCode(ctx, welcome))

	t.Run("Should reject duplicate code regardless of case", func(t *testing.T) {
		dup := model.PromoCode{ID: uuid.New(), Code: "welcome", Discount: 50, Active: true, CreatedAt: time.Now()}
		err := repo.CreatePromoCode(ctx, dup)
		assert.True(t, errors.Is(err, repository.ErrDuplicate))

		got, err := repo.GetActivePromoCode(ctx, "Welcome")
		require.NoError(t, err)
		assert.Equal(t, welcome.ID, got.ID)
		assert.Equal(t, 15.0, got.Discount)
	})

	t.Run("Should hide inactive promo", func(t *testing.T) {
		inactive := model.PromoCode{ID: uuid.New(), Code: "OLD", Discount: 5, Active: false, CreatedAt: time.Now()}
		require.NoError(t, repo.CreatePromoCode(ctx, inactive))

		_, err := repo.GetActivePromoCode(ctx, "OLD")
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})
}
