package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

// SimilarProductsLimit caps GetSimilarProducts results.
const SimilarProductsLimit = 6

type ListProductsParams struct {
	// Category matches exactly; empty or model.AllCategories disables it.
	Category string
	// Search matches a case-insensitive substring of the name; empty disables it.
	Search   string
	// Featured nil means either.
	Featured *bool
}

type CreateProductParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Images      []string
	Stock       *int
	Featured    *bool
	Sizes       []string
	Colors      []string
}

// UpdateProductParams is merged onto the stored product; nil fields are left untouched.
type UpdateProductParams struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Images      *[]string
	Stock       *int
	Featured    *bool
	Sizes       *[]string
	Colors      *[]string
}

type ProductService interface {
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	GetSimilarProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	filter := repository.ListProductsParams{
		Featured: params.Featured,
	}

	if category := strings.TrimSpace(params.Category); category != "" && category != model.AllCategories {
		filter.Category = &category
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		filter.Search = &search
	}

	products, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, productErr("product repository get product", err)
	}

	return product, nil
}

func (s *productService) GetSimilarProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	ref, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, productErr("product repository get reference product", err)
	}

	products, err := s.productRepo.ListProductsByCategory(ctx, repository.ListProductsByCategoryParams{
		Category:  ref.Category,
		ExcludeID: ref.ID,
		Limit:     SimilarProductsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products by category: %w", err)
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := timestamp()
	product := model.Product{
		ID:          id,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Price:       params.Price,
		Category:    strings.TrimSpace(params.Category),
		Images:      orEmpty(params.Images),
		Stock:       ptr.ValueOr(params.Stock, 0),
		Featured:    ptr.ValueOr(params.Featured, false),
		Sizes:       orEmpty(params.Sizes),
		Colors:      orEmpty(params.Colors),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.publish(ctx, db, event.TopicProductCreated, product.ID, productEvent(product, now))
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	var product model.Product

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		existing, err := productRepo.GetProductForUpdate(ctx, id)
		if err != nil {
			return productErr("product repository get product for update", err)
		}

		product = mergeProduct(existing, params)
		product.UpdatedAt = timestamp()

		if err := productRepo.UpdateProduct(ctx, product); err != nil {
			return productErr("product repository update product", err)
		}

		return s.publish(ctx, db, event.TopicProductUpdated, product.ID, productEvent(product, product.UpdatedAt))
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			DeleteProduct(ctx, id); err != nil {
			return productErr("product repository delete product", err)
		}

		return s.publish(ctx, db, event.TopicProductDeleted, id, event.ProductDeletedEvent{
			ProductID: id.String(),
			At:        timestamp(),
		})
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func (s *productService) publish(ctx context.Context, db db.DB, topic string, key uuid.UUID, ev any) error {
	return publishOutboxMsg(ctx, s.outboxMsgRepo.WithDB(db), topic, key, ev)
}

func publishOutboxMsg(ctx context.Context, repo repository.OutboxMsgRepository, topic string, key uuid.UUID, ev any) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partitionKey := key.String()
	if err := repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      evBytes,
		PartitionKey: &partitionKey,
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func mergeProduct(p model.Product, params UpdateProductParams) model.Product {
	if params.Name != nil {
		p.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Category != nil {
		p.Category = strings.TrimSpace(*params.Category)
	}
	if params.Images != nil {
		p.Images = orEmpty(*params.Images)
	}
	if params.Stock != nil {
		p.Stock = *params.Stock
	}
	if params.Featured != nil {
		p.Featured = *params.Featured
	}
	if params.Sizes != nil {
		p.Sizes = orEmpty(*params.Sizes)
	}
	if params.Colors != nil {
		p.Colors = orEmpty(*params.Colors)
	}
	return p
}

func productEvent(p model.Product, at time.Time) event.ProductEvent {
	return event.ProductEvent{
		ProductID: p.ID.String(),
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		Featured:  p.Featured,
		At:        at,
	}
}

func productErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.ProductNotFoundErr.WrapParent(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// timestamp returns the current time at the precision Postgres TIMESTAMPTZ
// stores, so values returned on write equal the ones read back.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
