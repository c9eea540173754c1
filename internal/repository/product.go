package repository

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

// ListProductsParams is a conjunctive filter. Nil fields are not applied.
type ListProductsParams struct {
	Category *string
	Search   *string
	Featured *bool
}

type ListProductsByCategoryParams struct {
	Category  string
	ExcludeID uuid.UUID
	Limit     int32
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	// GetProductForUpdate locks the row until the surrounding transaction ends.
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	ListProductsByCategory(ctx context.Context, params ListProductsByCategoryParams) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

const productColumns = `id, name, description, price, category, images, stock, featured, sizes, colors, created_at, updated_at`

type productRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Category    string    `db:"category"`
	Images      []string  `db:"images"`
	Stock       int32     `db:"stock"`
	Featured    bool      `db:"featured"`
	Sizes       []string  `db:"sizes"`
	Colors      []string  `db:"colors"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (@id, @name, @description, @price, @category, @images, @stock, @featured, @sizes, @colors, @created_at, @updated_at)
	`, args); err != nil {
		return fmt.Errorf("create product: %w", translateErr(err))
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.getProduct(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id`, id)
}

func (r productRepository) GetProductForUpdate(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.getProduct(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id FOR UPDATE`, id)
}

func (r productRepository) getProduct(ctx context.Context, query string, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", translateErr(err))
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", translateErr(err))
	}

	return rowToModelProduct(row), nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	query, args := buildListProductsQuery(params)
	products, err := r.list(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r productRepository) ListProductsByCategory(ctx context.Context, params ListProductsByCategoryParams) ([]model.Product, error) {
	products, err := r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE category = @category AND id <> @exclude_id
		LIMIT @limit
	`, pgx.NamedArgs{
		"category":   params.Category,
		"exclude_id": params.ExcludeID,
		"limit":      params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}

	return products, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			name        = @name,
			description = @description,
			price       = @price,
			category    = @category,
			images      = @images,
			stock       = @stock,
			featured    = @featured,
			sizes       = @sizes,
			colors      = @colors,
			updated_at  = @updated_at
		WHERE id = @id
	`, args)
	if err != nil {
		return fmt.Errorf("update product: %w", translateErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product: %w", ErrNotFound)
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", translateErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product: %w", ErrNotFound)
	}

	return nil
}

func (r productRepository) list(ctx context.Context, query string, args pgx.NamedArgs) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, translateErr(err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, translateErr(err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, rowToModelProduct(row))
	}

	return products, nil
}

func buildListProductsQuery(params ListProductsParams) (string, pgx.NamedArgs) {
	var (
		conds []string
		args  = pgx.NamedArgs{}
	)

	if params.Category != nil {
		conds = append(conds, "category = @category")
		args["category"] = *params.Category
	}

	if params.Search != nil {
		conds = append(conds, `name ILIKE '%' || @search || '%'`)
		args["search"] = escapeLike(*params.Search)
	}

	if params.Featured != nil {
		conds = append(conds, "featured = @featured")
		args["featured"] = *params.Featured
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + productColumns + " FROM products")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func productArgs(product model.Product) (pgx.NamedArgs, error) {
	if product.Stock > math.MaxInt32 || product.Stock < math.MinInt32 {
		return nil, fmt.Errorf("stock out of range: %d", product.Stock)
	}

	//nolint:gosec
	stock := int32(product.Stock)

	return pgx.NamedArgs{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"category":    product.Category,
		"images":      nonNil(product.Images),
		"stock":       stock,
		"featured":    product.Featured,
		"sizes":       nonNil(product.Sizes),
		"colors":      nonNil(product.Colors),
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	}, nil
}

func rowToModelProduct(row productRow) model.Product {
	return model.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Category:    row.Category,
		Images:      nonNil(row.Images),
		Stock:       int(row.Stock),
		Featured:    row.Featured,
		Sizes:       nonNil(row.Sizes),
		Colors:      nonNil(row.Colors),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
