package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feira-hub/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// RatedProduct pairs a catalog entry with the number of feedback entries
// attached to it.
type RatedProduct struct {
	Product       domain.Product
	FeedbackCount int
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Product, error)
	TopRatedByFeedbackCount(ctx context.Context, limit int) ([]RatedProduct, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price_cents, stock, category, image_url, store_id, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.Stock,
		&product.Category,
		&product.ImageURL,
		&product.StoreID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price_cents, stock, category, image_url, store_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.Category,
		product.ImageURL,
		product.StoreID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, stock = $5,
		    category = $6, image_url = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.Category,
		product.ImageURL,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return requireRowAffected(result, ErrProductNotFound)
}

// Delete removes a product from the database using parameterized queries.
// Orders keep their snapshot, so deletion never touches order history.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return requireRowAffected(result, ErrProductNotFound)
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListAll retrieves every product, newest first
func (r *productRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	return r.queryProducts(ctx, query)
}

// ListByStore retrieves all products of a store, newest first
func (r *productRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE store_id = $1 ORDER BY created_at DESC`, productColumns)

	return r.queryProducts(ctx, query, storeID)
}

// TopRatedByFeedbackCount ranks products by the number of feedback entries
// attached to them, most reviewed first. This is deliberately a count
// ranking, not an average-rating ranking.
func (r *productRepository) TopRatedByFeedbackCount(ctx context.Context, limit int) ([]RatedProduct, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(f.id) AS feedback_count
		FROM products p
		LEFT JOIN feedbacks f ON f.product_id = p.id
		GROUP BY p.id
		ORDER BY feedback_count DESC, p.created_at DESC
		LIMIT $1
	`, prefixColumns("p", productColumns))

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top rated products: %w", err)
	}
	defer rows.Close()

	rated := []RatedProduct{}
	for rows.Next() {
		var rp RatedProduct
		err := rows.Scan(
			&rp.Product.ID,
			&rp.Product.Name,
			&rp.Product.Description,
			&rp.Product.PriceCents,
			&rp.Product.Stock,
			&rp.Product.Category,
			&rp.Product.ImageURL,
			&rp.Product.StoreID,
			&rp.Product.CreatedAt,
			&rp.Product.UpdatedAt,
			&rp.FeedbackCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rated product: %w", err)
		}
		rated = append(rated, rp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top rated products: %w", err)
	}

	return rated, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
