package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feira-hub/internal/domain"
	"feira-hub/internal/repository"

	"github.com/google/uuid"
)

// DefaultShowcaseSize is how many products the showcase rankings return
const DefaultShowcaseSize = 4

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrNegativeStock = errors.New("stock must not be negative")
)

// CreateProductInput carries a new catalog entry
type CreateProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	Category    string
	ImageURL    string
	StoreID     uuid.UUID
}

// UpdateProductInput enumerates the mutable product fields. Nil means "leave
// unchanged". System-managed fields (id, store, timestamps) are deliberately
// absent so callers cannot overwrite them.
type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Stock       *int    `json:"stock"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
}

// EnrichedProduct is a product joined with its store's display data. The
// re-join is against the live catalog, so a deleted store surfaces as an
// empty store name.
type EnrichedProduct struct {
	domain.Product
	StoreName  string     `json:"store_name"`
	ProducerID *uuid.UUID `json:"producer_id,omitempty"`
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*EnrichedProduct, error)
	ListAll(ctx context.Context) ([]EnrichedProduct, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Product, error)
	ListByProducer(ctx context.Context, producerID uuid.UUID) ([]EnrichedProduct, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TopRated(ctx context.Context, limit int) ([]EnrichedProduct, error)
	BestSelling(ctx context.Context, limit int) ([]EnrichedProduct, error)
}

type productService struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	orderRepo   repository.OrderRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	orderRepo repository.OrderRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		orderRepo:   orderRepo,
	}
}

// Create validates and persists a new product
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.PriceCents < 0 {
		return nil, ErrNegativePrice
	}
	if input.Stock < 0 {
		return nil, ErrNegativeStock
	}
	if _, err := s.storeRepo.FindByID(ctx, input.StoreID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		StoreID:     input.StoreID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetByID retrieves a product enriched with store display data
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*EnrichedProduct, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrich(ctx, *product)
	if err != nil {
		return nil, err
	}
	return &enriched, nil
}

// ListAll retrieves the full showcase, newest first
func (s *productService) ListAll(ctx context.Context) ([]EnrichedProduct, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, products)
}

// ListByStore retrieves a store's products
func (s *productService) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Product, error) {
	return s.productRepo.ListByStore(ctx, storeID)
}

// ListByProducer resolves the producer's store first, then lists its products
func (s *productService) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]EnrichedProduct, error) {
	store, err := s.storeRepo.FindByOwner(ctx, producerID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedProduct, 0, len(products))
	for _, p := range products {
		enriched = append(enriched, EnrichedProduct{
			Product:    *p,
			StoreName:  store.Name,
			ProducerID: &store.OwnerID,
		})
	}
	return enriched, nil
}

// Update applies the allow-listed mutable fields and persists the result
func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, ErrNegativePrice
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrNegativeStock
		}
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the catalog. Existing orders keep their
// snapshot; existing feedback stays queryable by product reference.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// TopRated ranks products by feedback count, most reviewed first
func (s *productService) TopRated(ctx context.Context, limit int) ([]EnrichedProduct, error) {
	if limit <= 0 {
		limit = DefaultShowcaseSize
	}

	rated, err := s.productRepo.TopRatedByFeedbackCount(ctx, limit)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedProduct, 0, len(rated))
	for _, rp := range rated {
		ep, err := s.enrich(ctx, rp.Product)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, ep)
	}
	return enriched, nil
}

// BestSelling ranks products by total quantity across non-cancelled,
// confirmed orders, then re-joins the live catalog. Products deleted since
// the orders were placed are skipped.
func (s *productService) BestSelling(ctx context.Context, limit int) ([]EnrichedProduct, error) {
	if limit <= 0 {
		limit = DefaultShowcaseSize
	}

	stats, err := s.orderRepo.BestSellingStats(ctx, limit)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedProduct, 0, len(stats))
	for _, stat := range stats {
		product, err := s.productRepo.FindByID(ctx, stat.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				continue
			}
			return nil, err
		}
		ep, err := s.enrich(ctx, *product)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, ep)
	}
	return enriched, nil
}

func (s *productService) enrich(ctx context.Context, product domain.Product) (EnrichedProduct, error) {
	enriched := EnrichedProduct{Product: product}

	store, err := s.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil {
		if err == repository.ErrStoreNotFound {
			return enriched, nil
		}
		return EnrichedProduct{}, fmt.Errorf("failed to resolve product store: %w", err)
	}

	enriched.StoreName = store.Name
	enriched.ProducerID = &store.OwnerID
	return enriched, nil
}

func (s *productService) enrichAll(ctx context.Context, products []*domain.Product) ([]EnrichedProduct, error) {
	enriched := make([]EnrichedProduct, 0, len(products))
	for _, p := range products {
		ep, err := s.enrich(ctx, *p)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, ep)
	}
	return enriched, nil
}
