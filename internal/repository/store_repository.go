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
	ErrStoreNotFound  = errors.New("store not found")
	ErrStoreNameTaken = errors.New("store with this name already exists")
)

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Store, error)
}

type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new instance of StoreRepository
func NewStoreRepository(db *sql.DB) StoreRepository {
	return &storeRepository{db: db}
}

// Create inserts a new store into the database using parameterized queries
func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		store.ID,
		store.Name,
		store.OwnerID,
		store.CreatedAt,
		store.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrStoreNameTaken
		}
		return fmt.Errorf("failed to create store: %w", err)
	}

	return nil
}

// FindByID retrieves a store by ID using parameterized queries
func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	store := &domain.Store{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&store.ID,
		&store.Name,
		&store.OwnerID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find store by ID: %w", err)
	}

	return store, nil
}

// FindByOwner retrieves the store owned by the given producer
func (r *storeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Store, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM stores
		WHERE owner_id = $1
	`

	store := &domain.Store{}
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(
		&store.ID,
		&store.Name,
		&store.OwnerID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find store by owner: %w", err)
	}

	return store, nil
}
