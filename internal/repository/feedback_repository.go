package repository

import (
	"context"
	"database/sql"
	"fmt"

	"feira-hub/internal/domain"

	"github.com/google/uuid"
)

// FeedbackRepository defines the interface for feedback data access
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Feedback, error)
}

type feedbackRepository struct {
	db *sql.DB
}

// NewFeedbackRepository creates a new instance of FeedbackRepository
func NewFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create persists a feedback entry. The product back-reference is the
// feedback row's product_id, so attaching it to the product is part of this
// single insert.
func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	query := `
		INSERT INTO feedbacks (id, product_id, consumer_id, consumer_name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		feedback.ID,
		feedback.ProductID,
		feedback.ConsumerID,
		feedback.ConsumerName,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// ListByProduct returns a product's feedback, most recent first
func (r *feedbackRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Feedback, error) {
	query := `
		SELECT id, product_id, consumer_id, consumer_name, rating, comment, created_at
		FROM feedbacks
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedbacks: %w", err)
	}
	defer rows.Close()

	feedbacks := []*domain.Feedback{}
	for rows.Next() {
		feedback := &domain.Feedback{}
		err := rows.Scan(
			&feedback.ID,
			&feedback.ProductID,
			&feedback.ConsumerID,
			&feedback.ConsumerName,
			&feedback.Rating,
			&feedback.Comment,
			&feedback.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, feedback)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedbacks: %w", err)
	}

	return feedbacks, nil
}
