package service

import (
	"context"
	"errors"
	"time"

	"feira-hub/internal/domain"
	"feira-hub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrEmptyComment  = errors.New("comment must not be empty")
)

// SubmitFeedbackInput carries a product review
type SubmitFeedbackInput struct {
	ProductID  uuid.UUID
	ConsumerID uuid.UUID
	Rating     int
	Comment    string
}

// FeedbackService defines the interface for the feedback ledger
type FeedbackService interface {
	Submit(ctx context.Context, input SubmitFeedbackInput) (*domain.Feedback, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Feedback, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
}

// NewFeedbackService creates a new instance of FeedbackService
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
	}
}

// Submit validates and persists a review, denormalizing the consumer's
// current display name into the record. Renames after submission do not
// rewrite past feedback.
func (s *feedbackService) Submit(ctx context.Context, input SubmitFeedbackInput) (*domain.Feedback, error) {
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, ErrInvalidRating
	}
	if input.Comment == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	consumer, err := s.userRepo.FindByID(ctx, input.ConsumerID)
	if err != nil {
		return nil, err
	}

	feedback := &domain.Feedback{
		ID:           uuid.New(),
		ProductID:    input.ProductID,
		ConsumerID:   consumer.ID,
		ConsumerName: consumer.Name,
		Rating:       input.Rating,
		Comment:      input.Comment,
		CreatedAt:    time.Now(),
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}

// ListByProduct returns a product's feedback, most recent first
func (s *feedbackService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Feedback, error) {
	return s.feedbackRepo.ListByProduct(ctx, productID)
}
