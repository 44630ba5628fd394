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
	ErrEmptyContent = errors.New("message content must not be empty")
)

// SendMessageInput carries a chat message bound to one order
type SendMessageInput struct {
	OrderID    uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
}

// MessageService defines the interface for order-thread messaging
type MessageService interface {
	Send(ctx context.Context, input SendMessageInput) (*domain.Message, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	orderRepo   repository.OrderRepository
}

// NewMessageService creates a new instance of MessageService
func NewMessageService(messageRepo repository.MessageRepository, orderRepo repository.OrderRepository) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		orderRepo:   orderRepo,
	}
}

// Send appends a human message to the order's thread. Only the order
// lifecycle engine appends system messages.
func (s *messageService) Send(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	if input.Content == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.orderRepo.FindByID(ctx, input.OrderID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:              uuid.New(),
		OrderID:         input.OrderID,
		SenderID:        input.SenderID,
		ReceiverID:      input.ReceiverID,
		Content:         input.Content,
		IsSystemMessage: false,
		CreatedAt:       time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ListByOrder returns the order's full thread, oldest first
func (s *messageService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error) {
	return s.messageRepo.ListByOrder(ctx, orderID)
}
