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

var (
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidDeliveryMethod = errors.New("delivery method must be delivery or pickup")
)

// CreateOrderInput carries a new order request
type CreateOrderInput struct {
	ConsumerID     uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	DeliveryMethod domain.DeliveryMethod
}

// OrderService defines the interface for order lifecycle business logic
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*domain.Order, error)
	ListByProducer(ctx context.Context, producerID uuid.UUID) ([]*domain.Order, error)
	Transition(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	userRepo    repository.UserRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		userRepo:    userRepo,
	}
}

// Create resolves the product, its store and the store owner, snapshots the
// product fields, computes the total and persists the order together with
// the system notification message in one write.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !input.DeliveryMethod.Valid() {
		return nil, ErrInvalidDeliveryMethod
	}

	// Dependent reads in order: product, then its store, then the consumer.
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil {
		return nil, err
	}

	consumer, err := s.userRepo.FindByID(ctx, input.ConsumerID)
	if err != nil {
		return nil, err
	}

	totalPrice := product.PriceCents * int64(input.Quantity)
	now := time.Now()

	order := &domain.Order{
		ID:         uuid.New(),
		ConsumerID: consumer.ID,
		ProducerID: store.OwnerID,
		ProductID:  product.ID,
		ProductDetails: domain.ProductSnapshot{
			ProductName:     product.Name,
			UnitPriceCents:  product.PriceCents,
			ProductImageURL: product.ImageURL,
		},
		Quantity:        input.Quantity,
		TotalPriceCents: totalPrice,
		DeliveryMethod:  input.DeliveryMethod,
		Status:          domain.StatusAwaitingConfirmation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	systemMessage := &domain.Message{
		ID:              uuid.New(),
		OrderID:         order.ID,
		SenderID:        consumer.ID,
		ReceiverID:      store.OwnerID,
		Content:         orderSummary(consumer, product, order),
		IsSystemMessage: true,
		CreatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order, systemMessage); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByID retrieves an order by ID
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// ListByConsumer retrieves a consumer's orders, newest first
func (s *orderService) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByConsumer(ctx, consumerID)
}

// ListByProducer retrieves a producer's received orders, newest first
func (s *orderService) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByProducer(ctx, producerID)
}

// Transition applies a lifecycle operation to the order. The transition
// table in domain decides whether the operation is allowed from the order's
// current status; anything else fails with domain.ErrInvalidTransition.
func (s *orderService) Transition(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(order.Status, op)
	if err != nil {
		return nil, err
	}

	return s.orderRepo.UpdateStatus(ctx, id, next)
}

// orderSummary renders the system notification sent to the producer when an
// order is placed.
func orderSummary(consumer *domain.User, product *domain.Product, order *domain.Order) string {
	return fmt.Sprintf(
		"**New order received!**\n"+
			"-----------------------------\n"+
			"**Customer:** %s\n"+
			"**Contact:** %s\n"+
			"**Address:** %s, %s\n"+
			"-----------------------------\n"+
			"**Product:** %s\n"+
			"**Quantity:** %d\n"+
			"**Unit price:** %s\n"+
			"**Total price:** %s\n"+
			"-----------------------------\n"+
			"**Delivery method:** %s\n"+
			"-----------------------------\n"+
			"*Waiting for producer confirmation.*",
		consumer.Name,
		consumer.Phone,
		consumer.Address, consumer.City,
		product.Name,
		order.Quantity,
		formatCents(order.ProductDetails.UnitPriceCents),
		formatCents(order.TotalPriceCents),
		order.DeliveryMethod,
	)
}

// formatCents renders integer cents as a currency amount, e.g. 1250 -> $12.50
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
