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
	ErrOrderNotFound = errors.New("order not found")
)

// BestSellingStat is one row of the best-selling aggregation: a product and
// the total quantity sold across its counted orders.
type BestSellingStat struct {
	ProductID uuid.UUID
	TotalSold int64
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create persists the order together with its system notification
	// message in a single transaction, so an order can never exist without
	// its notification.
	Create(ctx context.Context, order *domain.Order, systemMessage *domain.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*domain.Order, error)
	ListByProducer(ctx context.Context, producerID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	// BestSellingStats sums sold quantities per product over all orders that
	// are neither cancelled nor still awaiting producer confirmation.
	BestSellingStats(ctx context.Context, limit int) ([]BestSellingStat, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, consumer_id, producer_id, product_id, product_name, unit_price_cents, product_image_url, quantity, total_price_cents, delivery_method, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.ConsumerID,
		&order.ProducerID,
		&order.ProductID,
		&order.ProductDetails.ProductName,
		&order.ProductDetails.UnitPriceCents,
		&order.ProductDetails.ProductImageURL,
		&order.Quantity,
		&order.TotalPriceCents,
		&order.DeliveryMethod,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Create inserts the order and its system message atomically
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, systemMessage *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, consumer_id, producer_id, product_id, product_name, unit_price_cents, product_image_url,
		                    quantity, total_price_cents, delivery_method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.ConsumerID,
		order.ProducerID,
		order.ProductID,
		order.ProductDetails.ProductName,
		order.ProductDetails.UnitPriceCents,
		order.ProductDetails.ProductImageURL,
		order.Quantity,
		order.TotalPriceCents,
		order.DeliveryMethod,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	messageQuery := `
		INSERT INTO messages (id, order_id, sender_id, receiver_id, content, is_system_message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(
		ctx,
		messageQuery,
		systemMessage.ID,
		systemMessage.OrderID,
		systemMessage.SenderID,
		systemMessage.ReceiverID,
		systemMessage.Content,
		systemMessage.IsSystemMessage,
		systemMessage.Read,
		systemMessage.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order notification message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order creation: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID using parameterized queries
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// ListByConsumer retrieves a consumer's orders, newest first
func (r *orderRepository) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE consumer_id = $1 ORDER BY created_at DESC`, orderColumns)

	return r.queryOrders(ctx, query, consumerID)
}

// ListByProducer retrieves a producer's received orders, newest first
func (r *orderRepository) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE producer_id = $1 ORDER BY created_at DESC`, orderColumns)

	return r.queryOrders(ctx, query, producerID)
}

// UpdateStatus sets the order's status and returns the updated row
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// BestSellingStats aggregates sold quantities per product
func (r *orderRepository) BestSellingStats(ctx context.Context, limit int) ([]BestSellingStat, error) {
	query := `
		SELECT product_id, SUM(quantity) AS total_sold
		FROM orders
		WHERE status NOT IN ($1, $2)
		GROUP BY product_id
		ORDER BY total_sold DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, domain.StatusCancelled, domain.StatusAwaitingConfirmation, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate best selling products: %w", err)
	}
	defer rows.Close()

	stats := []BestSellingStat{}
	for rows.Next() {
		var stat BestSellingStat
		if err := rows.Scan(&stat.ProductID, &stat.TotalSold); err != nil {
			return nil, fmt.Errorf("failed to scan best selling stat: %w", err)
		}
		stats = append(stats, stat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best selling stats: %w", err)
	}

	return stats, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
