package repository

import (
	"context"
	"database/sql"
	"fmt"

	"feira-hub/internal/domain"

	"github.com/google/uuid"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error)
}

type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new instance of MessageRepository
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create appends a message to its order's thread
func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, order_id, sender_id, receiver_id, content, is_system_message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		message.ID,
		message.OrderID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.IsSystemMessage,
		message.Read,
		message.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListByOrder returns the order's full thread, oldest first, for replay
func (r *messageRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error) {
	query := `
		SELECT id, order_id, sender_id, receiver_id, content, is_system_message, read, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*domain.Message{}
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID,
			&message.OrderID,
			&message.SenderID,
			&message.ReceiverID,
			&message.Content,
			&message.IsSystemMessage,
			&message.Read,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
