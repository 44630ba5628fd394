package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to exactly one order's thread. Messages are immutable once
// created. IsSystemMessage marks the single automatic notification inserted
// when the order is placed. Read is stored but no operation toggles it yet.
type Message struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrderID         uuid.UUID `json:"order_id" db:"order_id"`
	SenderID        uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID      uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Content         string    `json:"content" db:"content"`
	IsSystemMessage bool      `json:"is_system_message" db:"is_system_message"`
	Read            bool      `json:"read" db:"read"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
