package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is an immutable product review. ConsumerName is denormalized at
// submission time; renaming the account later does not rewrite history.
type Feedback struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	ConsumerID   uuid.UUID `json:"consumer_id" db:"consumer_id"`
	ConsumerName string    `json:"consumer_name" db:"consumer_name"`
	Rating       int       `json:"rating" db:"rating"`
	Comment      string    `json:"comment" db:"comment"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
