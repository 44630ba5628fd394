package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two marketplace user kinds.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleProducer Role = "producer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleConsumer || r == RoleProducer
}

// User represents a marketplace account. Producers own exactly one store,
// referenced by StoreID; consumers never hold a store reference.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	Phone        string     `json:"phone" db:"phone"`
	City         string     `json:"city" db:"city"`
	Address      string     `json:"address" db:"address"`
	AvatarURL    string     `json:"avatar_url" db:"avatar_url"`
	StoreID      *uuid.UUID `json:"store_id,omitempty" db:"store_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
