package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusAwaitingConfirmation OrderStatus = "awaiting_producer_confirmation"
	StatusAccepted             OrderStatus = "accepted_by_producer"
	StatusInProgress           OrderStatus = "in_progress"
	StatusFinalized            OrderStatus = "finalized"
	StatusDelivered            OrderStatus = "delivered"
	StatusCancelled            OrderStatus = "cancelled"
)

// DeliveryMethod is how the consumer receives the order.
type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

// Valid reports whether m is one of the known delivery methods.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryMethodDelivery || m == DeliveryMethodPickup
}

// TransitionOp names an order lifecycle operation.
type TransitionOp string

const (
	OpAccept          TransitionOp = "accept"
	OpRefuse          TransitionOp = "refuse"
	OpStart           TransitionOp = "start"
	OpFinalize        TransitionOp = "finalize"
	OpCancel          TransitionOp = "cancel"
	OpConfirmDelivery TransitionOp = "confirm_delivery"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

type transitionRule struct {
	target  OrderStatus
	sources []OrderStatus
}

// transitionTable maps each lifecycle operation to its target state and the
// set of states it may be applied from. Anything outside the table is
// rejected with ErrInvalidTransition.
var transitionTable = map[TransitionOp]transitionRule{
	OpAccept:          {StatusAccepted, []OrderStatus{StatusAwaitingConfirmation}},
	OpRefuse:          {StatusCancelled, []OrderStatus{StatusAwaitingConfirmation}},
	OpStart:           {StatusInProgress, []OrderStatus{StatusAccepted}},
	OpFinalize:        {StatusFinalized, []OrderStatus{StatusAccepted, StatusInProgress}},
	OpCancel:          {StatusCancelled, []OrderStatus{StatusAccepted, StatusInProgress}},
	OpConfirmDelivery: {StatusDelivered, []OrderStatus{StatusFinalized}},
}

// NextStatus returns the state an order in current moves to when op is
// applied, or ErrInvalidTransition if op is not allowed from current.
func NextStatus(current OrderStatus, op TransitionOp) (OrderStatus, error) {
	rule, ok := transitionTable[op]
	if !ok {
		return "", ErrInvalidTransition
	}
	for _, src := range rule.sources {
		if src == current {
			return rule.target, nil
		}
	}
	return "", ErrInvalidTransition
}

// ProductSnapshot is the copy of product fields captured when an order is
// created. It is never re-derived from the live catalog, so order history
// stays stable across later product edits or deletion.
type ProductSnapshot struct {
	ProductName     string `json:"name" db:"product_name"`
	UnitPriceCents  int64  `json:"unit_price_cents" db:"unit_price_cents"`
	ProductImageURL string `json:"image_url" db:"product_image_url"`
}

// Order is a single-product purchase placed by a consumer with a producer.
// TotalPriceCents is fixed at creation; after that, only Status (and
// UpdatedAt) ever change.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ConsumerID      uuid.UUID       `json:"consumer_id" db:"consumer_id"`
	ProducerID      uuid.UUID       `json:"producer_id" db:"producer_id"`
	ProductID       uuid.UUID       `json:"product_id" db:"product_id"`
	ProductDetails  ProductSnapshot `json:"product_details"`
	Quantity        int             `json:"quantity" db:"quantity"`
	TotalPriceCents int64           `json:"total_price_cents" db:"total_price_cents"`
	DeliveryMethod  DeliveryMethod  `json:"delivery_method" db:"delivery_method"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
