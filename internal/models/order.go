package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusInProgress = "in progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID          uuid.UUID
	UID         string
	Package     string
	AmountCents int64
	Credits     int
	Status      string
	PaymentID   string
	CreatedAt   time.Time
}

// Amount returns the order amount in dollars.
func (o *Order) Amount() float64 {
	return float64(o.AmountCents) / 100
}
