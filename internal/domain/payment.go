package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	// PaymentCreated: gateway order issued, capture not seen yet.
	PaymentCreated  PaymentStatus = "CREATED"
	PaymentCaptured PaymentStatus = "CAPTURED"
	// PaymentPaidUncaptured: the gateway took the money but no order was ever saved.
	PaymentPaidUncaptured PaymentStatus = "PAID_UNCAPTURED"
	PaymentExpired        PaymentStatus = "EXPIRED"
)

// Payment tracks a gateway order from initiation until it is captured or reconciled.
type Payment struct {
	ID             uuid.UUID
	GatewayOrderID string
	Receipt        string
	Amount         int64 // minor units
	Currency       string
	Status         PaymentStatus
	PaymentID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
