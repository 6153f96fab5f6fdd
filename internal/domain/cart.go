package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}
