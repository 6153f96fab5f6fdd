package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID         uuid.UUID
	Title      string
	Price      float64
	TotalStock int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
