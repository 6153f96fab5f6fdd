package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
)

// CartItem is the snapshot of a cart line copied into an order at capture time.
type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Image     string    `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

type AddressInfo struct {
	AddressID string `json:"addressId,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes,omitempty"`
}

type Order struct {
	ID              uuid.UUID   `json:"_id"`
	UserID          uuid.UUID   `json:"userId"`
	CartID          uuid.UUID   `json:"cartId"`
	CartItems       []CartItem  `json:"cartItems"`
	AddressInfo     AddressInfo `json:"addressInfo"`
	TotalAmount     float64     `json:"totalAmount"`
	PaymentID       string      `json:"paymentId"`
	PayerID         string      `json:"payerId"`
	PaymentStatus   string      `json:"paymentStatus"`
	OrderStatus     OrderStatus `json:"orderStatus"`
	PaymentMethod   string      `json:"paymentMethod"`
	OrderDate       time.Time   `json:"orderDate"`
	OrderUpdateDate time.Time   `json:"orderUpdateDate"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
