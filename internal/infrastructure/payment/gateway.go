package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Gateway order statuses as reported by Razorpay.
const (
	StatusCreated   = "created"
	StatusAttempted = "attempted"
	StatusPaid      = "paid"
)

var ErrGatewayOrderNotFound = errors.New("gateway order not found")

type OrderRequest struct {
	Amount   int64 // minor units (paise)
	Currency string
	Receipt  string
}

// Order is the gateway's own order object, forwarded to clients verbatim.
type Order map[string]any

// ID returns the gateway order id, or "" if the payload has none.
func (o Order) ID() string {
	id, _ := o["id"].(string)
	return id
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
	FetchOrderStatus(ctx context.Context, gatewayOrderID string) (string, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
}

// Sign produces the checkout signature Razorpay attaches to a successful payment.
func Sign(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
