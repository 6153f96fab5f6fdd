package payment

import (
	"context"
	"crypto/hmac"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockGateway is an in-memory stand-in for Razorpay used in development and tests.
type MockGateway struct {
	secret string

	mu       sync.RWMutex
	orders   map[string]Order
	requests []OrderRequest
	err      error
}

func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{secret: secret, orders: make(map[string]Order)}
}

func (m *MockGateway) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}

	id := "order_" + uuid.NewString()[:14]
	order := Order{
		"id":          id,
		"entity":      "order",
		"amount":      req.Amount,
		"amount_paid": int64(0),
		"amount_due":  req.Amount,
		"currency":    req.Currency,
		"receipt":     req.Receipt,
		"status":      StatusCreated,
		"attempts":    0,
		"created_at":  time.Now().Unix(),
	}
	m.orders[id] = order
	return order, nil
}

func (m *MockGateway) FetchOrderStatus(ctx context.Context, gatewayOrderID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return "", m.err
	}
	order, ok := m.orders[gatewayOrderID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrGatewayOrderNotFound, gatewayOrderID)
	}
	return order["status"].(string), nil
}

func (m *MockGateway) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	expected := Sign(m.secret, gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// MarkPaid simulates the customer completing checkout for a gateway order.
func (m *MockGateway) MarkPaid(gatewayOrderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order, ok := m.orders[gatewayOrderID]; ok {
		order["status"] = StatusPaid
		order["amount_paid"] = order["amount"]
		order["amount_due"] = int64(0)
	}
}

// SetError makes every later call fail with err; nil restores normal behaviour.
func (m *MockGateway) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns the order requests received so far.
func (m *MockGateway) Requests() []OrderRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]OrderRequest(nil), m.requests...)
}
