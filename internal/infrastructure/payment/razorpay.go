package payment

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/sony/gobreaker/v2"
)

type razorpayGateway struct {
	client  *razorpay.Client
	secret  string
	breaker *gobreaker.CircuitBreaker[map[string]interface{}]
}

// NewRazorpayGateway builds a Razorpay client guarded by a circuit breaker.
// Calls are never retried.
func NewRazorpayGateway(keyID, secret string) PaymentGateway {
	return &razorpayGateway{
		client: razorpay.NewClient(keyID, secret),
		secret: secret,
		breaker: gobreaker.NewCircuitBreaker[map[string]interface{}](gobreaker.Settings{
			Name:        "razorpay",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	// the SDK has no context support; honour cancellation before the call at least
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.breaker.Execute(func() (map[string]interface{}, error) {
		return g.client.Order.Create(map[string]interface{}{
			"amount":   req.Amount,
			"currency": req.Currency,
			"receipt":  req.Receipt,
		}, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	return Order(body), nil
}

func (g *razorpayGateway) FetchOrderStatus(ctx context.Context, gatewayOrderID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := g.breaker.Execute(func() (map[string]interface{}, error) {
		return g.client.Order.Fetch(gatewayOrderID, nil, nil)
	})
	if err != nil {
		return "", fmt.Errorf("razorpay fetch order %s: %w", gatewayOrderID, err)
	}
	status, ok := body["status"].(string)
	if !ok {
		return "", fmt.Errorf("razorpay fetch order %s: missing status", gatewayOrderID)
	}
	return status, nil
}

func (g *razorpayGateway) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}, signature, g.secret)
}
