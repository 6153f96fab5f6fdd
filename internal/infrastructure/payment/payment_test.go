package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_CreateAndFetch(t *testing.T) {
	ctx := context.Background()
	gw := NewMockGateway("secret")

	order, err := gw.CreateOrder(ctx, OrderRequest{Amount: 10000, Currency: "INR", Receipt: "order_rcptid_1"})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID())
	assert.Equal(t, int64(10000), order["amount"])
	assert.Equal(t, "INR", order["currency"])

	status, err := gw.FetchOrderStatus(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)

	gw.MarkPaid(order.ID())
	status, err = gw.FetchOrderStatus(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, status)

	require.Len(t, gw.Requests(), 1)
	assert.Equal(t, int64(10000), gw.Requests()[0].Amount)
}

func TestMockGateway_FetchUnknown(t *testing.T) {
	_, err := NewMockGateway("secret").FetchOrderStatus(context.Background(), "order_missing")
	assert.ErrorIs(t, err, ErrGatewayOrderNotFound)
}

func TestMockGateway_InjectedError(t *testing.T) {
	gw := NewMockGateway("secret")
	gw.SetError(errors.New("gateway down"))

	_, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	assert.EqualError(t, err, "gateway down")
}

func TestSignatureVerification(t *testing.T) {
	sig := Sign("secret", "order_abc", "pay_xyz")

	gateways := map[string]PaymentGateway{
		"mock":     NewMockGateway("secret"),
		"razorpay": NewRazorpayGateway("rzp_test_key", "secret"),
	}
	for name, gw := range gateways {
		t.Run(name, func(t *testing.T) {
			assert.True(t, gw.VerifyPaymentSignature("order_abc", "pay_xyz", sig))
			assert.False(t, gw.VerifyPaymentSignature("order_abc", "pay_other", sig))
			assert.False(t, gw.VerifyPaymentSignature("order_abc", "pay_xyz", "deadbeef"))
		})
	}
}

func TestRazorpayGateway_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRazorpayGateway("rzp_test_key", "secret").CreateOrder(ctx, OrderRequest{Amount: 100})
	assert.ErrorIs(t, err, context.Canceled)
}
