package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-orders/internal/domain"
	"shop-orders/internal/infrastructure/payment"
	"shop-orders/internal/metrics"
	"shop-orders/internal/service"
)

// --- Mocks ---

type orderServiceMock struct {
	gatewayOrder payment.Order
	order        *domain.Order
	orders       []domain.Order
	err          error

	gotGateway service.GatewayOrderInput
	gotCapture service.CaptureInput
	gotID      uuid.UUID
}

func (m *orderServiceMock) CreateGatewayOrder(_ context.Context, in service.GatewayOrderInput) (payment.Order, error) {
	m.gotGateway = in
	return m.gatewayOrder, m.err
}

func (m *orderServiceMock) CapturePayment(_ context.Context, in service.CaptureInput) (*domain.Order, error) {
	m.gotCapture = in
	return m.order, m.err
}

func (m *orderServiceMock) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	m.gotID = userID
	return m.orders, m.err
}

func (m *orderServiceMock) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.gotID = id
	return m.order, m.err
}

type dbMock struct{ status string }

func (d dbMock) Health(context.Context) map[string]string {
	return map[string]string{"status": d.status}
}
func (d dbMock) Close() error { return nil }

// --- helpers ---

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Order   json.RawMessage `json:"order"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(svc service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewOrderHandler(svc, zap.NewNop()), dbMock{status: "up"}, zap.NewNop(), metrics.Nop(),
		Config{AllowedOrigin: "http://localhost:5173", MetricsHandler: http.NotFoundHandler()})
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func sampleOrder() *domain.Order {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		CartID:      uuid.New(),
		CartItems:   []domain.CartItem{{ProductID: uuid.New(), Title: "Saree", Quantity: 1, Price: 2499}},
		TotalAmount: 2499,
		OrderStatus: domain.OrderConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- CreateOrder ---

func TestCreateOrder_Success(t *testing.T) {
	mock := &orderServiceMock{gatewayOrder: payment.Order{"id": "order_123", "amount": 10000}}
	rec, resp := do(t, newTestRouter(mock), http.MethodPost, "/api/shop/order/create",
		map[string]any{"totalAmount": 100})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"id":"order_123","amount":10000}`, string(resp.Order))
	assert.Equal(t, 100.0, mock.gotGateway.TotalAmount)
	assert.Equal(t, "", mock.gotGateway.Currency)
}

func TestCreateOrder_GatewayFailure(t *testing.T) {
	mock := &orderServiceMock{err: errors.New("razorpay: 401 unauthorized")}
	rec, resp := do(t, newTestRouter(mock), http.MethodPost, "/api/shop/order/create",
		map[string]any{"totalAmount": 100, "currency": "INR"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to create Razorpay order", resp.Message)
}

func TestCreateOrder_InvalidAmount(t *testing.T) {
	mock := &orderServiceMock{err: &service.Error{Kind: domain.ErrInvalidInput, Message: "totalAmount must be greater than zero"}}
	rec, resp := do(t, newTestRouter(mock), http.MethodPost, "/api/shop/order/create",
		map[string]any{"totalAmount": 0})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "totalAmount must be greater than zero", resp.Message)
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	rec, resp := do(t, newTestRouter(&orderServiceMock{}), http.MethodPost, "/api/shop/order/create",
		map[string]any{"totalAmount": "lots"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

// --- CapturePayment ---

func TestCapturePayment_Success(t *testing.T) {
	order := sampleOrder()
	mock := &orderServiceMock{order: order}
	orderDate := time.Date(2026, 6, 1, 7, 59, 0, 0, time.UTC)

	body := map[string]any{
		"userId":            order.UserID,
		"cartId":            order.CartID,
		"cartItems":         order.CartItems,
		"addressInfo":       map[string]string{"address": "1 Marine Drive", "city": "Mumbai", "pincode": "400002", "phone": "9123456789"},
		"totalAmount":       2499,
		"paymentId":         "pay_abc",
		"payerId":           "payer_abc",
		"paymentStatus":     "paid",
		"orderStatus":       "confirmed",
		"paymentMethod":     "razorpay",
		"orderDate":         orderDate,
		"razorpayOrderId":   "order_123",
		"razorpaySignature": "sig",
	}
	rec, resp := do(t, newTestRouter(mock), http.MethodPost, "/api/shop/order/capture", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Order confirmed and saved.", resp.Message)

	var got domain.Order
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, order.ID, got.ID)

	in := mock.gotCapture
	assert.Equal(t, order.UserID, in.UserID)
	assert.Equal(t, order.CartItems, in.CartItems)
	assert.Equal(t, "Mumbai", in.AddressInfo.City)
	assert.Equal(t, domain.OrderConfirmed, in.OrderStatus)
	assert.True(t, orderDate.Equal(in.OrderDate))
	assert.True(t, in.OrderUpdateDate.IsZero())
	assert.Equal(t, "order_123", in.GatewayOrderID)
	assert.Equal(t, "sig", in.Signature)
}

func TestCapturePayment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"product missing", &service.Error{Kind: domain.ErrNotFound, Message: "Product not found: Lamp"}, http.StatusNotFound, "Product not found: Lamp"},
		{"out of stock", &service.Error{Kind: domain.ErrInsufficientStock, Message: "Insufficient stock for Lamp"}, http.StatusConflict, "Insufficient stock for Lamp"},
		{"bad signature", &service.Error{Kind: domain.ErrInvalidSignature, Message: "Payment verification failed"}, http.StatusBadRequest, "Payment verification failed"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Error capturing payment and saving order."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &orderServiceMock{err: tt.err}
			rec, resp := do(t, newTestRouter(mock), http.MethodPost, "/api/shop/order/capture",
				map[string]any{"userId": uuid.New(), "cartId": uuid.New()})

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestCapturePayment_InvalidUUID(t *testing.T) {
	rec, _ := do(t, newTestRouter(&orderServiceMock{}), http.MethodPost, "/api/shop/order/capture",
		map[string]any{"userId": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- ListOrdersByUser ---

func TestListOrdersByUser_Success(t *testing.T) {
	first, second := sampleOrder(), sampleOrder()
	mock := &orderServiceMock{orders: []domain.Order{*second, *first}}
	userID := uuid.New()

	rec, resp := do(t, newTestRouter(mock), http.MethodGet, "/api/shop/order/list/"+userID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, userID, mock.gotID)

	var got []domain.Order
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestListOrdersByUser_NoOrders(t *testing.T) {
	mock := &orderServiceMock{err: &service.Error{Kind: domain.ErrNotFound, Message: "No orders found!"}}
	rec, resp := do(t, newTestRouter(mock), http.MethodGet, "/api/shop/order/list/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No orders found!", resp.Message)
}

func TestListOrdersByUser_InvalidID(t *testing.T) {
	rec, resp := do(t, newTestRouter(&orderServiceMock{}), http.MethodGet, "/api/shop/order/list/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user id", resp.Message)
}

// --- GetOrderDetails ---

func TestGetOrderDetails_Success(t *testing.T) {
	order := sampleOrder()
	mock := &orderServiceMock{order: order}

	rec, resp := do(t, newTestRouter(mock), http.MethodGet, "/api/shop/order/details/"+order.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.ID, mock.gotID)

	var got domain.Order
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.TotalAmount, got.TotalAmount)
}

func TestGetOrderDetails_NotFound(t *testing.T) {
	mock := &orderServiceMock{err: &service.Error{Kind: domain.ErrNotFound, Message: "Order not found!"}}
	rec, resp := do(t, newTestRouter(mock), http.MethodGet, "/api/shop/order/details/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found!", resp.Message)
}

func TestGetOrderDetails_StoreFailure(t *testing.T) {
	mock := &orderServiceMock{err: errors.New("timeout")}
	rec, resp := do(t, newTestRouter(mock), http.MethodGet, "/api/shop/order/details/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Some error occurred!", resp.Message)
}

// --- infrastructure routes ---

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewOrderHandler(&orderServiceMock{}, zap.NewNop()), dbMock{status: "down"}, zap.NewNop(),
		metrics.Nop(), Config{AllowedOrigin: "http://localhost:5173"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(&orderServiceMock{err: errors.New("x")})
	req := httptest.NewRequest(http.MethodGet, "/api/shop/order/details/"+uuid.NewString(), nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}
