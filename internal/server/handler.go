package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-orders/internal/domain"
	"shop-orders/internal/service"
)

type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type createOrderRequest struct {
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
}

type captureRequest struct {
	UserID          uuid.UUID          `json:"userId"`
	CartID          uuid.UUID          `json:"cartId"`
	CartItems       []domain.CartItem  `json:"cartItems"`
	AddressInfo     domain.AddressInfo `json:"addressInfo"`
	TotalAmount     float64            `json:"totalAmount"`
	PaymentID       string             `json:"paymentId"`
	PayerID         string             `json:"payerId"`
	PaymentStatus   string             `json:"paymentStatus"`
	OrderStatus     string             `json:"orderStatus"`
	PaymentMethod   string             `json:"paymentMethod"`
	OrderDate       *time.Time         `json:"orderDate"`
	OrderUpdateDate *time.Time         `json:"orderUpdateDate"`
	RazorpayOrderID string             `json:"razorpayOrderId"`
	Signature       string             `json:"razorpaySignature"`
}

func (r captureRequest) toInput() service.CaptureInput {
	in := service.CaptureInput{
		UserID:         r.UserID,
		CartID:         r.CartID,
		CartItems:      r.CartItems,
		AddressInfo:    r.AddressInfo,
		TotalAmount:    r.TotalAmount,
		PaymentID:      r.PaymentID,
		PayerID:        r.PayerID,
		PaymentStatus:  r.PaymentStatus,
		OrderStatus:    domain.OrderStatus(r.OrderStatus),
		PaymentMethod:  r.PaymentMethod,
		GatewayOrderID: r.RazorpayOrderID,
		Signature:      r.Signature,
	}
	if r.OrderDate != nil {
		in.OrderDate = *r.OrderDate
	}
	if r.OrderUpdateDate != nil {
		in.OrderUpdateDate = *r.OrderUpdateDate
	}
	return in
}

// POST /api/shop/order/create
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orders.CreateGatewayOrder(c.Request.Context(), service.GatewayOrderInput{
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		h.fail(c, err, "Failed to create Razorpay order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// POST /api/shop/order/capture
func (h *OrderHandler) CapturePayment(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orders.CapturePayment(c.Request.Context(), req.toInput())
	if err != nil {
		h.fail(c, err, "Error capturing payment and saving order.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order confirmed and saved.",
		"data":    order,
	})
}

// GET /api/shop/order/list/:userId
func (h *OrderHandler) ListOrdersByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	orders, err := h.orders.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Some error occurred!")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// GET /api/shop/order/details/:id
func (h *OrderHandler) GetOrderDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Some error occurred!")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// fail maps service errors onto HTTP statuses. Unclassified errors are logged
// and answered with the generic message only.
func (h *OrderHandler) fail(c *gin.Context, err error, generic string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		respondError(c, statusFor(svcErr.Kind), svcErr.Message)
		return
	}

	h.logger.Error(generic,
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	respondError(c, http.StatusInternalServerError, generic)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, domain.ErrInvalidInput), errors.Is(kind, domain.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(kind, domain.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
