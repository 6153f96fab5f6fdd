package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-orders/internal/cache"
	"shop-orders/internal/currency"
	"shop-orders/internal/domain"
	"shop-orders/internal/infrastructure/payment"
	"shop-orders/internal/metrics"
	"shop-orders/internal/repo"
)

const DefaultCurrency = "INR"

type OrderService interface {
	CreateGatewayOrder(ctx context.Context, in GatewayOrderInput) (payment.Order, error)
	CapturePayment(ctx context.Context, in CaptureInput) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type GatewayOrderInput struct {
	TotalAmount float64
	Currency    string
}

type CaptureInput struct {
	UserID          uuid.UUID
	CartID          uuid.UUID
	CartItems       []domain.CartItem
	AddressInfo     domain.AddressInfo
	TotalAmount     float64
	PaymentID       string
	PayerID         string
	PaymentStatus   string
	OrderStatus     domain.OrderStatus
	PaymentMethod   string
	OrderDate       time.Time
	OrderUpdateDate time.Time

	// GatewayOrderID and Signature come from the Razorpay checkout callback.
	GatewayOrderID string
	Signature      string
}

type Options struct {
	// RequireSignature rejects captures that do not carry a valid gateway signature.
	RequireSignature bool
	Now              func() time.Time
}

type orderService struct {
	db          *sql.DB
	orderRepo   repo.OrderRepo
	productRepo repo.ProductRepo
	cartRepo    repo.CartRepo
	paymentRepo repo.PaymentRepo
	paymentGtw  payment.PaymentGateway
	orderCache  cache.OrderCache
	logger      *zap.Logger
	metrics     *metrics.Metrics
	opts        Options
}

func NewOrderService(
	db *sql.DB,
	orderRepo repo.OrderRepo,
	productRepo repo.ProductRepo,
	cartRepo repo.CartRepo,
	paymentRepo repo.PaymentRepo,
	paymentGtw payment.PaymentGateway,
	orderCache cache.OrderCache,
	logger *zap.Logger,
	m *metrics.Metrics,
	opts Options,
) OrderService {
	if orderCache == nil {
		orderCache = cache.NewNopCache()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		paymentRepo: paymentRepo,
		paymentGtw:  paymentGtw,
		orderCache:  orderCache,
		logger:      logger,
		metrics:     m,
		opts:        opts,
	}
}

// now is truncated to what Postgres timestamptz can store, so returned orders
// compare equal to the ones read back later.
func (s *orderService) now() time.Time {
	return s.opts.Now().UTC().Truncate(time.Microsecond)
}

// ToMinorUnits converts a major-unit amount to paise, rounding to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (s *orderService) CreateGatewayOrder(ctx context.Context, in GatewayOrderInput) (payment.Order, error) {
	order, err := s.createGatewayOrder(ctx, in)
	s.metrics.GatewayOrders.WithLabelValues(resultLabel(err)).Inc()
	return order, err
}

func (s *orderService) createGatewayOrder(ctx context.Context, in GatewayOrderInput) (payment.Order, error) {
	if in.TotalAmount <= 0 {
		return nil, newError(domain.ErrInvalidInput, "totalAmount must be greater than zero")
	}
	cur := in.Currency
	if cur == "" {
		cur = DefaultCurrency
	}

	now := s.now()
	req := payment.OrderRequest{
		Amount:   ToMinorUnits(in.TotalAmount),
		Currency: cur,
		Receipt:  fmt.Sprintf("order_rcptid_%d", now.UnixMilli()),
	}

	gwOrder, err := s.paymentGtw.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	// the client already has a usable gateway order; a lost record only means
	// the reconciliation worker will not see it
	record := &domain.Payment{
		ID:             uuid.New(),
		GatewayOrderID: gwOrder.ID(),
		Receipt:        req.Receipt,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         domain.PaymentCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.paymentRepo.CreatePayment(ctx, s.db, record); err != nil {
		s.logger.Error("record gateway order failed",
			zap.String("gateway_order_id", record.GatewayOrderID), zap.Error(err))
	}

	s.logger.Info("gateway order created",
		zap.String("gateway_order_id", record.GatewayOrderID),
		zap.Int64("amount_minor", req.Amount),
		zap.String("currency", req.Currency),
		zap.String("receipt", req.Receipt),
	)
	return gwOrder, nil
}

func (s *orderService) CapturePayment(ctx context.Context, in CaptureInput) (*domain.Order, error) {
	order, err := s.capturePayment(ctx, in)
	s.metrics.Captures.WithLabelValues(resultLabel(err)).Inc()
	return order, err
}

func (s *orderService) capturePayment(ctx context.Context, in CaptureInput) (*domain.Order, error) {
	if err := s.validateCapture(in); err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          in.UserID,
		CartID:          in.CartID,
		CartItems:       in.CartItems,
		AddressInfo:     in.AddressInfo,
		TotalAmount:     in.TotalAmount,
		PaymentID:       in.PaymentID,
		PayerID:         in.PayerID,
		PaymentStatus:   in.PaymentStatus,
		OrderStatus:     in.OrderStatus,
		PaymentMethod:   in.PaymentMethod,
		OrderDate:       in.OrderDate.UTC().Truncate(time.Microsecond),
		OrderUpdateDate: in.OrderUpdateDate.UTC().Truncate(time.Microsecond),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.OrderStatus == "" {
		order.OrderStatus = domain.OrderConfirmed
	}
	if in.OrderDate.IsZero() {
		order.OrderDate = now
	}
	if in.OrderUpdateDate.IsZero() {
		order.OrderUpdateDate = now
	}

	if sum := lineTotal(order.CartItems); !sum.Equal(decimal.NewFromFloat(order.TotalAmount)) {
		s.logger.Warn("order total does not match cart lines",
			zap.String("user_id", order.UserID.String()),
			zap.String("total", currency.FormatINR(order.TotalAmount)),
			zap.String("lines", currency.FormatINR(sum.InexactFloat64())),
		)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin capture tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.CartItems {
		product, err := s.productRepo.FindByIdForUpdate(ctx, tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, newError(domain.ErrNotFound, "Product not found: %s", item.Title)
		}
		if product.TotalStock < item.Quantity {
			return nil, newError(domain.ErrInsufficientStock, "Insufficient stock for %s", item.Title)
		}

		product.TotalStock -= item.Quantity
		product.UpdatedAt = now
		if err := s.productRepo.UpdateStock(ctx, tx, product); err != nil {
			return nil, err
		}
	}

	deleted, err := s.cartRepo.DeleteCart(ctx, tx, order.CartID)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		s.logger.Warn("cart already gone at capture", zap.String("cart_id", order.CartID.String()))
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if in.GatewayOrderID != "" {
		matched, err := s.paymentRepo.MarkCaptured(ctx, tx, in.GatewayOrderID, in.PaymentID)
		if err != nil {
			return nil, err
		}
		if !matched {
			s.logger.Warn("no open payment record for gateway order",
				zap.String("gateway_order_id", in.GatewayOrderID))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit capture tx: %w", err)
	}

	if err := s.orderCache.Set(ctx, order); err != nil {
		s.logger.Warn("cache order failed", zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	s.logger.Info("order captured",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID.String()),
		zap.String("payment_id", order.PaymentID),
		zap.Int("items", len(order.CartItems)),
		zap.String("total", currency.FormatINR(order.TotalAmount)),
	)
	return order, nil
}

func (s *orderService) validateCapture(in CaptureInput) error {
	if in.UserID == uuid.Nil || in.CartID == uuid.Nil {
		return newError(domain.ErrInvalidInput, "userId and cartId are required")
	}
	if len(in.CartItems) == 0 {
		return newError(domain.ErrInvalidInput, "cartItems must not be empty")
	}
	for _, item := range in.CartItems {
		if item.ProductID == uuid.Nil {
			return newError(domain.ErrInvalidInput, "productId is required for %s", item.Title)
		}
		if item.Quantity <= 0 {
			return newError(domain.ErrInvalidInput, "quantity must be positive for %s", item.Title)
		}
	}

	if in.Signature != "" || s.opts.RequireSignature {
		if in.GatewayOrderID == "" || in.PaymentID == "" ||
			!s.paymentGtw.VerifyPaymentSignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
			return newError(domain.ErrInvalidSignature, "Payment verification failed")
		}
	}
	return nil
}

func lineTotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, newError(domain.ErrNotFound, "No orders found!")
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	cached, err := s.orderCache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("order cache read failed", zap.String("order_id", id.String()), zap.Error(err))
	}

	order, err := s.orderRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, newError(domain.ErrNotFound, "Order not found!")
	}

	if err := s.orderCache.Set(ctx, order); err != nil {
		s.logger.Warn("cache order failed", zap.String("order_id", id.String()), zap.Error(err))
	}
	return order, nil
}
