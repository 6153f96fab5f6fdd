package worker

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"shop-orders/internal/currency"
	"shop-orders/internal/domain"
	"shop-orders/internal/infrastructure/payment"
	"shop-orders/internal/metrics"
	"shop-orders/internal/repo"
)

const batchSize = 100

// ReconciliationWorker resolves gateway orders that were issued but never
// captured. A gateway order the customer paid for without a saved order is
// flagged PAID_UNCAPTURED for manual follow-up; everything else expires.
type ReconciliationWorker struct {
	db          *sql.DB
	paymentRepo repo.PaymentRepo
	gateway     payment.PaymentGateway
	logger      *zap.Logger
	metrics     *metrics.Metrics
	interval    time.Duration
	after       time.Duration
	now         func() time.Time
}

func NewReconciliationWorker(
	db *sql.DB,
	paymentRepo repo.PaymentRepo,
	gateway payment.PaymentGateway,
	logger *zap.Logger,
	m *metrics.Metrics,
	interval time.Duration,
	after time.Duration,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		db:          db,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		logger:      logger,
		metrics:     m,
		interval:    interval,
		after:       after,
		now:         time.Now,
	}
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.logger.Info("reconciliation worker started",
		zap.Duration("interval", rw.interval), zap.Duration("after", rw.after))

	for {
		select {
		case <-ctx.Done():
			rw.logger.Info("reconciliation worker stopped")
			return
		case <-ticker.C:
			if err := rw.Process(ctx); err != nil {
				rw.logger.Error("reconciliation failed", zap.Error(err))
			}
		}
	}
}

// Process runs one sweep over stale CREATED payments.
func (rw *ReconciliationWorker) Process(ctx context.Context) error {
	stale, err := rw.paymentRepo.FindCreatedBefore(ctx, rw.now().Add(-rw.after), batchSize)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	rw.logger.Info("found stale gateway orders", zap.Int("count", len(stale)))

	for _, p := range stale {
		status, err := rw.gateway.FetchOrderStatus(ctx, p.GatewayOrderID)
		if err != nil {
			// retried on the next tick
			rw.logger.Warn("check gateway order status failed",
				zap.String("gateway_order_id", p.GatewayOrderID), zap.Error(err))
			continue
		}

		next := domain.PaymentExpired
		if status == payment.StatusPaid {
			next = domain.PaymentPaidUncaptured
			rw.logger.Warn("gateway order paid but never captured",
				zap.String("gateway_order_id", p.GatewayOrderID),
				zap.String("receipt", p.Receipt),
				zap.String("amount", currency.FormatINR(float64(p.Amount)/100)),
			)
		}

		if err := rw.paymentRepo.UpdatePaymentStatus(ctx, rw.db, p.ID, next); err != nil {
			return err
		}
		rw.metrics.Reconciled.WithLabelValues(string(next)).Inc()
	}
	return nil
}
