package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shop-orders/internal/domain"
)

type PaymentRepo interface {
	CreatePayment(ctx context.Context, ex Executor, payment *domain.Payment) error
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Payment, error)
	// MarkCaptured moves a CREATED payment to CAPTURED and reports whether a row matched.
	MarkCaptured(ctx context.Context, ex Executor, gatewayOrderID, paymentID string) (bool, error)
	UpdatePaymentStatus(ctx context.Context, ex Executor, id uuid.UUID, status domain.PaymentStatus) error
	// FindCreatedBefore lists payments still in CREATED that were issued before the cutoff.
	FindCreatedBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error)
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

const paymentColumns = "id, gateway_order_id, receipt, amount, currency, status, payment_id, created_at, updated_at"

func (r *paymentRepo) CreatePayment(ctx context.Context, ex Executor, payment *domain.Payment) error {
	_, err := ex.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		payment.ID, payment.GatewayOrderID, payment.Receipt, payment.Amount, payment.Currency,
		payment.Status, payment.PaymentID, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE gateway_order_id = $1", gatewayOrderID,
	)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("query payment: %w", err)
	}
	return p, nil
}

func (r *paymentRepo) MarkCaptured(ctx context.Context, ex Executor, gatewayOrderID, paymentID string) (bool, error) {
	res, err := ex.ExecContext(ctx, `
		UPDATE payments
		SET status = $2,
		    payment_id = $3,
		    updated_at = now()
		WHERE gateway_order_id = $1 AND status = $4
	`, gatewayOrderID, domain.PaymentCaptured, paymentID, domain.PaymentCreated)
	if err != nil {
		return false, fmt.Errorf("mark payment captured: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark payment captured rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *paymentRepo) UpdatePaymentStatus(ctx context.Context, ex Executor, id uuid.UUID, status domain.PaymentStatus) error {
	_, err := ex.ExecContext(ctx,
		"UPDATE payments SET status = $2, updated_at = now() WHERE id = $1",
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindCreatedBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE status = $1
		AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`, domain.PaymentCreated, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query created payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return payments, nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(
		&p.ID,
		&p.GatewayOrderID,
		&p.Receipt,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.PaymentID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
