package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shop-orders/internal/domain"
)

type OrderRepo interface {
	FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// FindByUser returns the user's orders, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	CreateOrder(ctx context.Context, ex Executor, order *domain.Order) error
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = `id, user_id, cart_id, cart_items, address_info, total_amount, payment_id, payer_id,
	payment_status, order_status, payment_method, order_date, order_update_date, created_at, updated_at`

func (r *orderRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) CreateOrder(ctx context.Context, ex Executor, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.CartItems)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}
	addressJSON, err := json.Marshal(order.AddressInfo)
	if err != nil {
		return fmt.Errorf("marshal address info: %w", err)
	}

	_, err = ex.ExecContext(ctx, "INSERT INTO orders ("+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.UserID, order.CartID, itemsJSON, addressJSON, order.TotalAmount,
		order.PaymentID, order.PayerID, order.PaymentStatus, order.OrderStatus, order.PaymentMethod,
		order.OrderDate, order.OrderUpdateDate, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order       domain.Order
		itemsJSON   []byte
		addressJSON []byte
	)
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.CartID,
		&itemsJSON,
		&addressJSON,
		&order.TotalAmount,
		&order.PaymentID,
		&order.PayerID,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.PaymentMethod,
		&order.OrderDate,
		&order.OrderUpdateDate,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	order.OrderDate = order.OrderDate.UTC()
	order.OrderUpdateDate = order.OrderUpdateDate.UTC()
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()

	if err := json.Unmarshal(itemsJSON, &order.CartItems); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &order.AddressInfo); err != nil {
		return nil, fmt.Errorf("unmarshal address info: %w", err)
	}
	return &order, nil
}
