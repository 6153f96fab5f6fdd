package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shop-orders/internal/domain"
)

type CartRepo interface {
	FindById(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	CreateCart(ctx context.Context, tx *sql.Tx, cart *domain.Cart) error
	// DeleteCart reports how many carts were removed; zero is not an error.
	DeleteCart(ctx context.Context, ex Executor, id uuid.UUID) (int64, error)
}

type cartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepo {
	return &cartRepo{db: db}
}

func (r *cartRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1", id,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("query cart by id: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY product_id", id,
	)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return &cart, nil
}

func (r *cartRepo) CreateCart(ctx context.Context, tx *sql.Tx, cart *domain.Cart) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	for _, line := range cart.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)",
			cart.ID, line.ProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return nil
}

func (r *cartRepo) DeleteCart(ctx context.Context, ex Executor, id uuid.UUID) (int64, error) {
	res, err := ex.ExecContext(ctx, "DELETE FROM carts WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete cart rows affected: %w", err)
	}
	return n, nil
}
