package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shop-orders/internal/domain"
)

type ProductRepo interface {
	FindById(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// FindByIdForUpdate locks the product row until tx ends.
	FindByIdForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Product, error)
	UpdateStock(ctx context.Context, ex Executor, product *domain.Product) error
	CreateProduct(ctx context.Context, ex Executor, product *domain.Product) error
}

type productRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepo {
	return &productRepo{db: db}
}

const productColumns = "id, title, price, total_stock, created_at, updated_at"

func (r *productRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return findProduct(ctx, r.db, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
}

func (r *productRepo) FindByIdForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Product, error) {
	return findProduct(ctx, tx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
}

func findProduct(ctx context.Context, ex Executor, query string, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := ex.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&p.TotalStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (r *productRepo) UpdateStock(ctx context.Context, ex Executor, product *domain.Product) error {
	_, err := ex.ExecContext(ctx,
		"UPDATE products SET total_stock = $1, updated_at = $2 WHERE id = $3",
		product.TotalStock, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

func (r *productRepo) CreateProduct(ctx context.Context, ex Executor, product *domain.Product) error {
	_, err := ex.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		product.ID, product.Title, product.Price, product.TotalStock, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}
