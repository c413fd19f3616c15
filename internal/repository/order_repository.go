package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-service/internal/domain"
)

// OrderRepository defines persistence access for the order snapshot.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	Upsert(ctx context.Context, orders []domain.Order) (int, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

// ListOrders returns every order in insertion order.
func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const query = `
        SELECT order_id, customer_name, email, attributes
        FROM orders ORDER BY created_at, order_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			attrs map[string]any
		)
		if err := rows.Scan(&order.OrderID, &order.CustomerName, &order.Email, &attrs); err != nil {
			return nil, err
		}
		order.Attributes = attrs
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Upsert writes orders in a single batch, replacing existing rows with the same id.
func (r *orderRepository) Upsert(ctx context.Context, orders []domain.Order) (int, error) {
	const query = `
        INSERT INTO orders (order_id, customer_name, email, attributes)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (order_id) DO UPDATE
        SET customer_name=EXCLUDED.customer_name, email=EXCLUDED.email, attributes=EXCLUDED.attributes`

	batch := &pgx.Batch{}
	for _, o := range orders {
		attrs := o.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		batch.Queue(query, o.OrderID, o.CustomerName, o.Email, attrs)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range orders {
		if _, err := results.Exec(); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
