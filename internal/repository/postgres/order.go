package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, user_name, product_id, product_name, quantity,
	base_total, points_used, points_value, final_price,
	delivery_method, user_data, comment, status, tracking_code, created_at`

func (r *orderRepository) Append(ctx context.Context, o entity.Order) error {
	// ON CONFLICT DO NOTHING keeps commit retries idempotent: a replay of
	// an already stored order id is silently skipped.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (id) DO NOTHING`,
		o.ID, o.UserID, o.UserName, o.ProductID, o.ProductName, o.Quantity,
		o.BaseTotal, o.PointsUsed, o.PointsValue, o.FinalPrice,
		o.DeliveryMethod, o.UserData, o.Comment, o.Status, o.TrackingCode, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert order %s: %v", repository.ErrStoreUnavailable, o.ID, err)
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.query(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = $1", userID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.query(ctx, "SELECT "+orderColumns+" FROM orders")
}

func (r *orderRepository) query(ctx context.Context, q string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query orders: %v", repository.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.UserName, &o.ProductID, &o.ProductName, &o.Quantity,
			&o.BaseTotal, &o.PointsUsed, &o.PointsValue, &o.FinalPrice,
			&o.DeliveryMethod, &o.UserData, &o.Comment, &o.Status, &o.TrackingCode, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan order: %v", repository.ErrStoreUnavailable, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating order rows: %v", repository.ErrStoreUnavailable, err)
	}
	return orders, nil
}

func (r *orderRepository) SetTracking(ctx context.Context, orderID, code string, status entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET tracking_code = $1, status = $2 WHERE id = $3",
		code, status, orderID,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update tracking for %s: %v", repository.ErrStoreUnavailable, orderID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrOrderNotFound
	}
	return nil
}
