package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/openmarket/internal/models"
)

const orderColumns = `buyer, idx, item_id, item_name, item_category, item_image, item_unit, item_cost, item_rating,
	item_stock, item_seller, item_status, item_created_at, buyer_address, phone, paid_amount, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var itemCreatedAt, createdAt int64
	err := row.Scan(&o.Buyer, &o.Index, &o.Item.ID, &o.Item.Name, &o.Item.Category, &o.Item.Image, &o.Item.Unit,
		&o.Item.Cost, &o.Item.Rating, &o.Item.Stock, &o.Item.Seller, &o.Item.Status, &itemCreatedAt,
		&o.BuyerAddress, &o.Phone, &o.PaidAmount, &createdAt)
	if err != nil {
		return nil, err
	}
	o.Item.CreatedAt = fromNanos(itemCreatedAt)
	o.CreatedAt = fromNanos(createdAt)
	return &o, nil
}

// OrderCount returns 0 for buyers who never bought anything.
func (q queries) OrderCount(ctx context.Context, buyer string) (int64, error) {
	var count int64
	err := q.q.QueryRowContext(ctx, `SELECT count FROM order_counts WHERE buyer = ?`, buyer).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("order count: %w", err)
	}
	return count, nil
}

func (q queries) IncrementOrderCount(ctx context.Context, buyer string) (int64, error) {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO order_counts (buyer, count) VALUES (?, 1)
		ON CONFLICT(buyer) DO UPDATE SET count = count + 1
	`, buyer)
	if err != nil {
		return 0, fmt.Errorf("increment order count: %w", err)
	}
	return q.OrderCount(ctx, buyer)
}

func (q queries) InsertOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.q.ExecContext(ctx, query,
		o.Buyer, o.Index, o.Item.ID, o.Item.Name, o.Item.Category, o.Item.Image, o.Item.Unit,
		o.Item.Cost, o.Item.Rating, o.Item.Stock, o.Item.Seller, o.Item.Status, toNanos(o.Item.CreatedAt),
		o.BuyerAddress, o.Phone, o.PaidAmount, toNanos(o.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (q queries) GetOrder(ctx context.Context, buyer string, index int64) (*models.Order, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer = ? AND idx = ?`, buyer, index)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListOrders returns the buyer's orders by index, oldest first.
func (q queries) ListOrders(ctx context.Context, buyer string) ([]models.Order, error) {
	rows, err := q.q.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer = ? ORDER BY idx ASC`, buyer)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
