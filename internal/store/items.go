package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/openmarket/internal/models"
)

const itemColumns = `id, name, category, image, unit, cost, rating, stock, seller, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var i models.Item
	var createdAt int64
	if err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Image, &i.Unit, &i.Cost, &i.Rating, &i.Stock, &i.Seller, &i.Status, &createdAt); err != nil {
		return nil, err
	}
	i.CreatedAt = fromNanos(createdAt)
	return &i, nil
}

func (q queries) InsertItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, name, category, image, unit, cost, rating, stock, seller, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	status := item.Status
	if status == "" {
		status = models.ItemActive
	}
	_, err := q.q.ExecContext(ctx, query, item.ID, item.Name, item.Category, item.Image, item.Unit, item.Cost, item.Rating, item.Stock, item.Seller, status, toNanos(item.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (q queries) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// ListItems returns every item, delisted ones included, by id.
func (q queries) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := q.q.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (q queries) DecrementStock(ctx context.Context, id int64) error {
	res, err := q.q.ExecContext(ctx, `UPDATE items SET stock = stock - 1 WHERE id = ? AND stock > 0`, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if n == 0 {
		return ErrNoStock
	}
	return nil
}

func (q queries) DelistItem(ctx context.Context, id int64) error {
	return q.updateItem(ctx, "delist item", `UPDATE items SET stock = 0, status = ? WHERE id = ?`, models.ItemDelisted, id)
}

func (q queries) UpdateItemImage(ctx context.Context, id int64, image string) error {
	return q.updateItem(ctx, "update item image", `UPDATE items SET image = ? WHERE id = ?`, image, id)
}

func (q queries) updateItem(ctx context.Context, op, query string, args ...any) error {
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
