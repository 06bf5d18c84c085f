package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/openmarket/internal/models"
)

func (q queries) GetFarmer(ctx context.Context, identity string) (*models.Farmer, error) {
	query := `SELECT identity, name, city, barangay, is_registered, registered_at FROM farmers WHERE identity = ?`
	var f models.Farmer
	var registeredAt int64
	err := q.q.QueryRowContext(ctx, query, identity).Scan(&f.Identity, &f.Name, &f.City, &f.Barangay, &f.IsRegistered, &registeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get farmer: %w", err)
	}
	f.RegisteredAt = fromNanos(registeredAt)
	return &f, nil
}

// UpsertFarmer overwrites the profile of an already registered identity.
func (q queries) UpsertFarmer(ctx context.Context, f *models.Farmer) error {
	query := `
		INSERT INTO farmers (identity, name, city, barangay, is_registered, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			barangay = excluded.barangay,
			is_registered = excluded.is_registered,
			registered_at = excluded.registered_at
	`
	_, err := q.q.ExecContext(ctx, query, f.Identity, f.Name, f.City, f.Barangay, f.IsRegistered, toNanos(f.RegisteredAt))
	if err != nil {
		return fmt.Errorf("upsert farmer: %w", err)
	}
	return nil
}
