package store

import (
	"context"
	"database/sql"

	"github.com/alextreichler/openmarket/internal/models"
)

func (s *Store) GetAccount(ctx context.Context, identity string) (*models.Account, error) {
	query := `SELECT id, identity, secret FROM accounts WHERE identity = ?`
	row := s.DB.QueryRowContext(ctx, query, identity)

	var account models.Account
	if err := row.Scan(&account.ID, &account.Identity, &account.Secret); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount stores API credentials; hashedSecret must already be a bcrypt hash.
func (s *Store) CreateAccount(ctx context.Context, identity, hashedSecret string) error {
	query := `INSERT INTO accounts (identity, secret) VALUES (?, ?)`
	_, err := s.DB.ExecContext(ctx, query, identity, hashedSecret)
	return err
}
