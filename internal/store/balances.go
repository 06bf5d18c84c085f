package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (q queries) Balance(ctx context.Context, identity string) (int64, error) {
	var amount int64
	err := q.q.QueryRowContext(ctx, `SELECT amount FROM balances WHERE identity = ?`, identity).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return amount, nil
}

// Debit fails with ErrInsufficientFunds instead of letting a balance go negative.
func (q queries) Debit(ctx context.Context, identity string, amount int64) error {
	res, err := q.q.ExecContext(ctx, `UPDATE balances SET amount = amount - ? WHERE identity = ? AND amount >= ?`, amount, identity, amount)
	if err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (q queries) Credit(ctx context.Context, identity string, amount int64) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO balances (identity, amount) VALUES (?, ?)
		ON CONFLICT(identity) DO UPDATE SET amount = amount + excluded.amount
	`, identity, amount)
	if err != nil {
		return fmt.Errorf("credit: %w", err)
	}
	return nil
}
