package ledger

import (
	"context"
	"fmt"
	"math"

	"github.com/alextreichler/openmarket/internal/store"
)

// Settler moves a purchase payment from buyer to seller. It runs inside the
// purchase transaction after the stock and order writes; returning an error
// rolls all of them back.
type Settler interface {
	Settle(ctx context.Context, tx store.Tx, from, to string, amount int64) error
}

// SettlerFunc adapts a function to Settler.
type SettlerFunc func(ctx context.Context, tx store.Tx, from, to string, amount int64) error

func (f SettlerFunc) Settle(ctx context.Context, tx store.Tx, from, to string, amount int64) error {
	return f(ctx, tx, from, to, amount)
}

// WalletSettler transfers between ledger balances. A positive MaxBalance
// caps what a seller may hold; a transfer that would exceed it is rejected.
type WalletSettler struct {
	MaxBalance int64
}

func (w WalletSettler) Settle(ctx context.Context, tx store.Tx, from, to string, amount int64) error {
	if err := tx.Debit(ctx, from, amount); err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	limit := int64(math.MaxInt64)
	if w.MaxBalance > 0 {
		limit = w.MaxBalance
	}
	bal, err := tx.Balance(ctx, to)
	if err != nil {
		return err
	}
	if amount > limit-bal {
		return fmt.Errorf("credit %s: balance would exceed %d", to, limit)
	}
	if err := tx.Credit(ctx, to, amount); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}
