package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Credit adds funds to account. Only the owner may mint.
func (l *Ledger) Credit(ctx context.Context, caller, account string, amount int64) error {
	if account == "" {
		return fmt.Errorf("%w: empty account", ErrInvalidInput)
	}
	err := l.update(ctx, func(t *txn) error {
		if err := l.requireRole(ctx, t, caller, Owner); err != nil {
			return err
		}
		if amount <= 0 {
			return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidInput, amount)
		}
		bal, err := t.Balance(ctx, account)
		if err != nil {
			return err
		}
		if amount > math.MaxInt64-bal {
			return fmt.Errorf("%w: crediting %d would overflow the balance of %s", ErrInvalidInput, amount, account)
		}
		if err := t.Credit(ctx, account, amount); err != nil {
			return err
		}
		return t.emit(ctx, KindCredited, Credited{Account: account, Amount: amount})
	})
	if err != nil {
		return err
	}

	slog.Info("Account credited", "account", account, "amount", amount)
	return nil
}

// Balance returns 0 for identities that never held funds.
func (l *Ledger) Balance(ctx context.Context, identity string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Balance(ctx, identity)
}
