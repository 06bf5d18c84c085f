package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alextreichler/openmarket/internal/models"
)

// Register creates or overwrites the caller's farmer profile.
func (l *Ledger) Register(ctx context.Context, caller, name, city, barangay string) error {
	if caller == "" {
		return fmt.Errorf("%w: empty identity", ErrInvalidInput)
	}

	err := l.update(ctx, func(t *txn) error {
		farmer := &models.Farmer{
			Identity:     caller,
			Name:         name,
			City:         city,
			Barangay:     barangay,
			IsRegistered: true,
			RegisteredAt: l.now().UTC(),
		}
		if err := t.UpsertFarmer(ctx, farmer); err != nil {
			return err
		}
		return t.emit(ctx, KindFarmerRegistered, FarmerRegistered{
			Identity: caller,
			Name:     name,
			City:     city,
			Barangay: barangay,
		})
	})
	if err != nil {
		return err
	}

	slog.Info("Farmer registered", "identity", caller, "city", city)
	return nil
}

func (l *Ledger) Farmer(ctx context.Context, identity string) (*models.Farmer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, err := l.store.GetFarmer(ctx, identity)
	if err != nil {
		return nil, notFound(err, "farmer %s", identity)
	}
	return f, nil
}
