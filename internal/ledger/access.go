package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/alextreichler/openmarket/internal/store"
)

type roleKind int

const (
	roleOwner roleKind = iota + 1
	roleRegisteredFarmer
	roleItemSeller
)

// Role is a predicate over the caller checked before any mutation.
type Role struct {
	kind   roleKind
	itemID int64
}

var (
	// Owner is satisfied only by the ledger owner.
	Owner = Role{kind: roleOwner}
	// RegisteredFarmer is satisfied by identities with a registered farmer profile.
	RegisteredFarmer = Role{kind: roleRegisteredFarmer}
)

// ItemSeller is satisfied by the farmer who listed itemID.
func ItemSeller(itemID int64) Role {
	return Role{kind: roleItemSeller, itemID: itemID}
}

func (r Role) String() string {
	switch r.kind {
	case roleOwner:
		return "owner"
	case roleRegisteredFarmer:
		return "registered farmer"
	case roleItemSeller:
		return fmt.Sprintf("seller of item %d", r.itemID)
	default:
		return "unknown role"
	}
}

// RequireRole reports whether caller holds role. It never mutates state.
func (l *Ledger) RequireRole(ctx context.Context, caller string, role Role) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.requireRole(ctx, l.store, caller, role)
}

func (l *Ledger) requireRole(ctx context.Context, r store.Reader, caller string, role Role) error {
	if caller == "" {
		return fmt.Errorf("%w: no caller", ErrUnauthorized)
	}

	switch role.kind {
	case roleOwner:
		if caller != l.owner {
			return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, caller)
		}
		return nil

	case roleRegisteredFarmer:
		farmer, err := r.GetFarmer(ctx, caller)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !farmer.IsRegistered) {
			return fmt.Errorf("%w: %s is not a registered farmer", ErrUnauthorized, caller)
		}
		return err

	case roleItemSeller:
		item, err := r.GetItem(ctx, role.itemID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: item %d", ErrNotFound, role.itemID)
		}
		if err != nil {
			return err
		}
		if item.Seller != caller {
			return fmt.Errorf("%w: %s is not the seller of item %d", ErrUnauthorized, caller, role.itemID)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnauthorized, role)
}
