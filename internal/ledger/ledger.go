// Package ledger implements the marketplace state transitions: farmer
// registration, listing, purchase with settlement, and delisting.
//
// A Ledger owns one store.Storage. Mutations are serialized by a single
// write lock and each runs in exactly one store transaction, so a failed
// call leaves no trace. Events are written to the store inside that
// transaction and handed to the Notifier only after commit.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alextreichler/openmarket/internal/models"
	"github.com/alextreichler/openmarket/internal/store"
)

// LogicVersion identifies this implementation of the ledger rules. Open
// records it next to the data so an upgrade can be traced; the storage
// layout itself is versioned by the store migrations.
const LogicVersion = "2"

const itemCounter = "item_count"

type Ledger struct {
	mu       sync.RWMutex
	store    store.Storage
	owner    string
	settler  Settler
	notifier *Notifier
	now      func() time.Time
}

type Option func(*Ledger)

// WithClock replaces time.Now for order and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithSettler replaces the default WalletSettler.
func WithSettler(s Settler) Option {
	return func(l *Ledger) { l.settler = s }
}

// WithNotifier shares a notifier between the ledger and its observers.
func WithNotifier(n *Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// Open binds the ledger logic to st. The first Open on an empty store fixes
// the owner; later opens keep the stored owner and only warn if owner
// disagrees with it. owner may be empty when the store already has one.
func Open(ctx context.Context, st store.Storage, owner string, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    st,
		settler:  WalletSettler{},
		notifier: NewNotifier(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	tx, err := st.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stored, err := tx.Meta(ctx, store.MetaOwner)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if owner == "" {
			return nil, fmt.Errorf("%w: a new ledger needs an owner", ErrInvalidInput)
		}
		if err := tx.SetMeta(ctx, store.MetaOwner, owner); err != nil {
			return nil, err
		}
		stored = owner
		slog.Info("Ledger created", "owner", owner)
	case err != nil:
		return nil, err
	case owner != "" && owner != stored:
		slog.Warn("Ignoring configured owner, ledger already has one", "configured", owner, "owner", stored)
	}
	l.owner = stored

	previous, err := tx.Meta(ctx, store.MetaLogicVersion)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if previous != LogicVersion {
		if err := tx.SetMeta(ctx, store.MetaLogicVersion, LogicVersion); err != nil {
			return nil, err
		}
		slog.Info("Ledger logic bound", "from", previous, "to", LogicVersion)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return l, nil
}

// Owner returns the identity fixed when the ledger was created.
func (l *Ledger) Owner() string {
	return l.owner
}

func (l *Ledger) Notifier() *Notifier {
	return l.notifier
}

// txn is one mutating call in progress.
type txn struct {
	store.Tx
	l      *Ledger
	events []models.Event
}

// emit records an event in the transaction; it is published after commit.
func (t *txn) emit(ctx context.Context, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", kind, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	e := models.Event{
		ID:        id.String(),
		Kind:      kind,
		Payload:   data,
		CreatedAt: t.l.now().UTC(),
	}
	if err := t.AppendEvent(ctx, &e); err != nil {
		return err
	}
	t.events = append(t.events, e)
	return nil
}

// update runs fn under the write lock in a single transaction.
func (l *Ledger) update(ctx context.Context, fn func(t *txn) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	t := &txn{Tx: tx, l: l}
	if err := fn(t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	l.notifier.Publish(t.events...)
	return nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
	}
	return err
}
