package store

import (
	"context"
	"errors"

	"github.com/alextreichler/openmarket/internal/models"
)

var (
	// ErrNotFound replaces sql.ErrNoRows at the package boundary.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientFunds is returned by Debit when the balance is too low.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNoStock is returned by DecrementStock when stock is already zero.
	ErrNoStock = errors.New("no stock left")
)

// Reader holds the read side of the ledger tables.
type Reader interface {
	Meta(ctx context.Context, key string) (string, error)
	Counter(ctx context.Context, name string) (int64, error)

	GetFarmer(ctx context.Context, identity string) (*models.Farmer, error)

	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)

	OrderCount(ctx context.Context, buyer string) (int64, error)
	GetOrder(ctx context.Context, buyer string, index int64) (*models.Order, error)
	ListOrders(ctx context.Context, buyer string) ([]models.Order, error)

	Balance(ctx context.Context, identity string) (int64, error)

	EventsAfter(ctx context.Context, seq int64, limit int) ([]models.Event, error)
}

// Writer holds the mutations. They are only reachable through a Tx.
type Writer interface {
	SetMeta(ctx context.Context, key, value string) error
	IncrementCounter(ctx context.Context, name string) (int64, error)

	UpsertFarmer(ctx context.Context, farmer *models.Farmer) error

	InsertItem(ctx context.Context, item *models.Item) error
	DecrementStock(ctx context.Context, id int64) error
	DelistItem(ctx context.Context, id int64) error
	UpdateItemImage(ctx context.Context, id int64, image string) error

	IncrementOrderCount(ctx context.Context, buyer string) (int64, error)
	InsertOrder(ctx context.Context, order *models.Order) error

	Debit(ctx context.Context, identity string, amount int64) error
	Credit(ctx context.Context, identity string, amount int64) error

	AppendEvent(ctx context.Context, event *models.Event) error
}

// Tx represents a database transaction.
type Tx interface {
	Reader
	Writer
	Commit() error
	Rollback() error
}

// Storage is the persisted layout the ledger logic is bound to. Its tables
// only ever grow: see migrations/.
type Storage interface {
	Reader
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

var _ Storage = (*Store)(nil)
