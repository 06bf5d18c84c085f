// Package deploy constructs a ledger over a storage area and optionally
// bulk-loads a catalog into it as the deployer.
package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alextreichler/openmarket/internal/catalog"
	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/store"
)

// EntryError reports the catalog entry that stopped a deployment. Entries
// before it are already listed.
type EntryError struct {
	Position int // 1-based, in file order
	Name     string
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("catalog entry %d (%q): %v", e.Position, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

type Options struct {
	Owner   string
	Catalog *catalog.Catalog

	// Scale is the number of decimal places catalog prices are given in.
	Scale         int32
	LedgerOptions []ledger.Option
}

type Result struct {
	Ledger  *ledger.Ledger
	ItemIDs []int64
}

// Run opens the ledger with opts.Owner as deployer. When a catalog is given,
// its farmer profile is registered for the deployer and its items are listed
// in file order. Listing stops at the first failing entry; the returned
// Result still holds the ledger and the ids listed so far.
func Run(ctx context.Context, st store.Storage, opts Options) (*Result, error) {
	l, err := ledger.Open(ctx, st, opts.Owner, opts.LedgerOptions...)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	res := &Result{Ledger: l}
	if opts.Catalog == nil {
		return res, nil
	}

	deployer := l.Owner()
	if f := opts.Catalog.Farmer; f != nil {
		if err := l.Register(ctx, deployer, f.Name, f.City, f.Barangay); err != nil {
			return res, fmt.Errorf("register deployer: %w", err)
		}
	}

	for i, entry := range opts.Catalog.Items {
		li, err := entry.Listing(opts.Scale)
		if err == nil {
			var id int64
			id, err = l.List(ctx, deployer, li)
			if err == nil {
				res.ItemIDs = append(res.ItemIDs, id)
				continue
			}
		}
		return res, &EntryError{Position: i + 1, Name: entry.Name, Err: err}
	}

	slog.Info("Catalog loaded", "owner", deployer, "items", len(res.ItemIDs))
	return res, nil
}
