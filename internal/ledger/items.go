package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alextreichler/openmarket/internal/models"
)

// Listing holds the seller-supplied fields of a new item.
type Listing struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Unit     string `json:"unit"`
	Cost     int64  `json:"cost"`
	Rating   int64  `json:"rating"`
	Stock    int64  `json:"stock"`
}

func (li Listing) validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if li.Cost <= 0 {
		return fmt.Errorf("%w: cost must be positive, got %d", ErrInvalidInput, li.Cost)
	}
	if li.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative, got %d", ErrInvalidInput, li.Stock)
	}
	if li.Rating < 0 {
		return fmt.Errorf("%w: rating must not be negative, got %d", ErrInvalidInput, li.Rating)
	}
	return nil
}

// List adds an item sold by caller and returns its id. Ids start at 1 and
// are never reused.
func (l *Ledger) List(ctx context.Context, caller string, li Listing) (int64, error) {
	var id int64
	err := l.update(ctx, func(t *txn) error {
		if err := l.requireRole(ctx, t, caller, RegisteredFarmer); err != nil {
			return err
		}
		if err := li.validate(); err != nil {
			return err
		}

		var err error
		id, err = t.IncrementCounter(ctx, itemCounter)
		if err != nil {
			return err
		}

		item := &models.Item{
			ID:        id,
			Name:      li.Name,
			Category:  li.Category,
			Image:     li.Image,
			Unit:      li.Unit,
			Cost:      li.Cost,
			Rating:    li.Rating,
			Stock:     li.Stock,
			Seller:    caller,
			Status:    models.ItemActive,
			CreatedAt: l.now().UTC(),
		}
		if err := t.InsertItem(ctx, item); err != nil {
			return err
		}
		return t.emit(ctx, KindListed, Listed{
			ItemID: id,
			Seller: caller,
			Name:   li.Name,
			Cost:   li.Cost,
			Stock:  li.Stock,
		})
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Item listed", "item_id", id, "seller", caller, "stock", li.Stock)
	return id, nil
}

// Delist zeroes the stock of an item and marks it delisted. The record stays
// readable and referenced by past orders.
func (l *Ledger) Delist(ctx context.Context, caller string, itemID int64) error {
	err := l.update(ctx, func(t *txn) error {
		if err := l.requireRole(ctx, t, caller, ItemSeller(itemID)); err != nil {
			return err
		}
		if err := t.DelistItem(ctx, itemID); err != nil {
			return notFound(err, "item %d", itemID)
		}
		return t.emit(ctx, KindDelisted, Delisted{ItemID: itemID, Seller: caller})
	})
	if err != nil {
		return err
	}

	slog.Info("Item delisted", "item_id", itemID, "seller", caller)
	return nil
}

// UpdateImage replaces the image reference of an item. Orders keep the
// image they were placed with.
func (l *Ledger) UpdateImage(ctx context.Context, caller string, itemID int64, image string) error {
	if strings.TrimSpace(image) == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	return l.update(ctx, func(t *txn) error {
		if err := l.requireRole(ctx, t, caller, ItemSeller(itemID)); err != nil {
			return err
		}
		return notFound(t.UpdateItemImage(ctx, itemID, image), "item %d", itemID)
	})
}

func (l *Ledger) Item(ctx context.Context, itemID int64) (*models.Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, notFound(err, "item %d", itemID)
	}
	return item, nil
}

func (l *Ledger) Items(ctx context.Context) ([]models.Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.ListItems(ctx)
}

// ItemCount is the number of items ever listed, delisted ones included.
func (l *Ledger) ItemCount(ctx context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Counter(ctx, itemCounter)
}
