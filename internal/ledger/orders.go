package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alextreichler/openmarket/internal/models"
)

// Purchase is a buyer's request for one unit of an item.
type Purchase struct {
	ItemID       int64  `json:"item_id"`
	BuyerAddress string `json:"buyer_address"`
	Phone        string `json:"phone"`
	PaidAmount   int64  `json:"paid_amount"`
}

// Buy sells one unit of the item to buyer and returns the new order index.
//
// Checks, in order: the item exists, it has stock, and PaidAmount equals its
// cost exactly. The stock decrement, order count, order record and event are
// written before the payment is settled, all in one transaction; a settlement
// failure rolls every one of them back.
func (l *Ledger) Buy(ctx context.Context, buyer string, p Purchase) (int64, error) {
	if buyer == "" {
		return 0, fmt.Errorf("%w: empty identity", ErrInvalidInput)
	}

	var (
		index  int64
		seller string
	)
	err := l.update(ctx, func(t *txn) error {
		item, err := t.GetItem(ctx, p.ItemID)
		if err != nil {
			return notFound(err, "item %d", p.ItemID)
		}
		if item.Stock <= 0 {
			return fmt.Errorf("%w: item %d", ErrOutOfStock, p.ItemID)
		}
		if p.PaidAmount != item.Cost {
			return fmt.Errorf("%w: paid %d, cost %d", ErrPaymentMismatch, p.PaidAmount, item.Cost)
		}
		seller = item.Seller
		snapshot := *item

		if err := t.DecrementStock(ctx, p.ItemID); err != nil {
			return err
		}
		index, err = t.IncrementOrderCount(ctx, buyer)
		if err != nil {
			return err
		}
		order := &models.Order{
			Buyer:        buyer,
			Index:        index,
			Item:         snapshot,
			BuyerAddress: p.BuyerAddress,
			Phone:        p.Phone,
			PaidAmount:   p.PaidAmount,
			CreatedAt:    l.now().UTC(),
		}
		if err := t.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := t.emit(ctx, KindPurchased, Purchased{OrderIndex: index, Buyer: buyer, ItemID: p.ItemID}); err != nil {
			return err
		}

		if err := l.settler.Settle(ctx, t.Tx, buyer, seller, p.PaidAmount); err != nil {
			return fmt.Errorf("%w: %w", ErrSettlement, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Item bought", "item_id", p.ItemID, "buyer", buyer, "seller", seller, "order_index", index)
	return index, nil
}

// OrderCount is the number of orders buyer has placed; valid order indexes
// are 1..OrderCount.
func (l *Ledger) OrderCount(ctx context.Context, buyer string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.OrderCount(ctx, buyer)
}

func (l *Ledger) Order(ctx context.Context, buyer string, index int64) (*models.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	o, err := l.store.GetOrder(ctx, buyer, index)
	if err != nil {
		return nil, notFound(err, "order %d of %s", index, buyer)
	}
	return o, nil
}

// History returns all of buyer's orders by index. It can be called any
// number of times.
func (l *Ledger) History(ctx context.Context, buyer string) ([]models.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.ListOrders(ctx, buyer)
}
