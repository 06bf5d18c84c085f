package ledger

import (
	"context"

	"github.com/alextreichler/openmarket/internal/models"
)

// Event kinds.
const (
	KindFarmerRegistered = "FarmerRegistered"
	KindListed           = "Listed"
	KindPurchased        = "Purchased"
	KindDelisted         = "Delisted"
	KindCredited         = "Credited"
)

type FarmerRegistered struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Barangay string `json:"barangay"`
}

type Listed struct {
	ItemID int64  `json:"item_id"`
	Seller string `json:"seller"`
	Name   string `json:"name"`
	Cost   int64  `json:"cost"`
	Stock  int64  `json:"stock"`
}

type Purchased struct {
	OrderIndex int64  `json:"order_index"`
	Buyer      string `json:"buyer"`
	ItemID     int64  `json:"item_id"`
}

type Delisted struct {
	ItemID int64  `json:"item_id"`
	Seller string `json:"seller"`
}

type Credited struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

const (
	defaultEventPage = 100
	maxEventPage     = 1000
)

// Events reads the persisted notification log, for observers that were not
// subscribed when the events were published.
func (l *Ledger) Events(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventPage
	}
	if limit > maxEventPage {
		limit = maxEventPage
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.EventsAfter(ctx, afterSeq, limit)
}
