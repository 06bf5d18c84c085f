package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alextreichler/openmarket/internal/store"
)

const (
	deployer = "0xdeployer"
	buyer    = "0xbuyer"
	stranger = "0xstranger"
)

// Values from the marketplace acceptance scenario.
const (
	fName     = "Danki"
	fCity     = "Baguio"
	fBarangay = "Burnham"
	buyerAddr = "Baguio"
	phone     = "099777898"
)

var pechay = Listing{
	Name:     "Pechay",
	Category: "Vegetable",
	Image:    "https://ipfs.io/ipfs/QmTYEboq8raiBs7GTUg2yLXB3PMz6HuBNgNfSZBx5Msztg/shoes.jpg",
	Unit:     "basket",
	Cost:     1,
	Rating:   4,
	Stock:    56,
}

var fixedNow = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// newTestLedger opens a ledger owned by deployer over a fresh store.
func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *store.Store) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	opts = append([]Option{WithClock(fixedClock)}, opts...)
	l, err := Open(context.Background(), st, deployer, opts...)
	require.NoError(t, err)
	return l, st
}

// listedLedger registers deployer as a farmer and lists pechay as item 1.
func listedLedger(t *testing.T, opts ...Option) (*Ledger, *store.Store) {
	t.Helper()
	ctx := context.Background()
	l, st := newTestLedger(t, opts...)
	require.NoError(t, l.Register(ctx, deployer, fName, fCity, fBarangay))
	id, err := l.List(ctx, deployer, pechay)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	return l, st
}

// fund credits account as the owner.
func fund(t *testing.T, l *Ledger, account string, amount int64) {
	t.Helper()
	require.NoError(t, l.Credit(context.Background(), deployer, account, amount))
}

func purchase(itemID, paid int64) Purchase {
	return Purchase{ItemID: itemID, BuyerAddress: buyerAddr, Phone: phone, PaidAmount: paid}
}
