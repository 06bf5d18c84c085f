package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/openmarket/internal/models"
)

func TestFarmer_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFarmer(t, s, "0xfarmer")

	require.NoError(t, s.UpsertFarmer(ctx, &models.Farmer{
		Identity: "0xfarmer", Name: "Danki", City: "La Trinidad", Barangay: "Betag", IsRegistered: true,
	}))

	f, err := s.GetFarmer(ctx, "0xfarmer")
	require.NoError(t, err)
	assert.Equal(t, "La Trinidad", f.City)
	assert.Equal(t, "Betag", f.Barangay)
	assert.True(t, f.IsRegistered)

	var rows int
	require.NoError(t, s.DB.QueryRow("SELECT COUNT(*) FROM farmers").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestFarmer_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetFarmer(context.Background(), "0xnobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItem_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFarmer(t, s, "0xfarmer")
	require.NoError(t, s.InsertItem(ctx, testItem(1, "0xfarmer")))

	item, err := s.GetItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ItemActive, item.Status)
	assert.Equal(t, int64(2), item.Stock)
	assert.Equal(t, time.Unix(1700000100, 0).UTC(), item.CreatedAt)

	require.NoError(t, s.DecrementStock(ctx, 1))
	require.NoError(t, s.DecrementStock(ctx, 1))
	assert.ErrorIs(t, s.DecrementStock(ctx, 1), ErrNoStock)

	require.NoError(t, s.UpdateItemImage(ctx, 1, "/static/uploads/new.jpg"))
	require.NoError(t, s.DelistItem(ctx, 1))

	item, err = s.GetItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Stock)
	assert.Equal(t, models.ItemDelisted, item.Status)
	assert.Equal(t, "/static/uploads/new.jpg", item.Image)

	assert.ErrorIs(t, s.DelistItem(ctx, 42), ErrNotFound)
	_, err = s.GetItem(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItem_RequiresKnownSeller(t *testing.T) {
	s := newTestStore(t)
	err := s.InsertItem(context.Background(), testItem(1, "0xghost"))
	assert.Error(t, err)
}

func TestOrders_SnapshotAndHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFarmer(t, s, "0xfarmer")
	item := testItem(1, "0xfarmer")
	require.NoError(t, s.InsertItem(ctx, item))

	for i := 0; i < 2; i++ {
		idx, err := s.IncrementOrderCount(ctx, "0xbuyer")
		require.NoError(t, err)
		require.NoError(t, s.InsertOrder(ctx, &models.Order{
			Buyer:        "0xbuyer",
			Index:        idx,
			Item:         *item,
			BuyerAddress: "Baguio",
			Phone:        "099777898",
			PaidAmount:   item.Cost,
			CreatedAt:    time.Unix(1700000200+int64(i), 0).UTC(),
		}))
	}

	count, err := s.OrderCount(ctx, "0xbuyer")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	order, err := s.GetOrder(ctx, "0xbuyer", 2)
	require.NoError(t, err)
	assert.Equal(t, "Pechay", order.Item.Name)
	assert.Equal(t, models.ItemActive, order.Item.Status)
	assert.Equal(t, int64(100), order.PaidAmount)

	orders, err := s.ListOrders(ctx, "0xbuyer")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].Index)
	assert.Equal(t, int64(2), orders[1].Index)

	_, err = s.GetOrder(ctx, "0xbuyer", 3)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err = s.OrderCount(ctx, "0xstranger")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBalances(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bal, err := s.Balance(ctx, "0xbuyer")
	require.NoError(t, err)
	assert.Zero(t, bal)

	assert.ErrorIs(t, s.Debit(ctx, "0xbuyer", 1), ErrInsufficientFunds)

	require.NoError(t, s.Credit(ctx, "0xbuyer", 150))
	require.NoError(t, s.Credit(ctx, "0xbuyer", 50))
	require.NoError(t, s.Debit(ctx, "0xbuyer", 120))
	assert.ErrorIs(t, s.Debit(ctx, "0xbuyer", 81), ErrInsufficientFunds)

	bal, err = s.Balance(ctx, "0xbuyer")
	require.NoError(t, err)
	assert.Equal(t, int64(80), bal)
}

func TestEvents_AppendAndPage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		e := &models.Event{
			ID:        uuid.NewString(),
			Kind:      "Listed",
			Payload:   []byte(`{"item_id":1}`),
			CreatedAt: time.Unix(1700000300, 0).UTC(),
		}
		require.NoError(t, s.AppendEvent(ctx, e))
		assert.Equal(t, int64(i+1), e.Seq)
	}

	page, err := s.EventsAfter(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].Seq)
	assert.Equal(t, int64(4), page[1].Seq)
	assert.JSONEq(t, `{"item_id":1}`, string(page[0].Payload))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, err := s.GetAccount(ctx, "0xbuyer")
	require.NoError(t, err)
	assert.Nil(t, acc)

	require.NoError(t, s.CreateAccount(ctx, "0xbuyer", "$2a$10$hash"))
	acc, err = s.GetAccount(ctx, "0xbuyer")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "$2a$10$hash", acc.Secret)

	assert.Error(t, s.CreateAccount(ctx, "0xbuyer", "$2a$10$other"))
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFarmer(t, s, "0xfarmer")
	item := testItem(1, "0xfarmer")
	require.NoError(t, s.InsertItem(ctx, item))
	require.NoError(t, s.InsertItem(ctx, testItem(2, "0xfarmer")))
	require.NoError(t, s.DelistItem(ctx, 2))
	require.NoError(t, s.InsertOrder(ctx, &models.Order{
		Buyer: "0xbuyer", Index: 1, Item: *item, PaidAmount: item.Cost, CreatedAt: time.Now(),
	}))

	stats, err := s.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFarmers)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, int64(100), stats.TotalVolume)
	assert.Equal(t, map[string]int{models.ItemActive: 1, models.ItemDelisted: 1}, stats.ItemsByStatus)
	require.Len(t, stats.ItemOrderCounts, 2)
	assert.Equal(t, int64(1), stats.ItemOrderCounts[0].ItemID)
	assert.Equal(t, 1, stats.ItemOrderCounts[0].OrderCount)
}
