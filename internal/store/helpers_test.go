package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alextreichler/openmarket/internal/models"
)

// newTestStore opens a migrated store in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedFarmer(t *testing.T, s *Store, identity string) {
	t.Helper()
	require.NoError(t, s.UpsertFarmer(context.Background(), &models.Farmer{
		Identity:     identity,
		Name:         "Danki",
		City:         "Baguio",
		Barangay:     "Burnham",
		IsRegistered: true,
		RegisteredAt: time.Unix(1700000000, 0).UTC(),
	}))
}

func testItem(id int64, seller string) *models.Item {
	return &models.Item{
		ID:        id,
		Name:      "Pechay",
		Category:  "Vegetable",
		Image:     "https://example.com/pechay.jpg",
		Unit:      "basket",
		Cost:      100,
		Rating:    4,
		Stock:     2,
		Seller:    seller,
		CreatedAt: time.Unix(1700000100, 0).UTC(),
	}
}
