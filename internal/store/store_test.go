package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := NewStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Migrate(ctx), "iteration %d", i)
		s.Close()
	}

	s, err := NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	tables := []string{"ledger_meta", "counters", "farmers", "items", "order_counts", "orders", "balances", "accounts", "events"}
	for _, table := range tables {
		var name string
		err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "004_events.sql", version)
}

func TestMigrate_KeepsDataAcrossNewMigrations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFarmer(t, s, "0xfarmer")

	next := fstest.MapFS{
		"005_item_origin.sql": {Data: []byte(`ALTER TABLE items ADD COLUMN origin TEXT NOT NULL DEFAULT '';`)},
	}
	require.NoError(t, s.MigrateFS(ctx, next))

	f, err := s.GetFarmer(ctx, "0xfarmer")
	require.NoError(t, err)
	assert.Equal(t, "Danki", f.Name)

	// Existing queries keep working against the extended layout.
	require.NoError(t, s.InsertItem(ctx, testItem(1, "0xfarmer")))
	item, err := s.GetItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Pechay", item.Name)
}

func TestMigrate_DuplicateColumnIsRecorded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	dup := fstest.MapFS{
		"005_dup.sql": {Data: []byte(`
-- status exists since 002
ALTER TABLE items ADD COLUMN status TEXT NOT NULL DEFAULT 'active';
ALTER TABLE items ADD COLUMN origin TEXT NOT NULL DEFAULT '';
ALTER TABLE orders ADD COLUMN note TEXT NOT NULL DEFAULT '';
`)},
	}
	require.NoError(t, s.MigrateFS(ctx, dup))

	applied, err := s.isApplied(ctx, "005_dup.sql")
	require.NoError(t, err)
	assert.True(t, applied)

	_, err = s.DB.ExecContext(ctx, `SELECT origin FROM items`)
	assert.NoError(t, err, "statements after the duplicate column still run")
	_, err = s.DB.ExecContext(ctx, `SELECT note FROM orders`)
	assert.NoError(t, err)
}

func TestMigrate_HandAddedColumnStillUpgrades(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(filepath.Join(t.TempDir(), "legacy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	first, err := fs.ReadFile(Migrations(), "001_ledger.sql")
	require.NoError(t, err)
	require.NoError(t, s.MigrateFS(ctx, fstest.MapFS{"001_ledger.sql": {Data: first}}))
	_, err = s.DB.ExecContext(ctx, `ALTER TABLE items ADD COLUMN status TEXT NOT NULL DEFAULT 'active'`)
	require.NoError(t, err)

	require.NoError(t, s.Migrate(ctx))

	seedFarmer(t, s, "0xseller")
	require.NoError(t, s.InsertItem(ctx, testItem(1, "0xseller")))
	orders, err := s.ListOrders(ctx, "0xbuyer")
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = s.GetDashboardStats(ctx)
	require.NoError(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("-- header\nCREATE TABLE a (x INTEGER);\n\n  ALTER TABLE a ADD COLUMN y TEXT;\n-- trailing\n")
	assert.Equal(t, []string{
		"-- header\nCREATE TABLE a (x INTEGER)",
		"ALTER TABLE a ADD COLUMN y TEXT",
	}, stmts)
}

func TestMigrations_AreAdditiveOnly(t *testing.T) {
	destructive := regexp.MustCompile(`(?i)\b(DROP|RENAME)\b`)
	names, err := migrationNames(Migrations())
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		content, err := fs.ReadFile(Migrations(), name)
		require.NoError(t, err)
		assert.False(t, destructive.Match(content), "%s drops or renames part of the layout", name)
	}
}

func TestBeginTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetMeta(ctx, MetaOwner, "0xowner"))
	require.NoError(t, tx.Rollback())

	_, err = s.Meta(ctx, MetaOwner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBeginTx_RollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetMeta(ctx, MetaOwner, "0xowner"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())

	owner, err := s.Meta(ctx, MetaOwner)
	require.NoError(t, err)
	assert.Equal(t, "0xowner", owner)
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Counter(ctx, "item_count")
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := int64(1); want <= 3; want++ {
		got, err := s.IncrementCounter(ctx, "item_count")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
