package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ReturnsFarmerAttributes(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	require.NoError(t, l.Register(ctx, deployer, fName, fCity, fBarangay))

	f, err := l.Farmer(ctx, deployer)
	require.NoError(t, err)
	assert.Equal(t, fName, f.Name)
	assert.Equal(t, fCity, f.City)
	assert.Equal(t, fBarangay, f.Barangay)
	assert.True(t, f.IsRegistered)
	assert.Equal(t, fixedNow, f.RegisteredAt)
}

func TestRegister_SecondCallOverwrites(t *testing.T) {
	ctx := context.Background()
	l, st := newTestLedger(t)

	require.NoError(t, l.Register(ctx, deployer, fName, fCity, fBarangay))
	require.NoError(t, l.Register(ctx, deployer, "Danki Farms", "La Trinidad", "Pico"))

	f, err := l.Farmer(ctx, deployer)
	require.NoError(t, err)
	assert.Equal(t, "Danki Farms", f.Name)
	assert.Equal(t, "La Trinidad", f.City)
	assert.Equal(t, "Pico", f.Barangay)

	var rows int
	require.NoError(t, st.DB.QueryRow("SELECT COUNT(*) FROM farmers").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestRegister_EmitsFarmerRegistered(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	events, cancel := l.Notifier().Subscribe(4)
	defer cancel()

	require.NoError(t, l.Register(ctx, deployer, fName, fCity, fBarangay))

	e := <-events
	assert.Equal(t, KindFarmerRegistered, e.Kind)
	var payload FarmerRegistered
	require.NoError(t, json.Unmarshal(e.Payload, &payload))
	assert.Equal(t, FarmerRegistered{Identity: deployer, Name: fName, City: fCity, Barangay: fBarangay}, payload)
}

func TestRegister_RejectsEmptyIdentity(t *testing.T) {
	l, _ := newTestLedger(t)
	err := l.Register(context.Background(), "", fName, fCity, fBarangay)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFarmer_NotFound(t *testing.T) {
	l, _ := newTestLedger(t)
	_, err := l.Farmer(context.Background(), stranger)
	assert.ErrorIs(t, err, ErrNotFound)
}
