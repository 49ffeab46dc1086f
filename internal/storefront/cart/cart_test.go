package cart_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-with-shadow/adhunik-art/internal/storefront/cart"
)

func entry(id string, priceUSD string, sold bool) cart.Entry {
	return cart.Entry{
		ID:       id,
		Title:    "Painting " + id,
		PriceUSD: decimal.RequireFromString(priceUSD),
		PriceINR: decimal.RequireFromString(priceUSD).Mul(decimal.NewFromInt(80)),
		IsSold:   sold,
	}
}

func newFileCart(t *testing.T) (*cart.Cart, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.json")
	store, err := cart.NewFileStore(path)
	require.NoError(t, err)
	return cart.New(store), path
}

func TestAddIsIdempotent(t *testing.T) {
	c, _ := newFileCart(t)

	require.NoError(t, c.Add(entry("p1", "100", false)))
	require.NoError(t, c.Add(entry("p1", "100", false)))

	assert.Equal(t, 1, c.Len())
}

func TestRemoveAndClear(t *testing.T) {
	c, _ := newFileCart(t)
	require.NoError(t, c.Add(entry("p1", "100", false)))
	require.NoError(t, c.Add(entry("p2", "200", false)))

	require.NoError(t, c.Remove("p1"))
	assert.Equal(t, []string{"p2"}, c.IDs())

	// Removing an absent id is a no-op.
	require.NoError(t, c.Remove("p1"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear())
	assert.Zero(t, c.Len())
}

func TestResyncOverwritesMatchesOnly(t *testing.T) {
	c, _ := newFileCart(t)
	require.NoError(t, c.Add(entry("p1", "100", false)))
	require.NoError(t, c.Add(entry("p2", "200", false)))

	fresh := entry("p1", "150", true)
	fresh.DiscountUSDPct = 10
	require.NoError(t, c.Resync([]cart.Entry{fresh}))

	entries := c.Entries()
	require.Len(t, entries, 2)

	assert.True(t, entries[0].IsSold)
	assert.Equal(t, "150", entries[0].PriceUSD.String())
	assert.Equal(t, 10, entries[0].DiscountUSDPct)

	// p2 had no fresh record and must keep its cached fields untouched.
	assert.False(t, entries[1].IsSold)
	assert.Equal(t, "200", entries[1].PriceUSD.String())
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cart.json")
	store, err := cart.NewFileStore(path)
	require.NoError(t, err)

	c := cart.New(store)
	require.NoError(t, c.Add(entry("p1", "100", false)))
	require.NoError(t, c.Add(entry("p2", "200", true)))

	rehydrated := cart.New(store)
	assert.Equal(t, []string{"p1", "p2"}, rehydrated.IDs())
	entries := rehydrated.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].IsSold)
	assert.True(t, entries[0].PriceUSD.Equal(decimal.RequireFromString("100")))
}

func TestUnparseableSnapshotYieldsEmptyCart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := cart.NewFileStore(path)
	require.NoError(t, err)

	c := cart.New(store)
	assert.Zero(t, c.Len())
}

func TestMissingSnapshotYieldsEmptyCart(t *testing.T) {
	c, _ := newFileCart(t)
	assert.Zero(t, c.Len())
}
