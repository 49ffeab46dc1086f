package storefront_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-with-shadow/adhunik-art/internal/storefront"
	"github.com/code-with-shadow/adhunik-art/internal/storefront/cart"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
)

func TestRefreshOverwritesSoldState(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	id := uuid.New()
	c := cart.New(nil)
	require.NoError(t, c.Add(cart.Entry{ID: id.String(), PriceUSD: decimal.NewFromInt(100), PriceINR: decimal.NewFromInt(8000)}))

	lookup := &fakeLookup{paintings: []models.Painting{{
		ID:       id,
		Title:    "Sunset",
		PriceUSD: decimal.NewFromInt(120),
		PriceINR: decimal.NewFromInt(9600),
		IsSold:   true,
	}}}
	verifier, err := storefront.NewVerifier(c, lookup, logg)
	require.NoError(t, err)

	verifier.Refresh(context.Background())

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsSold)
	assert.True(t, entries[0].PriceUSD.Equal(decimal.NewFromInt(120)))
}

func TestRefreshSwallowsLookupFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	c := cart.New(nil)
	require.NoError(t, c.Add(cart.Entry{ID: uuid.NewString(), PriceUSD: decimal.NewFromInt(100)}))

	lookup := &fakeLookup{err: errors.New("api unreachable")}
	verifier, err := storefront.NewVerifier(c, lookup, logg)
	require.NoError(t, err)

	verifier.Refresh(context.Background())

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsSold, "failed refresh leaves cached state untouched")
}

func TestRefreshNoopOnEmptyCart(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	lookup := &fakeLookup{}
	verifier, err := storefront.NewVerifier(cart.New(nil), lookup, logg)
	require.NoError(t, err)

	verifier.Refresh(context.Background())
	assert.Zero(t, lookup.calls)
}
