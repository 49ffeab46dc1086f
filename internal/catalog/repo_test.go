package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/internal/catalog"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Painting{}))
	return conn
}

func seed(t *testing.T, conn *gorm.DB, title, category string, priceUSD int64, sold bool) models.Painting {
	t.Helper()
	painting := models.Painting{
		Title:    title,
		Category: category,
		PriceUSD: decimal.NewFromInt(priceUSD),
		PriceINR: decimal.NewFromInt(priceUSD * 80),
		IsSold:   sold,
	}
	require.NoError(t, conn.Create(&painting).Error)
	return painting
}

func titles(paintings []models.Painting) []string {
	out := make([]string, 0, len(paintings))
	for _, p := range paintings {
		out = append(out, p.Title)
	}
	return out
}

func TestListHidesSoldByDefault(t *testing.T) {
	conn := newTestDB(t)
	repo := catalog.NewRepository(conn)
	seed(t, conn, "available", "abstract", 100, false)
	seed(t, conn, "gone", "abstract", 200, true)

	listed, total, err := repo.List(context.Background(), catalog.ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"available"}, titles(listed))

	all, total, err := repo.List(context.Background(), catalog.ListFilters{IncludeSold: true}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestListFiltersAndSort(t *testing.T) {
	conn := newTestDB(t)
	repo := catalog.NewRepository(conn)
	seed(t, conn, "cheap", "abstract", 50, false)
	seed(t, conn, "mid", "abstract", 150, false)
	seed(t, conn, "pricey", "portrait", 400, false)

	byCategory, _, err := repo.List(context.Background(),
		catalog.ListFilters{Category: "portrait"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"pricey"}, titles(byCategory))

	min := 100.0
	max := 200.0
	byPrice, _, err := repo.List(context.Background(),
		catalog.ListFilters{PriceMinUSD: &min, PriceMaxUSD: &max}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, titles(byPrice))

	ascending, _, err := repo.List(context.Background(),
		catalog.ListFilters{Sort: catalog.SortPriceAsc}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap", "mid", "pricey"}, titles(ascending))
}

func TestFindByIDsReturnsSoldRecords(t *testing.T) {
	conn := newTestDB(t)
	repo := catalog.NewRepository(conn)
	available := seed(t, conn, "available", "abstract", 100, false)
	sold := seed(t, conn, "gone", "abstract", 200, true)

	found, err := repo.FindByIDs(context.Background(), []uuid.UUID{available.ID, sold.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2, "the lookup surface must expose sold state, not hide it")
}

func TestMarkSoldIsConditional(t *testing.T) {
	conn := newTestDB(t)
	repo := catalog.NewRepository(conn)
	painting := seed(t, conn, "unique", "abstract", 100, false)

	require.NoError(t, repo.MarkSold(context.Background(), painting.ID))

	// The second write finds no unsold row and must report the conflict.
	err := repo.MarkSold(context.Background(), painting.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestIncrementLike(t *testing.T) {
	conn := newTestDB(t)
	repo := catalog.NewRepository(conn)
	painting := seed(t, conn, "liked", "abstract", 100, false)

	require.NoError(t, repo.IncrementLike(context.Background(), painting.ID))
	require.NoError(t, repo.IncrementLike(context.Background(), painting.ID))

	stored, err := repo.FindByID(context.Background(), painting.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.LikeCount)

	err = repo.IncrementLike(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
