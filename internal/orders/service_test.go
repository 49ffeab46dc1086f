package orders_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/internal/orders"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

func newService(t *testing.T) (orders.Service, orders.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}))

	repo := orders.NewRepository(conn)
	service, err := orders.NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return service, repo
}

func seedOrder(t *testing.T, repo orders.Repository, userID string, status enums.PaymentStatus) *models.Order {
	t.Helper()
	order, err := repo.Create(context.Background(), &models.Order{
		UserID:        userID,
		PaintingIDs:   []string{uuid.NewString()},
		AmountPaid:    decimal.NewFromInt(100),
		AmountDue:     decimal.Zero,
		Currency:      enums.CurrencyUSD,
		PaymentStatus: status,
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
	})
	require.NoError(t, err)
	return order
}

func TestListMineScopesToUser(t *testing.T) {
	service, repo := newService(t)
	seedOrder(t, repo, "buyer-1", enums.PaymentStatusPaid)
	seedOrder(t, repo, "buyer-1", enums.PaymentStatusCODPending)
	seedOrder(t, repo, "buyer-2", enums.PaymentStatusPaid)

	result, err := service.ListMine(context.Background(), "buyer-1", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	for _, order := range result.Orders {
		assert.Equal(t, "buyer-1", order.UserID)
	}

	_, err = service.ListMine(context.Background(), "", pagination.Params{})
	require.Error(t, err)
}

func TestListAllFiltersByStatus(t *testing.T) {
	service, repo := newService(t)
	seedOrder(t, repo, "buyer-1", enums.PaymentStatusPaid)
	seedOrder(t, repo, "buyer-2", enums.PaymentStatusCODPending)

	result, err := service.ListAll(context.Background(),
		orders.AdminFilters{PaymentStatus: enums.PaymentStatusCODPending}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	_, err = service.ListAll(context.Background(),
		orders.AdminFilters{PaymentStatus: "bogus"}, pagination.Params{})
	require.Error(t, err)
}

func TestUpdateStatus(t *testing.T) {
	service, repo := newService(t)
	order := seedOrder(t, repo, "buyer-1", enums.PaymentStatusCODPending)

	collected := enums.PaymentStatusCODCollected
	fulfilled := true
	updated, err := service.UpdateStatus(context.Background(), order.ID, orders.StatusInput{
		PaymentStatus: &collected,
		Fulfilled:     &fulfilled,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCODCollected, updated.PaymentStatus)
	assert.True(t, updated.Fulfilled)

	// No fields is a validation error, not a silent no-op.
	_, err = service.UpdateStatus(context.Background(), order.ID, orders.StatusInput{})
	require.Error(t, err)

	bogus := enums.PaymentStatus("bogus")
	_, err = service.UpdateStatus(context.Background(), order.ID, orders.StatusInput{PaymentStatus: &bogus})
	require.Error(t, err)

	_, err = service.UpdateStatus(context.Background(), uuid.New(), orders.StatusInput{Fulfilled: &fulfilled})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
