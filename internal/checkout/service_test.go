package checkout_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/internal/catalog"
	"github.com/code-with-shadow/adhunik-art/internal/checkout"
	"github.com/code-with-shadow/adhunik-art/internal/orders"
	"github.com/code-with-shadow/adhunik-art/pkg/db"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/metrics"
	"github.com/code-with-shadow/adhunik-art/pkg/paypal"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

type fakeGateway struct {
	result    *paypal.CaptureResult
	err       error
	calls     int
	onCapture func()
}

func (f *fakeGateway) Capture(ctx context.Context, orderRef string) (*paypal.CaptureResult, error) {
	f.calls++
	if f.onCapture != nil {
		f.onCapture()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeGuard struct {
	claimed  map[string]bool
	released []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{claimed: map[string]bool{}}
}

func (f *fakeGuard) Claim(ctx context.Context, orderRef string, ttl time.Duration) (bool, error) {
	if f.claimed[orderRef] {
		return false, nil
	}
	f.claimed[orderRef] = true
	return true, nil
}

func (f *fakeGuard) Release(ctx context.Context, orderRef string) error {
	delete(f.claimed, orderRef)
	f.released = append(f.released, orderRef)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Painting{}, &models.Order{}))
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type harness struct {
	conn     *gorm.DB
	service  checkout.Service
	gateway  *fakeGateway
	guard    *fakeGuard
	counters *metrics.Checkout
}

func newHarness(t *testing.T, gateway *fakeGateway) *harness {
	t.Helper()
	conn := newTestDB(t)
	guard := newFakeGuard()
	counters := metrics.NewCheckout(prometheus.NewRegistry())

	service, err := checkout.NewService(
		db.FromGorm(conn),
		catalog.NewRepository(conn),
		orders.NewRepository(conn),
		gateway,
		guard,
		counters,
		testLogger(),
	)
	require.NoError(t, err)

	return &harness{conn: conn, service: service, gateway: gateway, guard: guard, counters: counters}
}

func seedPainting(t *testing.T, conn *gorm.DB, priceUSD, priceINR string, discountUSD int, sold bool) models.Painting {
	t.Helper()
	painting := models.Painting{
		Title:          "Test Painting " + uuid.NewString()[:8],
		Category:       "abstract",
		PriceUSD:       decimal.RequireFromString(priceUSD),
		PriceINR:       decimal.RequireFromString(priceINR),
		DiscountUSDPct: discountUSD,
		IsSold:         sold,
	}
	require.NoError(t, conn.Create(&painting).Error)
	return painting
}

func usShipping() types.ShippingAddress {
	return types.ShippingAddress{
		FirstName: "Asha",
		LastName:  "Verma",
		Line:      "12 Elm Street",
		City:      "Austin",
		State:     "TX",
		ZipCode:   "78701",
		Country:   "USA",
	}
}

func indiaShipping() types.ShippingAddress {
	return types.ShippingAddress{
		FirstName: "Asha",
		Line:      "1 MG Road",
		City:      "Mumbai",
		Country:   "India",
	}
}

func completedCapture(amount, currency string) *paypal.CaptureResult {
	return &paypal.CaptureResult{
		CaptureID:  "CAP-" + uuid.NewString()[:8],
		Status:     paypal.StatusCompleted,
		Amount:     decimal.RequireFromString(amount),
		Currency:   currency,
		PayerEmail: "payer@example.com",
	}
}

func verifyInput(orderRef string, total string, ids ...string) checkout.VerifyInput {
	return checkout.VerifyInput{
		OrderRef:      orderRef,
		UserID:        "buyer-1",
		ItemIDs:       ids,
		TotalPaid:     decimal.RequireFromString(total),
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		Shipping:      usShipping(),
	}
}

func TestVerifyPrepaidSuccess(t *testing.T) {
	gateway := &fakeGateway{result: completedCapture("250.00", "USD")}
	h := newHarness(t, gateway)
	painting := seedPainting(t, h.conn, "200", "16000", 0, false)

	order, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", painting.ID.String()))
	require.NoError(t, err)

	assert.Equal(t, "buyer-1", order.UserID)
	assert.Equal(t, []string{painting.ID.String()}, []string(order.PaintingIDs))
	assert.True(t, order.AmountPaid.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, order.AmountDue.IsZero())
	assert.Equal(t, enums.CurrencyUSD, order.Currency)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	require.NotNil(t, order.PaymentRef)
	assert.Equal(t, gateway.result.CaptureID, *order.PaymentRef)
	require.NotNil(t, order.PayerEmail)
	assert.Equal(t, "payer@example.com", *order.PayerEmail)
	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "USA", order.ShippingAddress.Country)

	var stored models.Painting
	require.NoError(t, h.conn.First(&stored, "id = ?", painting.ID).Error)
	assert.True(t, stored.IsSold)
}

func TestVerifyPrepaidSerializedConflict(t *testing.T) {
	gateway := &fakeGateway{result: completedCapture("250.00", "USD")}
	h := newHarness(t, gateway)
	painting := seedPainting(t, h.conn, "200", "16000", 0, false)

	_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", painting.ID.String()))
	require.NoError(t, err)

	// A second attempt for the same item must observe the sold flag and
	// stop before touching the gateway.
	before := gateway.calls
	_, err = h.service.VerifyPrepaid(context.Background(), verifyInput("PP-2", "250.00", painting.ID.String()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, before, gateway.calls)

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerifyPrepaidAllOrNothingBatch(t *testing.T) {
	gateway := &fakeGateway{result: completedCapture("300.00", "USD")}
	h := newHarness(t, gateway)
	available := seedPainting(t, h.conn, "100", "8000", 0, false)
	sold := seedPainting(t, h.conn, "150", "12000", 0, true)

	_, err := h.service.VerifyPrepaid(context.Background(),
		verifyInput("PP-1", "300.00", available.ID.String(), sold.ID.String()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Zero(t, gateway.calls)

	var stored models.Painting
	require.NoError(t, h.conn.First(&stored, "id = ?", available.ID).Error)
	assert.False(t, stored.IsSold, "no partial marking on a rejected batch")

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVerifyPrepaidMissingItem(t *testing.T) {
	gateway := &fakeGateway{result: completedCapture("250.00", "USD")}
	h := newHarness(t, gateway)

	_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", uuid.NewString()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Zero(t, gateway.calls)
}

func TestVerifyPrepaidCaptureGate(t *testing.T) {
	gateway := &fakeGateway{result: &paypal.CaptureResult{CaptureID: "CAP-9", Status: "PENDING"}}
	h := newHarness(t, gateway)
	painting := seedPainting(t, h.conn, "200", "16000", 0, false)

	_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", painting.ID.String()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var stored models.Painting
	require.NoError(t, h.conn.First(&stored, "id = ?", painting.ID).Error)
	assert.False(t, stored.IsSold, "a non-completed capture must not mark anything sold")

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	// The claim is released so the buyer can retry the same gateway order.
	assert.Contains(t, h.guard.released, "PP-1")
	assert.Equal(t, float64(1), testutil.ToFloat64(h.counters.CaptureFailures))
}

func TestVerifyPrepaidTotalMismatch(t *testing.T) {
	gateway := &fakeGateway{result: completedCapture("250.00", "USD")}
	h := newHarness(t, gateway)
	painting := seedPainting(t, h.conn, "200", "16000", 0, false)

	_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "199.00", painting.ID.String()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Zero(t, gateway.calls, "mismatched totals never reach the gateway")
}

func TestVerifyPrepaidCaptureAmountMismatch(t *testing.T) {
	cases := []struct {
		name    string
		capture *paypal.CaptureResult
	}{
		{"short paid", completedCapture("0.01", "USD")},
		{"wrong currency", completedCapture("250.00", "INR")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// The buyer controls the gateway order reference, so a completed
			// capture proves funds moved, not that the right amount did.
			h := newHarness(t, &fakeGateway{result: tc.capture})
			painting := seedPainting(t, h.conn, "200", "16000", 0, false)

			_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", painting.ID.String()))
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

			var stored models.Painting
			require.NoError(t, h.conn.First(&stored, "id = ?", painting.ID).Error)
			assert.False(t, stored.IsSold, "a mispriced capture must not mark anything sold")

			var count int64
			require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
			assert.Zero(t, count)

			// The claim is kept: the reference has been captured and must
			// never be replayed, mismatch or not.
			assert.NotContains(t, h.guard.released, "PP-1")
			assert.Equal(t, float64(1), testutil.ToFloat64(h.counters.Reconciliations))
		})
	}
}

func TestVerifyPrepaidReplayRejected(t *testing.T) {
	gateway := &fakeGateway{result: completedCapture("250.00", "USD")}
	h := newHarness(t, gateway)
	painting := seedPainting(t, h.conn, "200", "16000", 0, false)
	h.guard.claimed["PP-1"] = true

	_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", painting.ID.String()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Zero(t, gateway.calls)
}

func TestVerifyPrepaidLostRaceAfterCapture(t *testing.T) {
	h := newHarness(t, &fakeGateway{})
	painting := seedPainting(t, h.conn, "200", "16000", 0, false)

	// A concurrent buyer wins the race while the capture is in flight; the
	// conditional sold-write is the final guard and must reject the commit.
	h.gateway.result = completedCapture("250.00", "USD")
	h.gateway.onCapture = func() {
		require.NoError(t, h.conn.Model(&models.Painting{}).
			Where("id = ?", painting.ID).
			UpdateColumn("is_sold", true).Error)
	}

	_, err := h.service.VerifyPrepaid(context.Background(), verifyInput("PP-1", "250.00", painting.ID.String()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "captured funds without an order must not create one")
	assert.Equal(t, float64(1), testutil.ToFloat64(h.counters.Reconciliations))
}

func TestVerifyPrepaidInputValidation(t *testing.T) {
	h := newHarness(t, &fakeGateway{result: completedCapture("1.00", "USD")})

	cases := []struct {
		name  string
		input checkout.VerifyInput
	}{
		{"missing order ref", checkout.VerifyInput{UserID: "u", ItemIDs: []string{uuid.NewString()}, Shipping: usShipping()}},
		{"empty items", verifyInput("PP-1", "1.00")},
		{"bad item id", verifyInput("PP-1", "1.00", "not-a-uuid")},
		{"duplicate item", func() checkout.VerifyInput {
			id := uuid.NewString()
			return verifyInput("PP-1", "1.00", id, id)
		}()},
		{"missing user", func() checkout.VerifyInput {
			in := verifyInput("PP-1", "1.00", uuid.NewString())
			in.UserID = ""
			return in
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.service.VerifyPrepaid(context.Background(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
	assert.Zero(t, h.gateway.calls)
}

func TestPlaceCODSuccess(t *testing.T) {
	h := newHarness(t, &fakeGateway{})
	first := seedPainting(t, h.conn, "100", "5000", 0, false)
	second := seedPainting(t, h.conn, "60", "3000", 0, false)

	order, err := h.service.PlaceCOD(context.Background(), checkout.CODInput{
		UserID:        "buyer-2",
		ItemIDs:       []string{first.ID.String(), second.ID.String()},
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		Shipping:      indiaShipping(),
	})
	require.NoError(t, err)

	assert.True(t, order.AmountPaid.IsZero())
	assert.True(t, order.AmountDue.Equal(decimal.RequireFromString("8000.00")), "got %s", order.AmountDue)
	assert.Equal(t, enums.CurrencyINR, order.Currency)
	assert.Equal(t, enums.PaymentStatusCODPending, order.PaymentStatus)
	assert.Nil(t, order.PaymentRef)
	assert.Zero(t, h.gateway.calls, "cod never touches the gateway")

	var soldCount int64
	require.NoError(t, h.conn.Model(&models.Painting{}).Where("is_sold = ?", true).Count(&soldCount).Error)
	assert.Equal(t, int64(2), soldCount)
}

func TestPlaceCODOutsideIndia(t *testing.T) {
	h := newHarness(t, &fakeGateway{})
	painting := seedPainting(t, h.conn, "100", "5000", 0, false)

	_, err := h.service.PlaceCOD(context.Background(), checkout.CODInput{
		UserID:   "buyer-2",
		ItemIDs:  []string{painting.ID.String()},
		Shipping: usShipping(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceCODAllOrNothing(t *testing.T) {
	h := newHarness(t, &fakeGateway{})
	available := seedPainting(t, h.conn, "100", "5000", 0, false)
	sold := seedPainting(t, h.conn, "60", "3000", 0, true)

	_, err := h.service.PlaceCOD(context.Background(), checkout.CODInput{
		UserID:   "buyer-2",
		ItemIDs:  []string{available.ID.String(), sold.ID.String()},
		Shipping: indiaShipping(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var stored models.Painting
	require.NoError(t, h.conn.First(&stored, "id = ?", available.ID).Error)
	assert.False(t, stored.IsSold)
}
