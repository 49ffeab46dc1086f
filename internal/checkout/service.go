package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/internal/catalog"
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

// claimTTL keeps a capture reference reserved long enough to cover any
// realistic retry horizon.
const claimTTL = 7 * 24 * time.Hour

// Gateway is the payment capture surface the protocol depends on.
type Gateway interface {
	Capture(ctx context.Context, orderRef string) (*paypal.CaptureResult, error)
}

// CaptureGuard claims capture references to reject replays of the same
// gateway order.
type CaptureGuard interface {
	Claim(ctx context.Context, orderRef string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, orderRef string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes the trusted half of the order placement protocol.
//
// Call order is check-then-capture: availability is re-verified before the
// gateway capture so a losing race never collects funds, and the per-item
// conditional sold-write inside the transaction is the final guard after
// capture. The whole mark-and-record step is one transaction, so a batch
// either marks every painting sold and creates the order, or does nothing.
// An order is only recorded when the captured amount and currency match the
// server-computed total; the catalog, never the client, prices the sale.
type Service interface {
	VerifyPrepaid(ctx context.Context, input VerifyInput) (*models.Order, error)
	PlaceCOD(ctx context.Context, input CODInput) (*models.Order, error)
}

// VerifyInput is the validated payload of a prepaid placement attempt.
type VerifyInput struct {
	OrderRef      string
	UserID        string
	ItemIDs       []string
	TotalPaid     decimal.Decimal
	CustomerName  string
	CustomerEmail string
	Shipping      types.ShippingAddress
}

// CODInput is the validated payload of a cash-on-delivery placement attempt.
type CODInput struct {
	UserID        string
	ItemIDs       []string
	CustomerName  string
	CustomerEmail string
	Shipping      types.ShippingAddress
}

type service struct {
	tx       txRunner
	catalog  catalog.Repository
	orders   orders.Repository
	gateway  Gateway
	guard    CaptureGuard
	counters *metrics.Checkout
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	catalogRepo catalog.Repository,
	ordersRepo orders.Repository,
	gateway Gateway,
	guard CaptureGuard,
	counters *metrics.Checkout,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if guard == nil {
		return nil, fmt.Errorf("capture guard required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		catalog:  catalogRepo,
		orders:   ordersRepo,
		gateway:  gateway,
		guard:    guard,
		counters: counters,
		logg:     logg,
	}, nil
}

var _ txRunner = (*db.Client)(nil)

func (s *service) VerifyPrepaid(ctx context.Context, input VerifyInput) (*models.Order, error) {
	if strings.TrimSpace(input.OrderRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment order reference required")
	}
	ids, err := parseItemIDs(input.ItemIDs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	paintings, err := s.loadAvailable(ctx, ids)
	if err != nil {
		return nil, err
	}

	total, currency, err := ComputeTotal(paintings, input.Shipping.Country)
	if err != nil {
		return nil, err
	}
	if !total.Equal(input.TotalPaid) {
		// The client-submitted amount is only an expected-value cross-check;
		// the catalog is the pricing authority.
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"client_total": input.TotalPaid.StringFixed(2),
			"server_total": total.StringFixed(2),
		}), "order total mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total mismatch")
	}

	claimed, err := s.guard.Claim(ctx, input.OrderRef, claimTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim capture reference")
	}
	if !claimed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment already processed")
	}

	capture, err := s.gateway.Capture(ctx, input.OrderRef)
	if err != nil {
		// The capture outcome is unknown; the claim stays so the same
		// reference cannot be captured twice.
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment capture failed")
	}
	if !capture.Completed() {
		if s.counters != nil {
			s.counters.CaptureFailures.Inc()
		}
		if relErr := s.guard.Release(ctx, input.OrderRef); relErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "gateway_order_id", input.OrderRef), "failed to release capture claim")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment status not completed")
	}

	if !capture.Amount.Equal(total) || capture.Currency != string(currency) {
		// Funds moved for the wrong amount or currency. The claim stays so
		// the same reference cannot be replayed, and the log carries what an
		// operator needs to refund or complete the sale by hand.
		if s.counters != nil {
			s.counters.Reconciliations.Inc()
		}
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"capture_id":        capture.CaptureID,
			"gateway_order_id":  input.OrderRef,
			"user_id":           input.UserID,
			"captured_amount":   capture.Amount.StringFixed(2),
			"captured_currency": capture.Currency,
			"expected_amount":   total.StringFixed(2),
			"expected_currency": string(currency),
		}), "captured amount does not match order total, manual reconciliation required", nil)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "captured amount does not match order total")
	}

	shipping := input.Shipping
	order := &models.Order{
		UserID:          input.UserID,
		PaintingIDs:     input.ItemIDs,
		AmountPaid:      capture.Amount,
		AmountDue:       decimal.Zero,
		Currency:        currency,
		PaymentRef:      &capture.CaptureID,
		PaymentStatus:   enums.PaymentStatusPaid,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: &shipping,
	}
	if capture.PayerEmail != "" {
		payer := capture.PayerEmail
		order.PayerEmail = &payer
	}
	created, err := s.commit(ctx, ids, order)
	if err != nil {
		// Funds are captured but no order exists. Never swallowed: the log
		// carries everything an operator needs for manual reconciliation.
		if s.counters != nil {
			s.counters.Reconciliations.Inc()
		}
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"capture_id":       capture.CaptureID,
			"gateway_order_id": input.OrderRef,
			"user_id":          input.UserID,
			"item_ids":         input.ItemIDs,
			"amount":           capture.Amount.StringFixed(2),
			"currency":         string(currency),
		}), "captured payment without order, manual reconciliation required", err)
		return nil, err
	}

	if s.counters != nil {
		s.counters.OrdersPlaced.WithLabelValues("prepaid").Inc()
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   created.ID.String(),
		"capture_id": capture.CaptureID,
	}), "prepaid order placed")
	return created, nil
}

func (s *service) PlaceCOD(ctx context.Context, input CODInput) (*models.Order, error) {
	ids, err := parseItemIDs(input.ItemIDs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Shipping.Country != CountryIndia {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash on delivery is available only within India")
	}

	paintings, err := s.loadAvailable(ctx, ids)
	if err != nil {
		return nil, err
	}

	total, currency, err := ComputeTotal(paintings, input.Shipping.Country)
	if err != nil {
		return nil, err
	}

	shipping := input.Shipping
	order := &models.Order{
		UserID:          input.UserID,
		PaintingIDs:     input.ItemIDs,
		AmountPaid:      decimal.Zero,
		AmountDue:       total,
		Currency:        currency,
		PaymentStatus:   enums.PaymentStatusCODPending,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: &shipping,
	}
	created, err := s.commit(ctx, ids, order)
	if err != nil {
		return nil, err
	}

	if s.counters != nil {
		s.counters.OrdersPlaced.WithLabelValues("cod").Inc()
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", created.ID.String()), "cod order placed")
	return created, nil
}

// loadAvailable fetches every requested painting and rejects the whole batch
// if any is missing or already sold. No writes happen here.
func (s *service) loadAvailable(ctx context.Context, ids []uuid.UUID) ([]models.Painting, error) {
	paintings, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load paintings")
	}

	byID := make(map[uuid.UUID]models.Painting, len(paintings))
	for _, painting := range paintings {
		byID[painting.ID] = painting
	}

	ordered := make([]models.Painting, 0, len(ids))
	for _, id := range ids {
		painting, ok := byID[id]
		if !ok {
			// A cart referencing an id the catalog no longer has is a data
			// integrity anomaly, not a routine miss.
			s.logg.Error(s.logg.WithField(ctx, "painting_id", id.String()), "ordered painting does not exist", nil)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "painting not found")
		}
		if painting.IsSold {
			if s.counters != nil {
				s.counters.Conflicts.Inc()
			}
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "painting already sold")
		}
		ordered = append(ordered, painting)
	}
	return ordered, nil
}

// commit marks every painting sold and creates the order in one transaction.
// MarkSold only touches rows still unsold, so a concurrent buyer who won the
// race between our availability check and this write surfaces as a conflict
// here and rolls the whole batch back.
func (s *service) commit(ctx context.Context, ids []uuid.UUID, order *models.Order) (*models.Order, error) {
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		for _, id := range ids {
			if err := catalogRepo.MarkSold(ctx, id); err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
					if s.counters != nil {
						s.counters.Conflicts.Inc()
					}
					return err
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark painting sold")
			}
		}

		var err error
		created, err = ordersRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func parseItemIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item list required")
	}
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id")
		}
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item id")
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
