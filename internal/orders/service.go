package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

// Service exposes order history and back-office status operations. Order
// creation itself lives in the checkout service; nothing else may create one.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListMine(ctx context.Context, userID string, page pagination.Params) (*ListResult, error)
	ListAll(ctx context.Context, filters AdminFilters, page pagination.Params) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*models.Order, error)
}

// ListResult is a page of orders plus the unpaged total.
type ListResult struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// StatusInput holds the only post-creation mutations an admin may apply.
type StatusInput struct {
	PaymentStatus *enums.PaymentStatus
	Fulfilled     *bool
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService constructs an orders service instance.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, userID string, page pagination.Params) (*ListResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	orders, total, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &ListResult{Orders: orders, Total: total}, nil
}

func (s *service) ListAll(ctx context.Context, filters AdminFilters, page pagination.Params) (*ListResult, error) {
	if filters.PaymentStatus != "" && !filters.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status filter")
	}
	orders, total, err := s.repo.ListAll(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &ListResult{Orders: orders, Total: total}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*models.Order, error) {
	fields := map[string]any{}
	if input.PaymentStatus != nil {
		if !input.PaymentStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		fields["payment_status"] = *input.PaymentStatus
	}
	if input.Fulfilled != nil {
		fields["fulfilled"] = *input.Fulfilled
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	order, err := s.repo.UpdateStatus(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", id.String()), "order status updated")
	return order, nil
}
