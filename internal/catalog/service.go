package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

// Service exposes catalog management and lookup operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Painting, error)
	Lookup(ctx context.Context, ids []uuid.UUID) ([]models.Painting, error)
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
	Create(ctx context.Context, input CreateInput) (*models.Painting, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Painting, error)
	Like(ctx context.Context, id uuid.UUID) error
}

// ListResult is a page of paintings plus the unpaged total.
type ListResult struct {
	Paintings []models.Painting `json:"paintings"`
	Total     int64             `json:"total"`
}

// CreateInput holds the validated payload for a new painting.
type CreateInput struct {
	Title          string
	Category       string
	Medium         *string
	Style          *string
	Description    *string
	PriceUSD       decimal.Decimal
	PriceINR       decimal.Decimal
	DiscountUSDPct int
	DiscountINRPct int
	WidthCM        *float64
	HeightCM       *float64
	WeightKG       *float64
	ImageID        *string
}

// UpdateInput holds optional mutation values for a painting. IsSold is
// deliberately absent: sold-marking happens only through checkout.
type UpdateInput struct {
	Title          *string
	Category       *string
	Medium         *string
	Style          *string
	Description    *string
	PriceUSD       *decimal.Decimal
	PriceINR       *decimal.Decimal
	DiscountUSDPct *int
	DiscountINRPct *int
	WidthCM        *float64
	HeightCM       *float64
	WeightKG       *float64
	ImageID        *string
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Painting, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Lookup(ctx context.Context, ids []uuid.UUID) ([]models.Painting, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ids required")
	}
	return s.repo.FindByIDs(ctx, ids)
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	paintings, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list paintings")
	}
	if paintings == nil {
		paintings = []models.Painting{}
	}
	return &ListResult{Paintings: paintings, Total: total}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Painting, error) {
	if err := validateDiscount(input.DiscountUSDPct); err != nil {
		return nil, err
	}
	if err := validateDiscount(input.DiscountINRPct); err != nil {
		return nil, err
	}
	if input.PriceUSD.IsNegative() || input.PriceINR.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	painting := &models.Painting{
		Title:          input.Title,
		Category:       input.Category,
		Medium:         input.Medium,
		Style:          input.Style,
		Description:    input.Description,
		PriceUSD:       input.PriceUSD,
		PriceINR:       input.PriceINR,
		DiscountUSDPct: input.DiscountUSDPct,
		DiscountINRPct: input.DiscountINRPct,
		WidthCM:        input.WidthCM,
		HeightCM:       input.HeightCM,
		WeightKG:       input.WeightKG,
		ImageID:        input.ImageID,
	}
	created, err := s.repo.Create(ctx, painting)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create painting")
	}
	s.logg.Info(s.logg.WithField(ctx, "painting_id", created.ID.String()), "painting created")
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Painting, error) {
	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Medium != nil {
		fields["medium"] = *input.Medium
	}
	if input.Style != nil {
		fields["style"] = *input.Style
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.PriceUSD != nil {
		if input.PriceUSD.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		fields["price_usd"] = *input.PriceUSD
	}
	if input.PriceINR != nil {
		if input.PriceINR.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		fields["price_inr"] = *input.PriceINR
	}
	if input.DiscountUSDPct != nil {
		if err := validateDiscount(*input.DiscountUSDPct); err != nil {
			return nil, err
		}
		fields["discount_usd_pct"] = *input.DiscountUSDPct
	}
	if input.DiscountINRPct != nil {
		if err := validateDiscount(*input.DiscountINRPct); err != nil {
			return nil, err
		}
		fields["discount_inr_pct"] = *input.DiscountINRPct
	}
	if input.WidthCM != nil {
		fields["width_cm"] = *input.WidthCM
	}
	if input.HeightCM != nil {
		fields["height_cm"] = *input.HeightCM
	}
	if input.WeightKG != nil {
		fields["weight_kg"] = *input.WeightKG
	}
	if input.ImageID != nil {
		fields["image_id"] = *input.ImageID
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	return s.repo.Update(ctx, id, fields)
}

// Like bumps the like counter. Failures are logged as warnings and swallowed;
// the counter is not worth failing a page view over.
func (s *service) Like(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.IncrementLike(ctx, id); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return err
		}
		s.logg.Warn(s.logg.WithField(ctx, "painting_id", id.String()), "like update failed")
		return nil
	}
	return nil
}

func validateDiscount(pct int) error {
	if pct < 0 || pct > 90 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 90")
	}
	return nil
}
