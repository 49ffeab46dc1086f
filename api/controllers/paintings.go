package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/api/responses"
	"github.com/code-with-shadow/adhunik-art/api/validators"
	"github.com/code-with-shadow/adhunik-art/internal/catalog"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

// Paintings serves catalog browsing, the batched availability lookup, and
// the admin-side inventory management endpoints.
type Paintings struct {
	service catalog.Service
	logg    *logger.Logger
}

// NewPaintings constructs the paintings controller.
func NewPaintings(service catalog.Service, logg *logger.Logger) (*Paintings, error) {
	if service == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Paintings{service: service, logg: logg}, nil
}

// List serves the storefront browse query. Sold paintings are hidden unless
// include_sold=true is passed.
func (p *Paintings) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	includeSold, err := validators.ParseQueryBool(r, "include_sold", false)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	priceMin, err := validators.ParseQueryFloat(r, "price_min")
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	priceMax, err := validators.ParseQueryFloat(r, "price_max")
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	filters := catalog.ListFilters{
		Category:    strings.TrimSpace(r.URL.Query().Get("category")),
		Medium:      strings.TrimSpace(r.URL.Query().Get("medium")),
		Style:       strings.TrimSpace(r.URL.Query().Get("style")),
		PriceMinUSD: priceMin,
		PriceMaxUSD: priceMax,
		IncludeSold: includeSold,
		Sort:        strings.TrimSpace(r.URL.Query().Get("sort")),
	}

	result, err := p.service.List(ctx, filters, pagination.Params{Limit: limit, Offset: offset})
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (p *Paintings) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	painting, err := p.service.Get(ctx, id)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	responses.WriteSuccess(w, painting)
}

type lookupBody struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}

// Lookup is the batched get-many endpoint the cart availability verifier
// uses. Sold records are returned too; ids with no record are simply absent.
func (p *Paintings) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body lookupBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(body.IDs))
	for _, raw := range body.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			responses.WriteError(ctx, p.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid painting id"))
			return
		}
		ids = append(ids, id)
	}

	paintings, err := p.service.Lookup(ctx, ids)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"paintings": paintings})
}

func (p *Paintings) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	if err := p.service.Like(ctx, id); err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "liked"})
}

type createPaintingBody struct {
	Title          string          `json:"title" validate:"required"`
	Category       string          `json:"category" validate:"required"`
	Medium         *string         `json:"medium"`
	Style          *string         `json:"style"`
	Description    *string         `json:"description"`
	PriceUSD       decimal.Decimal `json:"priceUSD" validate:"required"`
	PriceINR       decimal.Decimal `json:"priceINR" validate:"required"`
	DiscountUSDPct int             `json:"discountUSDPct" validate:"min=0,max=90"`
	DiscountINRPct int             `json:"discountINRPct" validate:"min=0,max=90"`
	WidthCM        *float64        `json:"widthCM"`
	HeightCM       *float64        `json:"heightCM"`
	WeightKG       *float64        `json:"weightKG"`
	ImageID        *string         `json:"imageID"`
}

// Create registers a new painting. Admin only; enforced by route middleware.
func (p *Paintings) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createPaintingBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	created, err := p.service.Create(ctx, catalog.CreateInput{
		Title:          body.Title,
		Category:       body.Category,
		Medium:         body.Medium,
		Style:          body.Style,
		Description:    body.Description,
		PriceUSD:       body.PriceUSD,
		PriceINR:       body.PriceINR,
		DiscountUSDPct: body.DiscountUSDPct,
		DiscountINRPct: body.DiscountINRPct,
		WidthCM:        body.WidthCM,
		HeightCM:       body.HeightCM,
		WeightKG:       body.WeightKG,
		ImageID:        body.ImageID,
	})
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, created)
}

type updatePaintingBody struct {
	Title          *string          `json:"title"`
	Category       *string          `json:"category"`
	Medium         *string          `json:"medium"`
	Style          *string          `json:"style"`
	Description    *string          `json:"description"`
	PriceUSD       *decimal.Decimal `json:"priceUSD"`
	PriceINR       *decimal.Decimal `json:"priceINR"`
	DiscountUSDPct *int             `json:"discountUSDPct" validate:"omitempty,min=0,max=90"`
	DiscountINRPct *int             `json:"discountINRPct" validate:"omitempty,min=0,max=90"`
	WidthCM        *float64         `json:"widthCM"`
	HeightCM       *float64         `json:"heightCM"`
	WeightKG       *float64         `json:"weightKG"`
	ImageID        *string          `json:"imageID"`
}

// Update patches painting fields. The sold flag is not patchable here; it
// only transitions through checkout.
func (p *Paintings) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	var body updatePaintingBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}

	updated, err := p.service.Update(ctx, id, catalog.UpdateInput{
		Title:          body.Title,
		Category:       body.Category,
		Medium:         body.Medium,
		Style:          body.Style,
		Description:    body.Description,
		PriceUSD:       body.PriceUSD,
		PriceINR:       body.PriceINR,
		DiscountUSDPct: body.DiscountUSDPct,
		DiscountINRPct: body.DiscountINRPct,
		WidthCM:        body.WidthCM,
		HeightCM:       body.HeightCM,
		WeightKG:       body.WeightKG,
		ImageID:        body.ImageID,
	})
	if err != nil {
		responses.WriteError(ctx, p.logg, w, err)
		return
	}
	responses.WriteSuccess(w, updated)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}
