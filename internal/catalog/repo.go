package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

// Repository provides painting persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Painting, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Painting, error)
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Painting, int64, error)
	Create(ctx context.Context, painting *models.Painting) (*models.Painting, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Painting, error)
	IncrementLike(ctx context.Context, id uuid.UUID) error
	// MarkSold performs the conditional sold-write: it succeeds only when
	// the row was still unsold, making the availability check and the write
	// one atomic step.
	MarkSold(ctx context.Context, id uuid.UUID) error
}

// ListFilters mirrors the storefront query surface: equality, range,
// in-list, and sold-state predicates.
type ListFilters struct {
	Category    string
	Medium      string
	Style       string
	IDs         []uuid.UUID
	PriceMinUSD *float64
	PriceMaxUSD *float64
	IncludeSold bool
	Sort        string
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortMostLiked = "most_liked"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Painting, error) {
	var painting models.Painting
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&painting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "painting not found")
	}
	if err != nil {
		return nil, err
	}
	return &painting, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Painting, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var paintings []models.Painting
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&paintings).Error
	if err != nil {
		return nil, err
	}
	return paintings, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Painting, int64, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Painting{})
	if !filters.IncludeSold {
		query = query.Where("is_sold = ?", false)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Medium != "" {
		query = query.Where("medium = ?", filters.Medium)
	}
	if filters.Style != "" {
		query = query.Where("style = ?", filters.Style)
	}
	if len(filters.IDs) > 0 {
		query = query.Where("id IN ?", filters.IDs)
	}
	if filters.PriceMinUSD != nil {
		query = query.Where("price_usd >= ?", *filters.PriceMinUSD)
	}
	if filters.PriceMaxUSD != nil {
		query = query.Where("price_usd <= ?", *filters.PriceMaxUSD)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case SortPriceAsc:
		query = query.Order("price_usd ASC")
	case SortPriceDesc:
		query = query.Order("price_usd DESC")
	case SortMostLiked:
		query = query.Order("like_count DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var paintings []models.Painting
	err := query.Limit(page.Limit).Offset(page.Offset).Find(&paintings).Error
	if err != nil {
		return nil, 0, err
	}
	return paintings, total, nil
}

func (r *repository) Create(ctx context.Context, painting *models.Painting) (*models.Painting, error) {
	if err := r.db.WithContext(ctx).Create(painting).Error; err != nil {
		return nil, err
	}
	return painting, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Painting, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Painting{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "painting not found")
	}
	return r.FindByID(ctx, id)
}

func (r *repository) IncrementLike(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Painting{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "painting not found")
	}
	return nil
}

func (r *repository) MarkSold(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Painting{}).
		Where("id = ? AND is_sold = ?", id, false).
		UpdateColumn("is_sold", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "painting already sold")
	}
	return nil
}
