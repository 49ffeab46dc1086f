package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

// Repository provides order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, page pagination.Params) ([]models.Order, int64, error)
	ListAll(ctx context.Context, filters AdminFilters, page pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Order, error)
}

// AdminFilters narrows the back-office order listing.
type AdminFilters struct {
	PaymentStatus enums.PaymentStatus
	Fulfilled     *bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, page pagination.Params) ([]models.Order, int64, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) ListAll(ctx context.Context, filters AdminFilters, page pagination.Params) ([]models.Order, int64, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}
	if filters.Fulfilled != nil {
		query = query.Where("fulfilled = ?", *filters.Fulfilled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Order, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return r.FindByID(ctx, id)
}
