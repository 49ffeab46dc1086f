package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Painting is one physical, one-of-a-kind inventory item. There is no
// quantity: is_sold flipping to true retires the record from sale forever.
type Painting struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title          string          `gorm:"column:title;not null" json:"title"`
	Category       string          `gorm:"column:category;not null" json:"category"`
	Medium         *string         `gorm:"column:medium" json:"medium,omitempty"`
	Style          *string         `gorm:"column:style" json:"style,omitempty"`
	Description    *string         `gorm:"column:description" json:"description,omitempty"`
	PriceUSD       decimal.Decimal `gorm:"column:price_usd;type:numeric(12,2);not null" json:"priceUSD"`
	PriceINR       decimal.Decimal `gorm:"column:price_inr;type:numeric(12,2);not null" json:"priceINR"`
	DiscountUSDPct int             `gorm:"column:discount_usd_pct;not null;default:0" json:"discountUSDPct"`
	DiscountINRPct int             `gorm:"column:discount_inr_pct;not null;default:0" json:"discountINRPct"`
	WidthCM        *float64        `gorm:"column:width_cm" json:"widthCM,omitempty"`
	HeightCM       *float64        `gorm:"column:height_cm" json:"heightCM,omitempty"`
	WeightKG       *float64        `gorm:"column:weight_kg" json:"weightKG,omitempty"`
	ImageID        *string         `gorm:"column:image_id" json:"imageID,omitempty"`
	LikeCount      int             `gorm:"column:like_count;not null;default:0" json:"likeCount"`
	IsSold         bool            `gorm:"column:is_sold;not null;default:false" json:"isSold"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *Painting) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
