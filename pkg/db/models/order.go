package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

// Order is the durable record of a completed sale. The painting id list is
// fixed at creation; only payment_status and fulfilled are mutable afterwards.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          string                 `gorm:"column:user_id;not null;index" json:"userId"`
	PaintingIDs     []string               `gorm:"column:painting_ids;type:jsonb;serializer:json;not null" json:"paintingIds"`
	AmountPaid      decimal.Decimal        `gorm:"column:amount_paid;type:numeric(12,2);not null" json:"amountPaid"`
	AmountDue       decimal.Decimal        `gorm:"column:amount_due;type:numeric(12,2);not null" json:"amountDue"`
	Currency        enums.Currency         `gorm:"column:currency;type:text;not null" json:"currency"`
	PaymentRef      *string                `gorm:"column:payment_ref" json:"paymentRef,omitempty"`
	PaymentStatus   enums.PaymentStatus    `gorm:"column:payment_status;type:text;not null" json:"paymentStatus"`
	Fulfilled       bool                   `gorm:"column:fulfilled;not null;default:false" json:"fulfilled"`
	CustomerName    string                 `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail   string                 `gorm:"column:customer_email;not null" json:"customerEmail"`
	PayerEmail      *string                `gorm:"column:payer_email" json:"payerEmail,omitempty"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shippingAddress,omitempty"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
