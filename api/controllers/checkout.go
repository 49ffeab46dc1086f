package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/api/middleware"
	"github.com/code-with-shadow/adhunik-art/api/responses"
	"github.com/code-with-shadow/adhunik-art/api/validators"
	"github.com/code-with-shadow/adhunik-art/internal/checkout"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

// Checkout exposes the trusted order placement endpoints. Responses use the
// storefront contract: {success:true, orderId} or {success:false, message}
// with 400/404/409/500.
type Checkout struct {
	service checkout.Service
	logg    *logger.Logger
}

// NewCheckout constructs the checkout controller.
func NewCheckout(service checkout.Service, logg *logger.Logger) (*Checkout, error) {
	if service == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Checkout{service: service, logg: logg}, nil
}

type verifyOrderBody struct {
	OrderID         string                `json:"orderID" validate:"required"`
	Items           []string              `json:"items" validate:"required,min=1,max=50,dive,required"`
	UserID          string                `json:"userId" validate:"required"`
	TotalPaid       decimal.Decimal       `json:"totalPaid" validate:"required"`
	Currency        string                `json:"currency" validate:"required,oneof=USD INR"`
	ShippingDetails types.ShippingAddress `json:"shippingDetails"`
	CustomerName    string                `json:"customerName" validate:"required"`
	Email           string                `json:"email" validate:"required,email"`
}

// Verify is the trusted verification entry point for prepaid orders: it
// re-validates availability, captures the gateway order, marks the paintings
// sold, and records the order.
func (c *Checkout) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body verifyOrderBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteCheckoutError(ctx, c.logg, w, err)
		return
	}
	if err := requireSelf(ctx, body.UserID); err != nil {
		responses.WriteCheckoutError(ctx, c.logg, w, err)
		return
	}

	order, err := c.service.VerifyPrepaid(ctx, checkout.VerifyInput{
		OrderRef:      body.OrderID,
		UserID:        body.UserID,
		ItemIDs:       body.Items,
		TotalPaid:     body.TotalPaid,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.Email,
		Shipping:      body.ShippingDetails,
	})
	if err != nil {
		responses.WriteCheckoutError(ctx, c.logg, w, err)
		return
	}
	responses.WriteCheckoutSuccess(w, order.ID.String())
}

type codOrderBody struct {
	Items           []string              `json:"items" validate:"required,min=1,max=50,dive,required"`
	UserID          string                `json:"userId" validate:"required"`
	ShippingDetails types.ShippingAddress `json:"shippingDetails"`
	CustomerName    string                `json:"customerName" validate:"required"`
	Email           string                `json:"email" validate:"required,email"`
}

// PlaceCOD places a cash-on-delivery order: same availability and
// sold-marking path as Verify, with no payment capture involved.
func (c *Checkout) PlaceCOD(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body codOrderBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteCheckoutError(ctx, c.logg, w, err)
		return
	}
	if err := requireSelf(ctx, body.UserID); err != nil {
		responses.WriteCheckoutError(ctx, c.logg, w, err)
		return
	}

	order, err := c.service.PlaceCOD(ctx, checkout.CODInput{
		UserID:        body.UserID,
		ItemIDs:       body.Items,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.Email,
		Shipping:      body.ShippingDetails,
	})
	if err != nil {
		responses.WriteCheckoutError(ctx, c.logg, w, err)
		return
	}
	responses.WriteCheckoutSuccess(w, order.ID.String())
}

// requireSelf rejects bodies claiming a different buyer than the
// authenticated principal. The body carries userId for the wire contract;
// the token is the authority.
func requireSelf(ctx context.Context, claimed string) error {
	authenticated := middleware.UserIDFromContext(ctx)
	if authenticated != "" && authenticated != claimed {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id does not match the authenticated user")
	}
	return nil
}
