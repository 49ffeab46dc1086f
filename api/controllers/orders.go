package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/code-with-shadow/adhunik-art/api/middleware"
	"github.com/code-with-shadow/adhunik-art/api/responses"
	"github.com/code-with-shadow/adhunik-art/api/validators"
	"github.com/code-with-shadow/adhunik-art/internal/orders"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/pagination"
)

// Orders serves buyer order history and the admin back office.
type Orders struct {
	service orders.Service
	logg    *logger.Logger
}

// NewOrders constructs the orders controller.
func NewOrders(service orders.Service, logg *logger.Logger) (*Orders, error) {
	if service == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Orders{service: service, logg: logg}, nil
}

// Mine lists the authenticated buyer's orders, newest first.
func (o *Orders) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := pageParams(r)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	result, err := o.service.ListMine(ctx, middleware.UserIDFromContext(ctx), page)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

// Get returns a single order. Buyers may only read their own; admins any.
func (o *Orders) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	order, err := o.service.Get(ctx, id)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	if order.UserID != middleware.UserIDFromContext(ctx) &&
		middleware.RoleFromContext(ctx) != string(enums.RoleAdmin) {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return
	}
	responses.WriteSuccess(w, order)
}

// ListAll is the admin listing with payment-status and fulfillment filters.
func (o *Orders) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := pageParams(r)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	filters := orders.AdminFilters{
		PaymentStatus: enums.PaymentStatus(strings.TrimSpace(r.URL.Query().Get("payment_status"))),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("fulfilled")); raw != "" {
		fulfilled, err := validators.ParseQueryBool(r, "fulfilled", false)
		if err != nil {
			responses.WriteError(ctx, o.logg, w, err)
			return
		}
		filters.Fulfilled = &fulfilled
	}

	result, err := o.service.ListAll(ctx, filters, page)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

type updateOrderStatusBody struct {
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=paid cod_pending cod_collected"`
	Fulfilled     *bool   `json:"fulfilled"`
}

// UpdateStatus applies the only post-creation mutations an order admits:
// payment status and the fulfillment flag.
func (o *Orders) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	var body updateOrderStatusBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	input := orders.StatusInput{Fulfilled: body.Fulfilled}
	if body.PaymentStatus != nil {
		status := enums.PaymentStatus(*body.PaymentStatus)
		input.PaymentStatus = &status
	}

	updated, err := o.service.UpdateStatus(ctx, id, input)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}
	responses.WriteSuccess(w, updated)
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Offset: offset}, nil
}
