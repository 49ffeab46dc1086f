package storefront

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/internal/checkout"
	"github.com/code-with-shadow/adhunik-art/internal/storefront/cart"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

// placementAPI is the slice of the API client the checkout flow needs.
type placementAPI interface {
	VerifyOrder(ctx context.Context, req VerifyRequest) (string, error)
	PlaceCODOrder(ctx context.Context, req CODRequest) (string, error)
}

// GatewayOrders creates payment-gateway orders for buyer approval.
type GatewayOrders interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
}

// BuyerInfo is the contact and shipping snapshot submitted with a placement.
type BuyerInfo struct {
	UserID   string
	Name     string
	Email    string
	Shipping types.ShippingAddress
}

// Quote is the charge computed over the purchasable part of the cart.
// Entries flagged sold are excluded from the amount and the item list but
// stay in the cart until the buyer removes them.
type Quote struct {
	ItemIDs      []string
	Total        decimal.Decimal
	Currency     enums.Currency
	ExcludedSold int
}

// Checkout orchestrates the untrusted half of the order placement protocol:
// quoting, gateway order creation, and the verify/COD calls, with
// clear-on-success and resync-on-failure semantics.
type Checkout struct {
	cart     *cart.Cart
	verifier *Verifier
	api      placementAPI
	gateway  GatewayOrders
	logg     *logger.Logger
}

// NewCheckout builds the storefront checkout flow. The gateway may be nil
// when only cash-on-delivery is used.
func NewCheckout(c *cart.Cart, verifier *Verifier, api placementAPI, gateway GatewayOrders, logg *logger.Logger) (*Checkout, error) {
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("availability verifier required")
	}
	if api == nil {
		return nil, fmt.Errorf("placement api required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Checkout{cart: c, verifier: verifier, api: api, gateway: gateway, logg: logg}, nil
}

// Quote computes the charge for the buyer's shipping country over every
// entry not flagged sold. Errors when nothing in the cart is purchasable.
func (f *Checkout) Quote(country string) (*Quote, error) {
	entries := f.cart.Entries()
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	currency := checkout.CurrencyForCountry(country)
	total := checkout.ShippingCost(country)

	quote := &Quote{Currency: currency}
	for _, entry := range entries {
		if entry.IsSold {
			quote.ExcludedSold++
			continue
		}
		quote.ItemIDs = append(quote.ItemIDs, entry.ID)
		total = total.Add(entryPrice(entry, currency))
	}
	if len(quote.ItemIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "every item in the cart has been sold")
	}

	quote.Total = total.Round(2)
	return quote, nil
}

// PrepaidAttempt ties a gateway order reference to the quote it was created
// for, so the later verify call submits the same items and amount.
type PrepaidAttempt struct {
	OrderRef string
	Quote    *Quote
}

// BeginPrepaid refreshes availability, quotes the cart, and creates a
// payment-gateway order for the total. Buyer approval happens outside this
// system; CompletePrepaid picks up after it.
func (f *Checkout) BeginPrepaid(ctx context.Context, country string) (*PrepaidAttempt, error) {
	if f.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prepaid checkout is not configured")
	}

	f.verifier.Refresh(ctx)

	quote, err := f.Quote(country)
	if err != nil {
		return nil, err
	}

	orderRef, err := f.gateway.CreateOrder(ctx, quote.Total, string(quote.Currency))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gateway order")
	}
	return &PrepaidAttempt{OrderRef: orderRef, Quote: quote}, nil
}

// CompletePrepaid submits a captured gateway order for trusted verification.
// Success clears the cart; any failure keeps it intact and re-runs the
// availability verifier so concurrently-sold items show up immediately.
func (f *Checkout) CompletePrepaid(ctx context.Context, attempt *PrepaidAttempt, buyer BuyerInfo) (string, error) {
	if attempt == nil || attempt.Quote == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "prepaid attempt required")
	}

	orderID, err := f.api.VerifyOrder(ctx, VerifyRequest{
		OrderID:         attempt.OrderRef,
		Items:           attempt.Quote.ItemIDs,
		UserID:          buyer.UserID,
		TotalPaid:       attempt.Quote.Total,
		Currency:        string(attempt.Quote.Currency),
		ShippingDetails: buyer.Shipping,
		CustomerName:    buyer.Name,
		Email:           buyer.Email,
	})
	return f.settle(ctx, orderID, err)
}

// PlaceCOD places a cash-on-delivery order. COD serves domestic buyers only;
// the server enforces this too.
func (f *Checkout) PlaceCOD(ctx context.Context, buyer BuyerInfo) (string, error) {
	if buyer.Shipping.Country != checkout.CountryIndia {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cash on delivery is available only within India")
	}

	f.verifier.Refresh(ctx)

	quote, err := f.Quote(buyer.Shipping.Country)
	if err != nil {
		return "", err
	}

	orderID, err := f.api.PlaceCODOrder(ctx, CODRequest{
		Items:           quote.ItemIDs,
		UserID:          buyer.UserID,
		ShippingDetails: buyer.Shipping,
		CustomerName:    buyer.Name,
		Email:           buyer.Email,
	})
	return f.settle(ctx, orderID, err)
}

// settle applies the shared outcome rule: clear the cart only on a confirmed
// order, otherwise keep it and refresh the cached sold-state.
func (f *Checkout) settle(ctx context.Context, orderID string, err error) (string, error) {
	if err != nil {
		f.verifier.Refresh(ctx)
		return "", err
	}

	if clearErr := f.cart.Clear(); clearErr != nil {
		f.logg.Warn(f.logg.WithField(ctx, "order_id", orderID), "cart clear failed after successful order")
	}
	f.logg.Info(f.logg.WithField(ctx, "order_id", orderID), "order placed")
	return orderID, nil
}

func entryPrice(entry cart.Entry, currency enums.Currency) decimal.Decimal {
	price := entry.PriceUSD
	discountPct := entry.DiscountUSDPct
	if currency == enums.CurrencyINR {
		price = entry.PriceINR
		discountPct = entry.DiscountINRPct
	}
	if discountPct <= 0 {
		return price
	}
	discount := price.Mul(decimal.NewFromInt(int64(discountPct))).Div(decimal.NewFromInt(100))
	return price.Sub(discount)
}
