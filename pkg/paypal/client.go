package paypal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pp "github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
)

const (
	sandboxEnv = "sandbox"
	liveEnv    = "live"

	// StatusCompleted is the only capture status that releases inventory.
	StatusCompleted = "COMPLETED"
)

var (
	errCredentialsRequired = errors.New("paypal client id and secret are required")
	errInvalidPayPalEnv    = fmt.Errorf("paypal environment must be %q or %q", sandboxEnv, liveEnv)
	errLoggerRequired      = errors.New("paypal logger is required")
)

var baseURLs = map[string]string{
	sandboxEnv: pp.APIBaseSandBox,
	liveEnv:    pp.APIBaseLive,
}

// CaptureResult is the subset of the gateway's capture response the checkout
// protocol consumes.
type CaptureResult struct {
	CaptureID  string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	PayerEmail string
}

// Completed reports whether funds were actually collected.
func (c CaptureResult) Completed() bool {
	return c.Status == StatusCompleted
}

// Client exposes PayPal order primitives with centralized auth, logging, and
// error mapping.
type Client struct {
	sdk         *pp.Client
	environment string
	logger      *logger.Logger
}

// NewClient initializes the PayPal wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.PayPalConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	clientID := strings.TrimSpace(cfg.ClientID)
	secret := strings.TrimSpace(cfg.Secret)
	if clientID == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	sdk, err := pp.NewClient(clientID, secret, baseURLs[env])
	if err != nil {
		return nil, fmt.Errorf("init paypal sdk: %w", err)
	}
	if _, err := sdk.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal access token: %w", err)
	}

	c := &Client{
		sdk:         sdk,
		environment: env,
		logger:      logg,
	}

	logg.Info(logg.WithField(ctx, "paypal_env", env), "paypal client initialized")
	return c, nil
}

// Environment reports the normalized PayPal environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// CreateOrder registers a gateway order for the given amount and returns its
// reference. Buyer approval happens outside this system.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	units := []pp.PurchaseUnitRequest{
		{
			Amount: &pp.PurchaseUnitAmount{
				Currency: currency,
				Value:    amount.StringFixed(2),
			},
		},
	}
	order, err := c.sdk.CreateOrder(ctx, pp.OrderIntentCapture, units, nil, nil)
	if err != nil {
		return "", fmt.Errorf("create paypal order: %w", err)
	}
	c.logger.Info(c.logger.WithFields(ctx, map[string]any{
		"gateway_order_id": order.ID,
		"amount":           amount.StringFixed(2),
		"currency":         currency,
	}), "paypal order created")
	return order.ID, nil
}

// Capture collects funds for an approved gateway order and returns the
// capture outcome. A non-COMPLETED status is returned without error; the
// caller decides how to treat it.
func (c *Client) Capture(ctx context.Context, orderRef string) (*CaptureResult, error) {
	resp, err := c.sdk.CaptureOrder(ctx, orderRef, pp.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("capture paypal order %s: %w", orderRef, err)
	}

	result := &CaptureResult{
		CaptureID: resp.ID,
		Status:    resp.Status,
	}
	if resp.Payer != nil {
		result.PayerEmail = resp.Payer.EmailAddress
	}
	for _, unit := range resp.PurchaseUnits {
		if unit.Payments == nil {
			continue
		}
		for _, capture := range unit.Payments.Captures {
			if capture.Amount == nil {
				continue
			}
			value, perr := decimal.NewFromString(capture.Amount.Value)
			if perr != nil {
				return nil, fmt.Errorf("parse captured amount %q: %w", capture.Amount.Value, perr)
			}
			result.CaptureID = capture.ID
			result.Amount = result.Amount.Add(value)
			result.Currency = capture.Amount.Currency
		}
	}

	c.logger.Info(c.logger.WithFields(ctx, map[string]any{
		"gateway_order_id": orderRef,
		"capture_id":       result.CaptureID,
		"capture_status":   result.Status,
	}), "paypal capture executed")
	return result, nil
}

func normalizeEnv(env string) (string, error) {
	switch env {
	case sandboxEnv, liveEnv:
		return env, nil
	case "production":
		return liveEnv, nil
	}
	return "", errInvalidPayPalEnv
}
