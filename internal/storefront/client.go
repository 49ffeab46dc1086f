package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

// VerifyRequest is the body posted to the trusted verification endpoint
// after a completed gateway capture.
type VerifyRequest struct {
	OrderID         string                `json:"orderID"`
	Items           []string              `json:"items"`
	UserID          string                `json:"userId"`
	TotalPaid       decimal.Decimal       `json:"totalPaid"`
	Currency        string                `json:"currency"`
	ShippingDetails types.ShippingAddress `json:"shippingDetails"`
	CustomerName    string                `json:"customerName"`
	Email           string                `json:"email"`
}

// CODRequest is the body posted to the cash-on-delivery endpoint. The server
// computes the amount itself; only items and buyer details travel.
type CODRequest struct {
	Items           []string              `json:"items"`
	UserID          string                `json:"userId"`
	ShippingDetails types.ShippingAddress `json:"shippingDetails"`
	CustomerName    string                `json:"customerName"`
	Email           string                `json:"email"`
}

// Client is the storefront's HTTP surface onto the catalog/order API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds an API client from storefront configuration.
func NewClient(cfg config.StorefrontConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url required")
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

type lookupRequest struct {
	IDs []string `json:"ids"`
}

type lookupResponse struct {
	Data struct {
		Paintings []models.Painting `json:"paintings"`
	} `json:"data"`
}

// LookupPaintings fetches current catalog truth for the given ids in one
// batched call. Sold records are included; missing ids are simply absent.
func (c *Client) LookupPaintings(ctx context.Context, ids []string) ([]models.Painting, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := c.post(ctx, "/api/v1/paintings/lookup", lookupRequest{IDs: ids})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.asError(resp)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return decoded.Data.Paintings, nil
}

// VerifyOrder submits a captured payment for trusted verification. A
// {success:false} response comes back as a coded error carrying the server's
// message, so callers can distinguish a sold-out conflict from other failures.
func (c *Client) VerifyOrder(ctx context.Context, req VerifyRequest) (string, error) {
	return c.placeOrder(ctx, "/api/v1/checkout/verify", req)
}

// PlaceCODOrder submits a cash-on-delivery placement.
func (c *Client) PlaceCODOrder(ctx context.Context, req CODRequest) (string, error) {
	return c.placeOrder(ctx, "/api/v1/checkout/cod", req)
}

func (c *Client) placeOrder(ctx context.Context, path string, body any) (string, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout request failed")
	}
	defer resp.Body.Close()

	var result types.CheckoutResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return "", pkgerrors.Wrap(codeForStatus(resp.StatusCode), err, "unreadable checkout response")
	}
	if resp.StatusCode == http.StatusOK && result.Success {
		return result.OrderID, nil
	}

	message := strings.TrimSpace(result.Message)
	if message == "" {
		message = "order placement failed"
	}
	return "", pkgerrors.New(codeForStatus(resp.StatusCode), message)
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

func (c *Client) asError(resp *http.Response) error {
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		return pkgerrors.New(codeForStatus(resp.StatusCode), envelope.Error.Message)
	}
	return pkgerrors.New(codeForStatus(resp.StatusCode), fmt.Sprintf("unexpected status %d", resp.StatusCode))
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	}
	return pkgerrors.CodeDependency
}
