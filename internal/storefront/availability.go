package storefront

import (
	"context"
	"fmt"

	"github.com/code-with-shadow/adhunik-art/internal/storefront/cart"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
)

// catalogLookup is the slice of the API client the verifier needs.
type catalogLookup interface {
	LookupPaintings(ctx context.Context, ids []string) ([]models.Painting, error)
}

// Verifier refreshes the cart's cached sold-state from catalog truth. It is
// best-effort UI freshness only; the server-side re-check at commit time is
// what actually prevents oversell.
type Verifier struct {
	cart *cart.Cart
	api  catalogLookup
	logg *logger.Logger
}

// NewVerifier builds an availability verifier over the given cart.
func NewVerifier(c *cart.Cart, api catalogLookup, logg *logger.Logger) (*Verifier, error) {
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	if api == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Verifier{cart: c, api: api, logg: logg}, nil
}

// Refresh re-fetches every cart id in one batched call and resyncs the cart.
// Failures are logged and swallowed; the cart is left as it was.
func (v *Verifier) Refresh(ctx context.Context) {
	ids := v.cart.IDs()
	if len(ids) == 0 {
		return
	}

	paintings, err := v.api.LookupPaintings(ctx, ids)
	if err != nil {
		v.logg.Warn(v.logg.WithField(ctx, "item_count", len(ids)), "cart availability refresh failed")
		return
	}

	fresh := make([]cart.Entry, 0, len(paintings))
	for _, painting := range paintings {
		fresh = append(fresh, SnapshotOf(painting))
	}
	if err := v.cart.Resync(fresh); err != nil {
		v.logg.Warn(ctx, "cart resync persistence failed")
	}
}

// SnapshotOf reduces a catalog record to the cart's cached subset.
func SnapshotOf(p models.Painting) cart.Entry {
	entry := cart.Entry{
		ID:             p.ID.String(),
		Title:          p.Title,
		PriceUSD:       p.PriceUSD,
		PriceINR:       p.PriceINR,
		DiscountUSDPct: p.DiscountUSDPct,
		DiscountINRPct: p.DiscountINRPct,
		IsSold:         p.IsSold,
	}
	if p.ImageID != nil {
		entry.ImageID = *p.ImageID
	}
	return entry
}
