package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Entry is a locally-cached snapshot of a painting. Its is_sold and price
// fields are UI cache only and may lag the catalog; nothing here is ever
// treated as authoritative for completing a sale.
type Entry struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ImageID        string          `json:"imageId,omitempty"`
	PriceUSD       decimal.Decimal `json:"priceUSD"`
	PriceINR       decimal.Decimal `json:"priceINR"`
	DiscountUSDPct int             `json:"discountUSDPct"`
	DiscountINRPct int             `json:"discountINRPct"`
	IsSold         bool            `json:"isSold"`
}

// Store persists the full entry list between process runs.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// Cart is the buyer-session item set. Every mutation writes the whole list
// through the store, and construction rehydrates from it, so the cart
// survives restarts the way browser-local storage would.
type Cart struct {
	mu      sync.Mutex
	store   Store
	entries []Entry
}

// New rehydrates a cart from the store. A missing or unreadable snapshot
// yields an empty cart rather than an error.
func New(store Store) *Cart {
	c := &Cart{store: store}
	if store != nil {
		if entries, err := store.Load(); err == nil {
			c.entries = entries
		}
	}
	return c
}

// Add inserts a snapshot if the id is not already present. Adding a painting
// twice is a no-op, not an error.
func (c *Cart) Add(entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.entries {
		if existing.ID == entry.ID {
			return nil
		}
	}
	c.entries = append(c.entries, entry)
	return c.persist()
}

// Remove drops the entry with the given id; absent ids are a no-op.
func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.entries {
		if existing.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// Clear empties the cart. Called only after a confirmed successful order.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	return c.persist()
}

// Resync overwrites the cached sold flag and pricing fields of every entry
// that matches a fresh record. Entries with no match are left untouched, so a
// painting deleted server-side never breaks the cart view.
func (c *Cart) Resync(fresh []Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID := make(map[string]Entry, len(fresh))
	for _, record := range fresh {
		byID[record.ID] = record
	}

	changed := false
	for i := range c.entries {
		record, ok := byID[c.entries[i].ID]
		if !ok {
			continue
		}
		c.entries[i].IsSold = record.IsSold
		c.entries[i].PriceUSD = record.PriceUSD
		c.entries[i].PriceINR = record.PriceINR
		c.entries[i].DiscountUSDPct = record.DiscountUSDPct
		c.entries[i].DiscountINRPct = record.DiscountINRPct
		changed = true
	}
	if !changed {
		return nil
	}
	return c.persist()
}

// Entries returns a copy of the current entry list.
func (c *Cart) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// IDs returns the ids of every entry, sold or not, in cart order.
func (c *Cart) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.entries))
	for _, entry := range c.entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

// Len reports the number of entries.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cart) persist() error {
	if c.store == nil {
		return nil
	}
	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return c.store.Save(entries)
}
