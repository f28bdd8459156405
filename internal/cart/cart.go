// Package cart holds the session-scoped shopping cart: a mapping of product
// id to quantity, priced lazily against the catalogue, plus the stores that
// persist it between requests.
package cart

import (
	"context"
	"fmt"
	"iter"
	"math"
	"sort"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Mode selects how Add applies a quantity.
type Mode int

const (
	// ModeIncrement adds to the existing quantity.
	ModeIncrement Mode = iota
	// ModeReplace sets the quantity absolutely.
	ModeReplace
)

func (m Mode) String() string {
	switch m {
	case ModeIncrement:
		return "increment"
	case ModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Catalog resolves product ids to current catalogue records. Ids that do not
// resolve are simply absent from the result.
type Catalog interface {
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// Cart is one session's cart. Every present entry has a quantity of at least 1.
// A Cart is not safe for concurrent use; it is owned by a single request.
type Cart struct {
	entries map[string]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{entries: make(map[string]int)}
}

// FromEntries rebuilds a cart from persisted entries, dropping any with a
// quantity below 1.
func FromEntries(entries []model.CartEntry) *Cart {
	c := New()
	for _, e := range entries {
		if e.ProductID == "" || e.Quantity < 1 {
			continue
		}
		c.entries[e.ProductID] = addQuantity(c.entries[e.ProductID], e.Quantity)
	}
	return c
}

// Add applies quantity to productID. In increment mode quantity is clamped to
// at least 1 and added to the current value, saturating at math.MaxInt. In
// replace mode a quantity below 1 removes the entry.
func (c *Cart) Add(productID string, quantity int, mode Mode) {
	if productID == "" {
		return
	}

	switch mode {
	case ModeReplace:
		if quantity < 1 {
			delete(c.entries, productID)
			return
		}
		c.entries[productID] = quantity
	default:
		c.entries[productID] = addQuantity(c.entries[productID], max(1, quantity))
	}
}

// addQuantity adds two non-negative quantities without wrapping.
func addQuantity(held, quantity int) int {
	if quantity > math.MaxInt-held {
		return math.MaxInt
	}
	return held + quantity
}

// Remove deletes productID from the cart if present.
func (c *Cart) Remove(productID string) {
	delete(c.entries, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	clear(c.entries)
}

// Quantity returns the quantity held for productID, or 0.
func (c *Cart) Quantity(productID string) int {
	return c.entries[productID]
}

// Len returns the number of distinct products.
func (c *Cart) Len() int {
	return len(c.entries)
}

// Count returns the total number of units.
func (c *Cart) Count() int {
	n := 0
	for _, q := range c.entries {
		n = addQuantity(n, q)
	}
	return n
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Entries returns a snapshot of the cart ordered by product id.
func (c *Cart) Entries() []model.CartEntry {
	entries := make([]model.CartEntry, 0, len(c.entries))
	for id, q := range c.entries {
		entries = append(entries, model.CartEntry{ProductID: id, Quantity: q})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries
}

// Items prices the cart against catalog. The catalogue is read once, on the
// first pull. Entries whose product no longer resolves are skipped. A lookup
// failure is yielded once as the error element and ends the sequence.
func (c *Cart) Items(ctx context.Context, catalog Catalog) iter.Seq2[model.CartLineItem, error] {
	return func(yield func(model.CartLineItem, error) bool) {
		entries := c.Entries()
		if len(entries) == 0 {
			return
		}

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ProductID
		}

		products, err := catalog.GetByIDs(ctx, ids)
		if err != nil {
			yield(model.CartLineItem{}, fmt.Errorf("failed to resolve cart products: %w", err))
			return
		}

		byID := make(map[string]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		for _, e := range entries {
			p, ok := byID[e.ProductID]
			if !ok {
				continue
			}
			if !yield(model.NewCartLineItem(p, e.Quantity), nil) {
				return
			}
		}
	}
}

// Lines collects Items into a slice.
func (c *Cart) Lines(ctx context.Context, catalog Catalog) ([]model.CartLineItem, error) {
	lines := make([]model.CartLineItem, 0, c.Len())
	for line, err := range c.Items(ctx, catalog) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Total sums the line totals of the cart. An empty cart totals zero.
func (c *Cart) Total(ctx context.Context, catalog Catalog) (decimal.Decimal, error) {
	total := decimal.Zero
	for line, err := range c.Items(ctx, catalog) {
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(line.LineTotal)
	}
	return total, nil
}
