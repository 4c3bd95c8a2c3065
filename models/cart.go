package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 999

var (
	ErrInvalidQuantity  = errors.New("quantity must be a whole number greater than zero")
	ErrQuantityTooLarge = fmt.Errorf("%w: at most %d per product", ErrInvalidQuantity, MaxQuantity)
)

// CartEntry keeps the product name and price as they were when the product
// was first added. Later catalog price changes do not reach the cart.
type CartEntry struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (e CartEntry) LineTotal() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// CartLine is an entry enriched with the live catalog product.
type CartLine struct {
	CartEntry
	Product    Product         `json:"product"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Cart maps product ids to entries. Quantities are always positive; an
// entry that would drop to zero is removed instead.
type Cart struct {
	entries map[int64]*CartEntry
}

func NewCart() *Cart {
	return &Cart{entries: make(map[int64]*CartEntry)}
}

// Add increases the line for product, creating it at the current price.
// The cart is left unchanged when the line would exceed MaxQuantity.
func (c *Cart) Add(product Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	entry, ok := c.entries[product.ID]
	if quantity > MaxQuantity || (ok && entry.Quantity > MaxQuantity-quantity) {
		return ErrQuantityTooLarge
	}
	if !ok {
		entry = &CartEntry{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
		}
		c.entries[product.ID] = entry
	}
	entry.Quantity += quantity
	return nil
}

// Update sets the exact quantity. Zero or less removes the entry, and ids
// that are not in the cart are ignored.
func (c *Cart) Update(productID int64, quantity int) error {
	entry, ok := c.entries[productID]
	if !ok {
		return nil
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	if quantity <= 0 {
		delete(c.entries, productID)
		return nil
	}
	entry.Quantity = quantity
	return nil
}

func (c *Cart) Remove(productID int64) {
	delete(c.entries, productID)
}

func (c *Cart) Clear() {
	c.entries = make(map[int64]*CartEntry)
}

func (c *Cart) Contains(productID int64) bool {
	_, ok := c.entries[productID]
	return ok
}

func (c *Cart) Entry(productID int64) (CartEntry, bool) {
	entry, ok := c.entries[productID]
	if !ok {
		return CartEntry{}, false
	}
	return *entry, true
}

func (c *Cart) Len() int {
	return len(c.entries)
}

func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshot returns copies of every stored entry ordered by product id.
func (c *Cart) Snapshot() []CartEntry {
	out := make([]CartEntry, 0, len(c.entries))
	for _, id := range c.ProductIDs() {
		out = append(out, *c.entries[id])
	}
	return out
}

// Reconcile drops entries whose product is missing from live and returns
// the removed ids in ascending order.
func (c *Cart) Reconcile(live map[int64]Product) []int64 {
	var removed []int64
	for _, id := range c.ProductIDs() {
		if _, ok := live[id]; !ok {
			delete(c.entries, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Lines enriches the entries that resolve in live. It does not modify the
// cart; call Reconcile first to drop the ones that do not.
func (c *Cart) Lines(live map[int64]Product) []CartLine {
	lines := make([]CartLine, 0, len(c.entries))
	for _, entry := range c.Snapshot() {
		product, ok := live[entry.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{
			CartEntry:  entry,
			Product:    product,
			TotalPrice: entry.LineTotal(),
		})
	}
	return lines
}

func (c *Cart) TotalItemCount() int {
	total := 0
	for _, entry := range c.entries {
		total += entry.Quantity
	}
	return total
}

// TotalPrice sums the stored price snapshots, not live catalog prices.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.entries {
		total = total.Add(entry.LineTotal())
	}
	return total
}

type sessionEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// MarshalJSON writes the session blob: an object keyed by the product id
// as a string, prices as fixed two-place strings.
func (c *Cart) MarshalJSON() ([]byte, error) {
	blob := make(map[string]sessionEntry, len(c.entries))
	for id, entry := range c.entries {
		blob[strconv.FormatInt(id, 10)] = sessionEntry{
			ID:       id,
			Name:     entry.Name,
			Price:    entry.UnitPrice.StringFixed(2),
			Quantity: entry.Quantity,
		}
	}
	return json.Marshal(blob)
}

// UnmarshalJSON reads the session blob. Keys that are not positive integers
// and entries without a positive quantity or parseable price are dropped;
// quantities above MaxQuantity are capped.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var blob map[string]sessionEntry
	if err := json.Unmarshal(data, &blob); err != nil {
		return err
	}

	c.entries = make(map[int64]*CartEntry, len(blob))
	for key, raw := range blob {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 || raw.Quantity <= 0 {
			continue
		}
		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			continue
		}
		qty := raw.Quantity
		if qty > MaxQuantity {
			qty = MaxQuantity
		}
		c.entries[id] = &CartEntry{
			ProductID: id,
			Name:      raw.Name,
			UnitPrice: price,
			Quantity:  qty,
		}
	}
	return nil
}

// ParseQuantity parses a form quantity field. Zero and negative values are
// returned as is; callers treat them as removal.
func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return 0, ErrQuantityTooLarge
	}
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	if qty > MaxQuantity {
		return 0, ErrQuantityTooLarge
	}
	return qty, nil
}
