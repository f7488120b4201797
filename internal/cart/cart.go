package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Bidhigya/TechGhar/internal/store"
)

const storageKey = "cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// ShippingPolicy is the flat shipping rule: free above the threshold,
// a fixed fee below it. The exact numbers are deployment config.
type ShippingPolicy struct {
	FreeAbove float64
	Fee       float64
}

// Cart is the in-memory cart aggregate. It is the sole writer of the
// persisted snapshot; every successful mutation stores the full line set so
// a restart hydrates to exactly the same state.
type Cart struct {
	mu     sync.Mutex
	items  []Item
	store  store.Store
	policy ShippingPolicy
}

// New hydrates the cart from storage. Missing or malformed persisted data
// means an empty cart, never an error.
func New(ctx context.Context, st store.Store, policy ShippingPolicy) *Cart {
	c := &Cart{store: st, policy: policy}

	data, err := st.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("cart hydrate error: %v", err)
		}
		return c
	}

	var items []Item
	if err = json.Unmarshal(data, &items); err != nil {
		log.Printf("discarding malformed cart snapshot: %v", err)
		return c
	}
	for _, item := range items {
		if item.Qty < 1 {
			log.Printf("discarding malformed cart snapshot: qty %d for product %s", item.Qty, item.ID)
			return c
		}
	}
	c.items = items
	return c
}

// AddItem merges the item into the cart: an existing line with the same
// (product, port) key gains one unit, otherwise a new single-unit line is
// appended. The incoming Qty is ignored.
func (c *Cart) AddItem(ctx context.Context, item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := snapshot(c.items)
	merged := false
	for i := range next {
		if next[i].key() == item.key() {
			next[i].Qty++
			merged = true
			break
		}
	}
	if !merged {
		item.Qty = 1
		next = append(next, item)
	}
	return c.replace(ctx, next)
}

// RemoveItem drops the line with the given key. Removing an absent line is
// a no-op, not an error.
func (c *Cart) RemoveItem(ctx context.Context, productID, port string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key{ProductID: productID, Port: port}
	next := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if item.key() != key {
			next = append(next, item)
		}
	}
	if len(next) == len(c.items) {
		return nil
	}
	return c.replace(ctx, next)
}

// SetQuantity replaces a line's quantity. Quantities below 1 are rejected
// and leave the cart untouched.
func (c *Cart) SetQuantity(ctx context.Context, productID, port string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key{ProductID: productID, Port: port}
	next := snapshot(c.items)
	for i := range next {
		if next[i].key() == key {
			next[i].Qty = qty
			return c.replace(ctx, next)
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart and erases the persisted copy.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	c.items = nil
	return nil
}

// Items returns a snapshot of the current lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.items)
}

// SubTotal is the sum of price x quantity over all lines.
func (c *Cart) SubTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subTotal(c.items)
}

// Shipping evaluates the flat policy against the live subtotal. It is
// computed fresh on every call, never cached.
func (c *Cart) Shipping() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy.Cost(subTotal(c.items))
}

// GrandTotal is subtotal plus shipping minus discount. Discounts are not
// granted client-side, so the discount term is always zero here.
func (c *Cart) GrandTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := subTotal(c.items)
	return sub + c.policy.Cost(sub)
}

// Policy returns the configured shipping policy.
func (c *Cart) Policy() ShippingPolicy {
	return c.policy
}

// replace persists the candidate line set and only then installs it, so a
// storage failure leaves the in-memory cart exactly as it was. Callers hold
// the lock.
func (c *Cart) replace(ctx context.Context, next []Item) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err = c.store.Set(ctx, storageKey, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	c.items = next
	return nil
}

// Cost evaluates the policy for a given subtotal. An empty cart ships
// nothing, so it costs nothing.
func (p ShippingPolicy) Cost(subTotal float64) float64 {
	if subTotal <= 0 || subTotal > p.FreeAbove {
		return 0
	}
	return p.Fee
}

func subTotal(items []Item) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Qty)
	}
	return sum
}

func snapshot(items []Item) []Item {
	cp := make([]Item, len(items))
	copy(cp, items)
	return cp
}
