// Package cart implements the mutable, persisted shopping cart. One Cart
// instance backs one open view of the application; all instances share a
// durable store and a notification bus, which together keep every view's
// in-memory snapshot consistent (last writer wins).
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/notify"
	"github.com/fjod/go_storefront/internal/storage"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not in cart")
)

// ItemMeta is the display data captured from a product when it is added.
// The cart keeps these by value so line items render even after the
// product leaves the catalog.
type ItemMeta struct {
	Title string
	Price float64
}

// MetaLookup resolves display metadata for entries restored from the
// legacy persisted format, which stores only id and quantity.
type MetaLookup func(productID string) (ItemMeta, bool)

type Options struct {
	Lookup MetaLookup
	Logger *slog.Logger
}

type Cart struct {
	store       storage.Store
	bus         notify.Bus
	log         *slog.Logger
	origin      string
	unsubscribe func()

	mu    sync.RWMutex
	items domain.Snapshot
}

// New restores the persisted snapshot (primary format first, legacy map as
// fallback, empty cart otherwise) and subscribes to change notifications.
func New(ctx context.Context, store storage.Store, bus notify.Bus, opts Options) (*Cart, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	c := &Cart{
		store:  store,
		bus:    bus,
		log:    log,
		origin: uuid.NewString(),
	}
	c.items = c.restore(ctx, opts.Lookup)

	unsubscribe, err := bus.Subscribe(ctx, domain.SchemaPrimary, c.onNotification)
	if err != nil {
		return nil, err
	}
	c.unsubscribe = unsubscribe
	return c, nil
}

func (c *Cart) restore(ctx context.Context, lookup MetaLookup) domain.Snapshot {
	data, err := c.store.Read(ctx, domain.SchemaPrimary)
	if err == nil {
		s, decErr := domain.DecodeSnapshot(data)
		if decErr != nil {
			c.log.Warn("persisted cart is malformed, starting empty", "err", decErr)
			return domain.Snapshot{}
		}
		return s
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		c.log.Warn("failed to read persisted cart, starting empty", "err", err)
		return domain.Snapshot{}
	}

	// No primary entry; older clients may have left the legacy map.
	data, err = c.store.Read(ctx, domain.SchemaLegacy)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			c.log.Warn("failed to read legacy cart, starting empty", "err", err)
		}
		return domain.Snapshot{}
	}

	s, decErr := domain.DecodeLegacy(data)
	if decErr != nil {
		c.log.Warn("legacy cart is malformed, starting empty", "err", decErr)
		return domain.Snapshot{}
	}
	for i := range s {
		if lookup == nil {
			s[i].Title = s[i].ID
			continue
		}
		meta, ok := lookup(s[i].ID)
		if !ok {
			s[i].Title = s[i].ID
			continue
		}
		s[i].Title = meta.Title
		s[i].Price = meta.Price
	}
	return s
}

// Close stops listening for cross-view notifications. The persisted
// snapshot is untouched; cart lifetime is the substrate's, not the view's.
func (c *Cart) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Add merges quantity into an existing line item for productID or appends
// a new one with the captured metadata. Quantity below 1 is rejected.
func (c *Cart) Add(ctx context.Context, productID string, meta ItemMeta, quantity int) (domain.Snapshot, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	c.mu.Lock()
	if i := c.items.Find(productID); i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, domain.LineItem{
			ID:       productID,
			Title:    meta.Title,
			Price:    meta.Price,
			Quantity: quantity,
		})
	}
	snap := c.items.Clone()
	c.mu.Unlock()

	c.persistAndBroadcast(ctx, snap)
	return snap, nil
}

// SetQuantity replaces a line item's quantity. Values below 1 are clamped
// to 1; a decrement can never leave a zero-quantity line behind.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) (domain.Snapshot, error) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	i := c.items.Find(productID)
	if i < 0 {
		c.mu.Unlock()
		return nil, ErrItemNotFound
	}
	c.items[i].Quantity = quantity
	snap := c.items.Clone()
	c.mu.Unlock()

	c.persistAndBroadcast(ctx, snap)
	return snap, nil
}

// Remove deletes the line item for productID. Removing an absent item is
// a no-op, not an error.
func (c *Cart) Remove(ctx context.Context, productID string) domain.Snapshot {
	c.mu.Lock()
	i := c.items.Find(productID)
	if i < 0 {
		snap := c.items.Clone()
		c.mu.Unlock()
		return snap
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	snap := c.items.Clone()
	c.mu.Unlock()

	c.persistAndBroadcast(ctx, snap)
	return snap
}

// Clear empties the cart. Called after a confirmed checkout, never by the
// checkout gateway itself.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = domain.Snapshot{}
	snap := c.items.Clone()
	c.mu.Unlock()

	c.persistAndBroadcast(ctx, snap)
}

func (c *Cart) Items() domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Clone()
}

func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Total()
}

// Count is the unit count across all line items (the cart badge number).
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Count()
}

// persistAndBroadcast writes the snapshot (primary format plus legacy
// mirror) and then announces the change. Failures are logged and not
// rolled back: the in-memory mutation stands, the next successful write
// repairs the stored state.
func (c *Cart) persistAndBroadcast(ctx context.Context, snap domain.Snapshot) {
	primary, err := domain.EncodeSnapshot(snap)
	if err != nil {
		c.log.Error("failed to encode cart snapshot", "err", err)
		return
	}

	if err := c.store.Write(ctx, domain.SchemaPrimary, primary); err != nil {
		c.log.Error("failed to persist cart", "err", err)
	}
	if legacy, encErr := domain.EncodeLegacy(snap); encErr == nil {
		if err := c.store.Write(ctx, domain.SchemaLegacy, legacy); err != nil {
			c.log.Warn("failed to persist legacy cart mirror", "err", err)
		}
	}

	err = c.bus.Publish(ctx, notify.Notification{
		Key:    domain.SchemaPrimary,
		Value:  primary,
		Origin: c.origin,
	})
	if err != nil {
		c.log.Warn("failed to broadcast cart change", "err", err)
	}
}

// onNotification applies a cross-view change by replacing the snapshot
// wholesale. Own writes are skipped (already applied locally) and
// malformed payloads leave the current snapshot untouched.
func (c *Cart) onNotification(n notify.Notification) {
	if n.Origin == c.origin {
		return
	}

	s, err := domain.DecodeSnapshot(n.Value)
	if err != nil {
		c.log.Warn("ignoring malformed cart notification", "err", err)
		return
	}

	c.mu.Lock()
	c.items = s
	c.mu.Unlock()
}
