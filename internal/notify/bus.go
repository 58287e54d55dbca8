// Package notify carries storage-change notifications between open views.
// It is the pub/sub half of cross-view synchronization: after a view writes
// the cart snapshot to durable storage it publishes the new value here, and
// every other view replaces its in-memory state on receipt.
package notify

import (
	"context"
	"sync"
)

// Notification announces that a storage key was rewritten. Value is the
// full serialized payload as written, not a diff. Origin identifies the
// view that performed the write so receivers can skip their own echoes.
type Notification struct {
	Key    string `json:"key"`
	Value  []byte `json:"value"`
	Origin string `json:"origin"`
}

type Handler func(Notification)

// Bus delivers notifications for a key in the order they were published.
// Delivery is at-least-effort: a notification's Value always reflects
// storage state at least as recent as the write that triggered it, but
// exactly-once delivery is not guaranteed.
type Bus interface {
	Publish(ctx context.Context, n Notification) error
	// Subscribe registers h for notifications on key and returns an
	// unsubscribe func. Handlers must not panic; they are invoked
	// sequentially per subscriber.
	Subscribe(ctx context.Context, key string, h Handler) (func(), error)
}

// LocalBus is the in-process Bus used when all views live in one binary.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]Handler)}
}

func (b *LocalBus) Publish(_ context.Context, n Notification) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[n.Key]))
	for _, h := range b.subs[n.Key] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	// Synchronous delivery keeps publish order and delivery order aligned.
	for _, h := range handlers {
		h(n)
	}
	return nil
}

func (b *LocalBus) Subscribe(_ context.Context, key string, h Handler) (func(), error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]Handler)
	}
	b.subs[key][id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[key], id)
	}, nil
}
