package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus carries notifications over redis pub/sub, one channel per
// storage key. It is the transport for views running in separate
// processes that share one durable store.
type RedisBus struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisBus(client *redis.Client, log *slog.Logger) *RedisBus {
	if log == nil {
		log = slog.Default()
	}
	return &RedisBus{client: client, log: log}
}

func channelFor(key string) string {
	return fmt.Sprintf("storefront:changed:%s", key)
}

func (b *RedisBus) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}
	if err := b.client.Publish(ctx, channelFor(n.Key), payload).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, key string, h Handler) (func(), error) {
	sub := b.client.Subscribe(ctx, channelFor(key))

	// Force the subscription to be established before returning, so a
	// publish issued right after Subscribe is not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range sub.Channel() {
			var n Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				// A bad payload must never take the listener down.
				b.log.Warn("dropping malformed notification",
					"channel", msg.Channel, "err", err)
				continue
			}
			h(n)
		}
	}()

	unsubscribe := func() {
		_ = sub.Close()
		wg.Wait()
	}
	return unsubscribe, nil
}
