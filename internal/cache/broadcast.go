package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InvalidationChannel carries the short codes whose redirect changed.
const InvalidationChannel = "neoqrc:redirect-invalidations"

const publishTimeout = time.Second

// Broadcaster invalidates a code in the local cache and in the caches of
// every other instance subscribed to the same Redis.
type Broadcaster struct {
	local  *RedirectCache
	client *redis.Client
	logger *zap.Logger
}

func NewBroadcaster(local *RedirectCache, client *redis.Client, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		local:  local,
		client: client,
		logger: logger,
	}
}

// Delete drops code locally and publishes the invalidation.
func (b *Broadcaster) Delete(code string) {
	b.local.Delete(code)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, InvalidationChannel, code).Err(); err != nil {
		b.logger.Error("cache invalidation not published", zap.String("short_code", code), zap.Error(err))
	}
}

// Run applies invalidations published by other instances until ctx is
// cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	b.logger.Info("Listening for cache invalidations", zap.String("channel", InvalidationChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.local.Delete(msg.Payload)
		}
	}
}
