package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis is a sliding-window limiter over sorted sets, shared by every
// instance pointing at the same server.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		prefix: "rate:sliding:",
		now:    time.Now,
	}
}

// Allow records the call and admits it when no more than rule.Limit calls
// fall inside the trailing window. Rejected calls are not counted.
func (r *Redis) Allow(ctx context.Context, key string, rule Rule) (Decision, error) {
	k := r.prefix + bucketKey(key, rule)
	now := r.now().UnixMilli()
	windowStart := now - rule.Window.Milliseconds()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	var card *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, k, redis.Z{Score: float64(now), Member: member})
		card = pipe.ZCard(ctx, k)
		oldest = pipe.ZRangeWithScores(ctx, k, 0, 0)
		pipe.PExpire(ctx, k, rule.Window)
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	count := int(card.Val())
	resetAfter := rule.Window
	if entries := oldest.Val(); len(entries) > 0 {
		resetAfter = time.Duration(int64(entries[0].Score)+rule.Window.Milliseconds()-now) * time.Millisecond
	}

	if count > rule.Limit {
		if err := r.client.ZRem(ctx, k, member).Err(); err != nil {
			return Decision{}, err
		}
		return Decision{Allowed: false, Limit: rule.Limit, Remaining: 0, ResetAfter: resetAfter}, nil
	}

	return Decision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - count, ResetAfter: resetAfter}, nil
}
