// AngelaMos | 2026
// redis.go

package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/resumeforge/internal/policy"
)

// consumeScript performs the check-and-increment as one server-side
// operation, which is what makes Consume atomic under concurrent
// requests. Returns {allowed, used-after}.
var consumeScript = redis.NewScript(`
local used = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if used >= limit then
	return {0, used}
end
used = redis.call('INCR', KEYS[1])
if used == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return {1, used}
`)

// keyTTLSlack keeps rolled-over counters around briefly for inspection
// before Redis expires them.
const keyTTLSlack = 24 * time.Hour

// RedisLedger keeps quota counters in Redis, one key per
// (user, resource, period), expiring shortly after the period rolls.
type RedisLedger struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{
		client: client,
		now:    time.Now,
	}
}

func (l *RedisLedger) Consume(
	ctx context.Context,
	userID string,
	resource Resource,
	rec *policy.Record,
) (Usage, error) {
	limit := resource.Limit(rec)
	if limit.IsUnlimited() {
		return unlimitedUsage(resource), nil
	}

	now := l.now()
	key := counterKey(userID, resource, PeriodKey(resource, now))
	ttl := PeriodEnd(resource, now).Sub(now) + keyTTLSlack

	res, err := consumeScript.Run(
		ctx,
		l.client,
		[]string{key},
		limit.Value(),
		int(ttl.Seconds()),
	).Int64Slice()
	if err != nil {
		return Usage{}, fmt.Errorf("quota consume %s: %w", resource, err)
	}

	if len(res) != 2 {
		return Usage{}, fmt.Errorf(
			"quota consume %s: unexpected script reply of length %d",
			resource,
			len(res),
		)
	}

	allowed, used := res[0] == 1, int(res[1])
	if !allowed {
		return Usage{}, &ExceededError{
			Resource: resource,
			Limit:    limit.Value(),
			Used:     used,
		}
	}

	return Usage{
		Resource:  resource,
		Limit:     limit.Value(),
		Used:      used,
		Remaining: limit.Value() - used,
	}, nil
}

func (l *RedisLedger) Peek(
	ctx context.Context,
	userID string,
	resource Resource,
	rec *policy.Record,
) (Usage, error) {
	limit := resource.Limit(rec)
	if limit.IsUnlimited() {
		return unlimitedUsage(resource), nil
	}

	key := counterKey(userID, resource, PeriodKey(resource, l.now()))

	used, err := l.client.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		return Usage{}, fmt.Errorf("quota peek %s: %w", resource, err)
	}

	remaining := limit.Value() - used
	if remaining < 0 {
		remaining = 0
	}

	return Usage{
		Resource:  resource,
		Limit:     limit.Value(),
		Used:      used,
		Remaining: remaining,
	}, nil
}

var _ Ledger = (*RedisLedger)(nil)
