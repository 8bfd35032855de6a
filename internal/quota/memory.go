// AngelaMos | 2026
// memory.go

package quota

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/carterperez-dev/resumeforge/internal/policy"
)

const shardCount = 16

type shard struct {
	mu       sync.Mutex
	counters map[string]int
}

// MemoryLedger is a process-local Ledger backed by a sharded mutex map.
// Suitable for tests and single-instance development deployments; a
// multi-instance deployment needs the Redis ledger.
type MemoryLedger struct {
	shards [shardCount]*shard
	now    func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	l := &MemoryLedger{now: time.Now}
	for i := range l.shards {
		l.shards[i] = &shard{counters: make(map[string]int)}
	}
	return l
}

func (l *MemoryLedger) shardFor(key string) *shard {
	h := fnv.New32a()
	//nolint:errcheck // fnv Write never fails
	_, _ = h.Write([]byte(key))
	return l.shards[h.Sum32()%shardCount]
}

func (l *MemoryLedger) Consume(
	_ context.Context,
	userID string,
	resource Resource,
	rec *policy.Record,
) (Usage, error) {
	limit := resource.Limit(rec)
	if limit.IsUnlimited() {
		return unlimitedUsage(resource), nil
	}

	key := counterKey(userID, resource, PeriodKey(resource, l.now()))
	s := l.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.counters[key]
	if used >= limit.Value() {
		return Usage{}, &ExceededError{
			Resource: resource,
			Limit:    limit.Value(),
			Used:     used,
		}
	}

	used++
	s.counters[key] = used

	return Usage{
		Resource:  resource,
		Limit:     limit.Value(),
		Used:      used,
		Remaining: limit.Value() - used,
	}, nil
}

func (l *MemoryLedger) Peek(
	_ context.Context,
	userID string,
	resource Resource,
	rec *policy.Record,
) (Usage, error) {
	limit := resource.Limit(rec)
	if limit.IsUnlimited() {
		return unlimitedUsage(resource), nil
	}

	key := counterKey(userID, resource, PeriodKey(resource, l.now()))
	s := l.shardFor(key)

	s.mu.Lock()
	used := s.counters[key]
	s.mu.Unlock()

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

var _ Ledger = (*MemoryLedger)(nil)
