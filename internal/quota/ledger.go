// AngelaMos | 2026
// ledger.go

package quota

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/resumeforge/internal/policy"
)

// UnlimitedRemaining is the "remaining" value reported for resources the
// tier does not meter. It only ever appears alongside Unlimited == true.
const UnlimitedRemaining = -1

// Usage is the counter state for one (user, resource, period).
type Usage struct {
	Resource  Resource `json:"resource"`
	Limit     int      `json:"limit"`
	Used      int      `json:"used"`
	Remaining int      `json:"remaining"`
	Unlimited bool     `json:"unlimited"`
}

func unlimitedUsage(r Resource) Usage {
	return Usage{
		Resource:  r,
		Limit:     UnlimitedRemaining,
		Used:      0,
		Remaining: UnlimitedRemaining,
		Unlimited: true,
	}
}

// ExceededError reports a consume attempt against an exhausted counter.
// It is a policy denial, never retried by the system itself.
type ExceededError struct {
	Resource Resource
	Limit    int
	Used     int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf(
		"quota exceeded for %s: used %d of %d",
		e.Resource,
		e.Used,
		e.Limit,
	)
}

// Ledger tracks per-user, per-resource, per-period consumption.
//
// Consume must be atomic: when one credit remains, two concurrent calls
// must produce exactly one success and one *ExceededError. Peek reads the
// same counter Consume would use, including period rollover.
//
// Unlimited resources never touch a counter; Consume and Peek
// short-circuit with an unbounded Usage.
type Ledger interface {
	Consume(
		ctx context.Context,
		userID string,
		resource Resource,
		rec *policy.Record,
	) (Usage, error)
	Peek(
		ctx context.Context,
		userID string,
		resource Resource,
		rec *policy.Record,
	) (Usage, error)
}
