// AngelaMos | 2026
// http.go

package gate

import (
	"net/http"
	"strconv"

	"github.com/carterperez-dev/resumeforge/internal/core"
)

// WriteDenial maps the two denial kinds onto the HTTP contract: a
// missing capability is forbidden, an exhausted quota is a rate/limit
// response. Callers can always tell the two apart by status and code.
func WriteDenial(w http.ResponseWriter, d *Denial) {
	switch d.Kind {
	case DenialQuota:
		w.Header().Set("Retry-After", strconv.Itoa(quotaRetryAfterSeconds))
		core.JSONError(w, core.NewAppError(
			"QUOTA_EXCEEDED",
			d.Error(),
			http.StatusTooManyRequests,
		).WithDetails(d))
	default:
		core.JSONError(w, core.NewAppError(
			"FEATURE_DENIED",
			d.Error(),
			http.StatusForbidden,
		).WithDetails(d))
	}
}

// Quota windows reset on period boundaries, not on a fixed interval; an
// hour is a conservative hint for clients that honor Retry-After.
const quotaRetryAfterSeconds = 3600
