// AngelaMos | 2026
// http.go

package provider

import (
	"errors"
	"net/http"

	"github.com/carterperez-dev/resumeforge/internal/core"
)

// WriteError maps provider failures onto the HTTP contract, distinct
// from capability and quota denials: the credit was already consumed and
// the caller may retry at the cost of another one.
func WriteError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ErrTimeout):
		core.JSONError(w, core.NewAppError(
			"PROVIDER_TIMEOUT",
			"the AI provider did not respond in time",
			http.StatusGatewayTimeout,
		))
		return true
	case errors.Is(err, ErrUnavailable):
		core.JSONError(w, core.NewAppError(
			"PROVIDER_UNAVAILABLE",
			"the AI provider is currently unavailable",
			http.StatusBadGateway,
		))
		return true
	case errors.Is(err, ErrRejected):
		core.JSONError(w, core.NewAppError(
			"PROVIDER_REJECTED",
			"the AI provider rejected the request",
			http.StatusBadGateway,
		))
		return true
	default:
		return false
	}
}
