// AngelaMos | 2026
// provider.go

package provider

import (
	"context"
	"errors"
)

// Candidate is one AI-proposed text for a resume section or cover
// letter, tagged with the provider that produced it.
type Candidate struct {
	ProviderID string `json:"provider_id"`
	Text       string `json:"candidate_text"`
}

var (
	// ErrUnavailable: the provider is unknown, unreachable, or failed.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrTimeout: the provider neither succeeded nor failed within the
	// configured deadline.
	ErrTimeout = errors.New("provider timed out")
	// ErrRejected: the provider refused the prompt or returned nothing.
	ErrRejected = errors.New("provider rejected the prompt")
)

// Generator produces candidate texts for a prompt. Implementations wrap
// the actual provider HTTP clients, which are configured and owned
// outside this service.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]string, error)
}

// Retryable reports whether the caller may usefully re-invoke the
// operation. The consumed credit is not refunded either way; credits
// meter requests, not outcomes.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}
