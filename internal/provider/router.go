// AngelaMos | 2026
// router.go

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Router dispatches generation requests to a registered provider by id
// and bounds every call with a deadline so a hung provider surfaces as
// ErrTimeout instead of stalling the request.
type Router struct {
	generators map[string]Generator
	defaultID  string
	timeout    time.Duration
}

func NewRouter(defaultID string, timeout time.Duration) *Router {
	return &Router{
		generators: make(map[string]Generator),
		defaultID:  defaultID,
		timeout:    timeout,
	}
}

func (r *Router) Register(id string, g Generator) {
	r.generators[id] = g
}

// Generate resolves the provider (empty id means the configured
// default), issues the prompt, and maps failures onto the typed error
// set. Never mutates any caller state.
func (r *Router) Generate(
	ctx context.Context,
	providerID, prompt string,
) ([]Candidate, error) {
	if providerID == "" {
		providerID = r.defaultID
	}

	g, ok := r.generators[providerID]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", providerID, ErrUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	texts, err := g.Generate(callCtx, prompt)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("provider %q: %w", providerID, ErrTimeout)
		case errors.Is(err, ErrRejected):
			return nil, fmt.Errorf("provider %q: %w", providerID, ErrRejected)
		default:
			return nil, fmt.Errorf(
				"provider %q: %v: %w",
				providerID,
				err,
				ErrUnavailable,
			)
		}
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf(
			"provider %q returned no candidates: %w",
			providerID,
			ErrRejected,
		)
	}

	candidates := make([]Candidate, 0, len(texts))
	for _, text := range texts {
		candidates = append(candidates, Candidate{
			ProviderID: providerID,
			Text:       text,
		})
	}

	return candidates, nil
}
