// AngelaMos | 2026
// service.go

package versions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

// Generator is the slice of provider.Router this service needs.
type Generator interface {
	Generate(
		ctx context.Context,
		providerID, prompt string,
	) ([]provider.Candidate, error)
}

// Service is the per-section AI edit state machine: propose candidates,
// accept one, undo the last accept.
type Service struct {
	repo      Repository
	gate      *gate.Gate
	generator Generator
	proposals *proposalCache
	locks     *keyedMutex
}

func NewService(repo Repository, g *gate.Gate, generator Generator) *Service {
	return &Service{
		repo:      repo,
		gate:      g,
		generator: generator,
		proposals: newProposalCache(),
		locks:     newKeyedMutex(),
	}
}

// Propose requests AI candidates for a section. One AI credit is
// consumed up front: credits meter requests, not acceptances, so a later
// provider failure does not refund it. The section itself is never
// mutated here, and the section lock is not held during the provider
// call; only the current text is read before it.
func (s *Service) Propose(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	resumeID, name, providerID string,
) (*Proposal, error) {
	section, err := s.repo.Get(ctx, userID, resumeID, name)
	if err != nil {
		return nil, err
	}

	if _, err := s.gate.ConsumeMetered(
		ctx,
		userID,
		tier,
		quota.ResourceAICredits,
	); err != nil {
		return nil, err
	}

	candidates, err := s.generator.Generate(ctx, providerID, section.CurrentText)
	if err != nil {
		slog.Warn("proposal generation failed",
			"resume_id", resumeID,
			"section", name,
			"provider", providerID,
			"retryable", provider.Retryable(err),
			"error", err,
		)
		return nil, err
	}

	return s.proposals.put(resumeID, name, candidates), nil
}

// Accept adopts a candidate: the replaced text moves into the undo slot
// and the section becomes AI-authored. keepOriginal is a presentation
// concern: the store tracks only the adopted text plus one undo level,
// so the prior value is returned to the caller rather than retained as a
// sibling.
func (s *Service) Accept(
	ctx context.Context,
	userID, resumeID, name, candidate string,
) (*Section, error) {
	unlock := s.locks.lock(sectionKey(resumeID, name))
	defer unlock()

	section, err := s.repo.Accept(ctx, userID, resumeID, name, candidate)
	if err != nil {
		return nil, err
	}

	s.proposals.discard(resumeID, name)

	return section, nil
}

// Undo reverts the most recent accept. Single-level: the undo slot is
// cleared on the way out, so a second consecutive undo is a no-op. The
// bool result is false for that benign no-op case.
func (s *Service) Undo(
	ctx context.Context,
	userID, resumeID, name string,
) (*Section, bool, error) {
	unlock := s.locks.lock(sectionKey(resumeID, name))
	defer unlock()

	section, err := s.repo.Undo(ctx, userID, resumeID, name)
	if errors.Is(err, ErrNoUndo) {
		return section, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return section, true, nil
}

// Edit records a user-authored write, resetting the AI flag, the undo
// slot, and any pending proposal.
func (s *Service) Edit(
	ctx context.Context,
	userID, resumeID, name, text string,
) (*Section, error) {
	unlock := s.locks.lock(sectionKey(resumeID, name))
	defer unlock()

	section, err := s.repo.Upsert(ctx, userID, resumeID, name, text)
	if err != nil {
		return nil, err
	}

	s.proposals.discard(resumeID, name)

	return section, nil
}

// Get returns the section state, including the pending proposal if one
// is waiting for review.
func (s *Service) Get(
	ctx context.Context,
	userID, resumeID, name string,
) (*Section, *Proposal, error) {
	section, err := s.repo.Get(ctx, userID, resumeID, name)
	if err != nil {
		return nil, nil, err
	}

	proposal, _ := s.proposals.get(resumeID, name)
	return section, proposal, nil
}

// IsAIContent reports whether the section's current text was adopted
// from an AI proposal.
func (s *Service) IsAIContent(
	ctx context.Context,
	userID, resumeID, name string,
) (bool, error) {
	section, err := s.repo.Get(ctx, userID, resumeID, name)
	if err != nil {
		return false, fmt.Errorf("is ai content: %w", err)
	}
	return section.IsAIAuthored, nil
}

// History returns the observable version history: the current text plus
// the single undo slot. Capability gating happens at the handler.
func (s *Service) History(
	ctx context.Context,
	userID, resumeID, name string,
) (*Section, error) {
	return s.repo.Get(ctx, userID, resumeID, name)
}
