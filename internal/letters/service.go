// AngelaMos | 2026
// service.go

package letters

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

// Generator matches provider.Router's generation surface.
type Generator interface {
	Generate(
		ctx context.Context,
		providerID, prompt string,
	) ([]provider.Candidate, error)
}

// Service drafts cover letters. Cover letters are double-gated: the
// capability flag must be present AND each draft spends one AI credit.
type Service struct {
	gate      *gate.Gate
	generator Generator
}

func NewService(g *gate.Gate, generator Generator) *Service {
	return &Service{gate: g, generator: generator}
}

// Draft generates cover-letter candidates for a job description. The
// capability check runs before the credit spend so a free-tier denial
// never consumes anything.
func (s *Service) Draft(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	providerID, jobTitle, company, highlights string,
) ([]provider.Candidate, error) {
	if err := s.gate.Check(tier, policy.CapabilityCoverLetters); err != nil {
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

	prompt := fmt.Sprintf(
		"Write a cover letter for the %s role at %s. Candidate highlights: %s",
		jobTitle,
		company,
		highlights,
	)

	return s.generator.Generate(ctx, providerID, prompt)
}
