// AngelaMos | 2026
// service.go

package resume

import (
	"context"

	"github.com/google/uuid"

	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

type Service struct {
	repo Repository
	gate *gate.Gate
}

func NewService(repo Repository, g *gate.Gate) *Service {
	return &Service{repo: repo, gate: g}
}

// Create makes a new resume against the daily creation quota. The
// template is checked before any quota is spent so a premium-template
// denial never costs a creation.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	req CreateResumeRequest,
) (*Resume, quota.Usage, error) {
	if err := s.gate.CheckTemplate(tier, req.TemplateID); err != nil {
		return nil, quota.Usage{}, err
	}

	usage, err := s.gate.ConsumeMetered(
		ctx,
		userID,
		tier,
		quota.ResourceResumeCreations,
	)
	if err != nil {
		return nil, quota.Usage{}, err
	}

	resume := &Resume{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      req.Title,
		TemplateID: req.TemplateID,
	}

	if err := s.repo.Create(ctx, resume); err != nil {
		return nil, quota.Usage{}, err
	}

	return resume, usage, nil
}

// Import creates a resume from an uploaded document's extracted text.
// Parsing is a boolean capability; the creation still counts against the
// daily quota. Extraction itself happens in the upload pipeline.
func (s *Service) Import(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	req ImportResumeRequest,
) (*Resume, quota.Usage, error) {
	if err := s.gate.Check(tier, policy.CapabilityResumeParsing); err != nil {
		return nil, quota.Usage{}, err
	}

	usage, err := s.gate.ConsumeMetered(
		ctx,
		userID,
		tier,
		quota.ResourceResumeCreations,
	)
	if err != nil {
		return nil, quota.Usage{}, err
	}

	resume := &Resume{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      req.Title,
		TemplateID: "classic",
		SourceText: &req.RawText,
	}

	if err := s.repo.Create(ctx, resume); err != nil {
		return nil, quota.Usage{}, err
	}

	return resume, usage, nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, id string,
) (*Resume, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Resume, int, error) {
	return s.repo.List(ctx, userID, params)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.SoftDelete(ctx, userID, id)
}

// Download authorizes one PDF export against the monthly download quota
// and stamps the grant with the tier's watermark flag.
func (s *Service) Download(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	resumeID string,
) (*DownloadGrant, error) {
	if _, err := s.repo.GetByID(ctx, userID, resumeID); err != nil {
		return nil, err
	}

	usage, err := s.gate.ConsumeMetered(
		ctx,
		userID,
		tier,
		quota.ResourcePDFDownloads,
	)
	if err != nil {
		return nil, err
	}

	return &DownloadGrant{
		GrantID:   uuid.New().String(),
		ResumeID:  resumeID,
		Watermark: s.gate.Watermark(tier),
		Usage:     usage,
	}, nil
}

// recommendedSections is the baseline set ATS scanners expect.
var recommendedSections = []string{
	"professional_summary",
	"experience",
	"education",
	"skills",
}

// ATSReport scores a resume. Every tier gets the headline score; the
// per-field breakdown is reserved for the detailed-insights capability.
func (s *Service) ATSReport(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	resumeID string,
) (*ATSReport, error) {
	stats, err := s.repo.Stats(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	score := stats.SectionCount * 20
	if stats.TotalChars > 1500 {
		score += 20
	}
	if score > 100 {
		score = 100
	}

	report := &ATSReport{
		ResumeID: resumeID,
		Score:    score,
	}

	if s.gate.Check(tier, policy.CapabilityATSDetailedInsights) == nil {
		names, err := s.repo.SectionNames(ctx, resumeID)
		if err != nil {
			return nil, err
		}

		present := make(map[string]struct{}, len(names))
		for _, n := range names {
			present[n] = struct{}{}
		}

		missing := make([]string, 0, len(recommendedSections))
		for _, want := range recommendedSections {
			if _, ok := present[want]; !ok {
				missing = append(missing, want)
			}
		}

		report.Details = &ATSDetails{
			SectionCount:    stats.SectionCount,
			TotalChars:      stats.TotalChars,
			MissingSections: missing,
		}
	}

	return report, nil
}
