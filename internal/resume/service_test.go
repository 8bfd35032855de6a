// AngelaMos | 2026
// service_test.go

package resume

import (
	"context"
	"testing"
	"time"

	"github.com/carterperez-dev/resumeforge/internal/config"
	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

type fakeRepository struct {
	resumes  map[string]*Resume
	stats    map[string]*Stats
	sections map[string][]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		resumes:  make(map[string]*Resume),
		stats:    make(map[string]*Stats),
		sections: make(map[string][]string),
	}
}

func (f *fakeRepository) Create(_ context.Context, resume *Resume) error {
	resume.CreatedAt = time.Now()
	resume.UpdatedAt = resume.CreatedAt
	f.resumes[resume.ID] = resume
	return nil
}

func (f *fakeRepository) GetByID(
	_ context.Context,
	userID, id string,
) (*Resume, error) {
	r, ok := f.resumes[id]
	if !ok || r.UserID != userID || r.IsDeleted() {
		return nil, core.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepository) List(
	_ context.Context,
	userID string,
	_ ListParams,
) ([]Resume, int, error) {
	var out []Resume
	for _, r := range f.resumes {
		if r.UserID == userID && !r.IsDeleted() {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, userID, id string) error {
	r, ok := f.resumes[id]
	if !ok || r.UserID != userID || r.IsDeleted() {
		return core.ErrNotFound
	}
	now := time.Now()
	r.DeletedAt = &now
	return nil
}

func (f *fakeRepository) Stats(
	_ context.Context,
	userID, id string,
) (*Stats, error) {
	if _, err := f.GetByID(context.Background(), userID, id); err != nil {
		return nil, err
	}
	s, ok := f.stats[id]
	if !ok {
		return &Stats{}, nil
	}
	return s, nil
}

func (f *fakeRepository) SectionNames(
	_ context.Context,
	id string,
) ([]string, error) {
	return f.sections[id], nil
}

func newTestGate(creations, downloads int) *gate.Gate {
	p := policy.New(config.TiersConfig{
		Free: config.TierConfig{
			WatermarkPDF:          true,
			AICreditsPerMonth:     5,
			PDFDownloadsPerMonth:  downloads,
			ResumeCreationsPerDay: creations,
			FreeTemplates:         []string{"classic", "minimal"},
		},
		Paid: config.TierConfig{
			CoverLetters:          true,
			VersionHistory:        true,
			ResumeParsing:         true,
			PremiumTemplates:      true,
			ATSDetailedInsights:   true,
			AICreditsPerMonth:     -1,
			PDFDownloadsPerMonth:  -1,
			ResumeCreationsPerDay: -1,
		},
	})
	return gate.New(p, quota.NewMemoryLedger(), "/upgrade")
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("counts against the daily quota", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newTestGate(2, 10))

		resume, usage, err := svc.Create(ctx, "u1", policy.TierFree, CreateResumeRequest{
			Title:      "Backend Engineer",
			TemplateID: "classic",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if resume.ID == "" {
			t.Error("resume id should be set")
		}
		if usage.Used != 1 {
			t.Errorf("used = %d, want 1", usage.Used)
		}

		if _, _, err := svc.Create(ctx, "u1", policy.TierFree, CreateResumeRequest{
			Title:      "Second",
			TemplateID: "classic",
		}); err != nil {
			t.Fatalf("second create: %v", err)
		}

		_, _, err = svc.Create(ctx, "u1", policy.TierFree, CreateResumeRequest{
			Title:      "Third",
			TemplateID: "classic",
		})
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Kind != gate.DenialQuota {
			t.Errorf("kind = %s, want quota_exceeded", d.Kind)
		}
	})

	t.Run("premium template denial spends nothing", func(t *testing.T) {
		repo := newFakeRepository()
		g := newTestGate(5, 10)
		svc := NewService(repo, g)

		_, _, err := svc.Create(ctx, "u1", policy.TierFree, CreateResumeRequest{
			Title:      "Fancy",
			TemplateID: "executive",
		})
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Kind != gate.DenialCapability {
			t.Errorf("kind = %s, want capability_denied", d.Kind)
		}

		snap, err := g.Snapshot(ctx, "u1", policy.TierFree)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		for _, u := range snap.Resources {
			if u.Used != 0 {
				t.Errorf("%s used = %d, want 0", u.Resource, u.Used)
			}
		}
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("free tier lacks parsing", func(t *testing.T) {
		svc := NewService(newFakeRepository(), newTestGate(5, 10))

		_, _, err := svc.Import(ctx, "u1", policy.TierFree, ImportResumeRequest{
			Title:   "Imported",
			RawText: "plain resume text",
		})
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Capability != policy.CapabilityResumeParsing {
			t.Errorf("capability = %s, want resume_parsing", d.Capability)
		}
	})

	t.Run("paid tier imports with source text", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, newTestGate(5, 10))

		resume, _, err := svc.Import(ctx, "u1", policy.TierPaid, ImportResumeRequest{
			Title:   "Imported",
			RawText: "plain resume text",
		})
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if resume.SourceText == nil || *resume.SourceText != "plain resume text" {
			t.Error("imported resume should retain its source text")
		}
		if resume.TemplateID != "classic" {
			t.Errorf("template = %q, want classic", resume.TemplateID)
		}
	})
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo, newTestGate(5, 1))

	resume, _, err := svc.Create(ctx, "u1", policy.TierFree, CreateResumeRequest{
		Title:      "Mine",
		TemplateID: "classic",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("grant carries watermark for free tier", func(t *testing.T) {
		grant, err := svc.Download(ctx, "u1", policy.TierFree, resume.ID)
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		if !grant.Watermark {
			t.Error("free tier downloads should be watermarked")
		}
		if grant.Usage.Used != 1 {
			t.Errorf("used = %d, want 1", grant.Usage.Used)
		}
	})

	t.Run("quota exhaustion denies", func(t *testing.T) {
		_, err := svc.Download(ctx, "u1", policy.TierFree, resume.ID)
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Resource != quota.ResourcePDFDownloads {
			t.Errorf("resource = %s, want pdf_downloads", d.Resource)
		}
	})

	t.Run("other users cannot download it", func(t *testing.T) {
		_, err := svc.Download(ctx, "u2", policy.TierPaid, resume.ID)
		if err != core.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestATSReport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo, newTestGate(5, 10))

	resume, _, err := svc.Create(ctx, "u1", policy.TierPaid, CreateResumeRequest{
		Title:      "Scored",
		TemplateID: "classic",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.stats[resume.ID] = &Stats{SectionCount: 3, TotalChars: 2000}
	repo.sections[resume.ID] = []string{
		"professional_summary",
		"experience",
		"skills",
	}

	t.Run("free tier gets headline score only", func(t *testing.T) {
		report, err := svc.ATSReport(ctx, "u1", policy.TierFree, resume.ID)
		if err != nil {
			t.Fatalf("ats report: %v", err)
		}
		if report.Score != 80 {
			t.Errorf("score = %d, want 80 (3 sections + length bonus)", report.Score)
		}
		if report.Details != nil {
			t.Error("free tier should not receive the detailed breakdown")
		}
	})

	t.Run("paid tier gets missing-section details", func(t *testing.T) {
		report, err := svc.ATSReport(ctx, "u1", policy.TierPaid, resume.ID)
		if err != nil {
			t.Fatalf("ats report: %v", err)
		}
		if report.Details == nil {
			t.Fatal("paid tier should receive details")
		}
		if len(report.Details.MissingSections) != 1 ||
			report.Details.MissingSections[0] != "education" {
			t.Errorf(
				"missing = %v, want [education]",
				report.Details.MissingSections,
			)
		}
	})

	t.Run("score caps at 100", func(t *testing.T) {
		repo.stats[resume.ID] = &Stats{SectionCount: 6, TotalChars: 3000}
		report, err := svc.ATSReport(ctx, "u1", policy.TierFree, resume.ID)
		if err != nil {
			t.Fatalf("ats report: %v", err)
		}
		if report.Score != 100 {
			t.Errorf("score = %d, want 100", report.Score)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo, newTestGate(5, 10))

	resume, _, err := svc.Create(ctx, "u1", policy.TierFree, CreateResumeRequest{
		Title:      "Gone soon",
		TemplateID: "minimal",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, "u1", resume.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", resume.ID); err != core.ErrNotFound {
		t.Errorf("deleted resume should be gone, got %v", err)
	}
}
