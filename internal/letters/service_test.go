// AngelaMos | 2026
// service_test.go

package letters

import (
	"context"
	"strings"
	"testing"

	"github.com/carterperez-dev/resumeforge/internal/config"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

type generatorStub struct {
	candidates []provider.Candidate
	prompts    []string
}

func (g *generatorStub) Generate(
	_ context.Context,
	providerID, prompt string,
) ([]provider.Candidate, error) {
	g.prompts = append(g.prompts, prompt)
	return g.candidates, nil
}

func newTestGate() *gate.Gate {
	p := policy.New(config.TiersConfig{
		Free: config.TierConfig{
			AICreditsPerMonth:     5,
			PDFDownloadsPerMonth:  10,
			ResumeCreationsPerDay: 10,
		},
		Paid: config.TierConfig{
			CoverLetters:          true,
			AICreditsPerMonth:     2,
			PDFDownloadsPerMonth:  -1,
			ResumeCreationsPerDay: -1,
		},
	})
	return gate.New(p, quota.NewMemoryLedger(), "/upgrade")
}

func TestDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("free tier denied before spending", func(t *testing.T) {
		g := newTestGate()
		gen := &generatorStub{}
		svc := NewService(g, gen)

		_, err := svc.Draft(
			ctx, "u1", policy.TierFree, "", "Engineer", "Acme", "shipped things",
		)
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Kind != gate.DenialCapability {
			t.Errorf("kind = %s, want capability_denied", d.Kind)
		}
		if len(gen.prompts) != 0 {
			t.Error("denied draft must not reach the generator")
		}

		snap, _ := g.Snapshot(ctx, "u1", policy.TierFree)
		for _, u := range snap.Resources {
			if u.Used != 0 {
				t.Errorf("%s used = %d, want 0", u.Resource, u.Used)
			}
		}
	})

	t.Run("paid tier drafts and spends a credit", func(t *testing.T) {
		g := newTestGate()
		gen := &generatorStub{candidates: []provider.Candidate{
			{ProviderID: "openai", Text: "Dear hiring manager..."},
		}}
		svc := NewService(g, gen)

		candidates, err := svc.Draft(
			ctx, "u1", policy.TierPaid, "", "Engineer", "Acme", "shipped things",
		)
		if err != nil {
			t.Fatalf("draft: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("candidates = %d, want 1", len(candidates))
		}

		if len(gen.prompts) != 1 {
			t.Fatalf("generator called %d times, want 1", len(gen.prompts))
		}
		prompt := gen.prompts[0]
		for _, fragment := range []string{"Engineer", "Acme", "shipped things"} {
			if !strings.Contains(prompt, fragment) {
				t.Errorf("prompt missing %q: %s", fragment, prompt)
			}
		}

		snap, _ := g.Snapshot(ctx, "u1", policy.TierPaid)
		for _, u := range snap.Resources {
			if u.Resource == quota.ResourceAICredits && u.Used != 1 {
				t.Errorf("ai_credits used = %d, want 1", u.Used)
			}
		}
	})

	t.Run("credit exhaustion denies drafts", func(t *testing.T) {
		g := newTestGate()
		gen := &generatorStub{candidates: []provider.Candidate{{Text: "x"}}}
		svc := NewService(g, gen)

		for i := 0; i < 2; i++ {
			if _, err := svc.Draft(
				ctx, "u1", policy.TierPaid, "", "Role", "Co", "stuff",
			); err != nil {
				t.Fatalf("draft %d: %v", i+1, err)
			}
		}

		_, err := svc.Draft(ctx, "u1", policy.TierPaid, "", "Role", "Co", "stuff")
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Kind != gate.DenialQuota {
			t.Errorf("kind = %s, want quota_exceeded", d.Kind)
		}
	})
}
