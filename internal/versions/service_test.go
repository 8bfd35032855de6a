// AngelaMos | 2026
// service_test.go

package versions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/resumeforge/internal/config"
	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

// fakeRepository mirrors the store's accept/undo/upsert semantics in a
// plain map so the service state machine can be exercised without a
// database.
type fakeRepository struct {
	sections map[string]*Section
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{sections: make(map[string]*Section)}
}

func (f *fakeRepository) key(resumeID, name string) string {
	return resumeID + "/" + name
}

func (f *fakeRepository) seed(resumeID, name, text string) {
	f.sections[f.key(resumeID, name)] = &Section{
		ID:          "sec-" + name,
		ResumeID:    resumeID,
		Name:        name,
		CurrentText: text,
		UpdatedAt:   time.Now(),
	}
}

func (f *fakeRepository) Get(
	_ context.Context,
	_, resumeID, name string,
) (*Section, error) {
	s, ok := f.sections[f.key(resumeID, name)]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepository) Upsert(
	_ context.Context,
	_, resumeID, name, text string,
) (*Section, error) {
	k := f.key(resumeID, name)
	s, ok := f.sections[k]
	if !ok {
		s = &Section{ID: "sec-" + name, ResumeID: resumeID, Name: name}
		f.sections[k] = s
	}
	s.CurrentText = text
	s.PreviousText = nil
	s.IsAIAuthored = false
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

func (f *fakeRepository) Accept(
	_ context.Context,
	_, resumeID, name, candidate string,
) (*Section, error) {
	s, ok := f.sections[f.key(resumeID, name)]
	if !ok {
		return nil, core.ErrNotFound
	}
	prev := s.CurrentText
	s.PreviousText = &prev
	s.CurrentText = candidate
	s.IsAIAuthored = true
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

func (f *fakeRepository) Undo(
	_ context.Context,
	_, resumeID, name string,
) (*Section, error) {
	s, ok := f.sections[f.key(resumeID, name)]
	if !ok {
		return nil, core.ErrNotFound
	}
	if !s.CanUndo() {
		cp := *s
		return &cp, ErrNoUndo
	}
	s.CurrentText = *s.PreviousText
	s.PreviousText = nil
	s.IsAIAuthored = false
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

type routerStub struct {
	candidates []provider.Candidate
	err        error
	calls      int
}

func (r *routerStub) Generate(
	_ context.Context,
	providerID, prompt string,
) ([]provider.Candidate, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.candidates, nil
}

func newTestGate(freeCredits int) *gate.Gate {
	p := policy.New(config.TiersConfig{
		Free: config.TierConfig{
			AICreditsPerMonth:     freeCredits,
			PDFDownloadsPerMonth:  10,
			ResumeCreationsPerDay: 10,
		},
		Paid: config.TierConfig{
			CoverLetters:          true,
			VersionHistory:        true,
			AICreditsPerMonth:     -1,
			PDFDownloadsPerMonth:  -1,
			ResumeCreationsPerDay: -1,
		},
	})
	return gate.New(p, quota.NewMemoryLedger(), "/upgrade")
}

func newTestService(
	repo Repository,
	g *gate.Gate,
	gen Generator,
) *Service {
	return NewService(repo, g, gen)
}

func TestPropose(t *testing.T) {
	ctx := context.Background()

	t.Run("returns candidates without mutating the section", func(t *testing.T) {
		repo := newFakeRepository()
		repo.seed("r1", "summary", "original text")
		gen := &routerStub{candidates: []provider.Candidate{
			{ProviderID: "openai", Text: "polished one"},
			{ProviderID: "openai", Text: "polished two"},
		}}
		svc := newTestService(repo, newTestGate(5), gen)

		proposal, err := svc.Propose(ctx, "u1", policy.TierFree, "r1", "summary", "")
		if err != nil {
			t.Fatalf("propose: %v", err)
		}
		if len(proposal.Candidates) != 2 {
			t.Errorf("candidates = %d, want 2", len(proposal.Candidates))
		}
		if proposal.ID == "" {
			t.Error("proposal id should be set")
		}

		section, _ := repo.Get(ctx, "u1", "r1", "summary")
		if section.CurrentText != "original text" {
			t.Errorf("propose mutated section: %q", section.CurrentText)
		}
		if section.IsAIAuthored {
			t.Error("propose must not mark the section AI-authored")
		}
	})

	t.Run("denied when credits exhausted", func(t *testing.T) {
		repo := newFakeRepository()
		repo.seed("r1", "summary", "text")
		gen := &routerStub{candidates: []provider.Candidate{{Text: "x"}}}
		svc := newTestService(repo, newTestGate(1), gen)

		if _, err := svc.Propose(
			ctx, "u1", policy.TierFree, "r1", "summary", "",
		); err != nil {
			t.Fatalf("first propose: %v", err)
		}

		_, err := svc.Propose(ctx, "u1", policy.TierFree, "r1", "summary", "")
		d, ok := gate.AsDenial(err)
		if !ok {
			t.Fatalf("expected *Denial, got %v", err)
		}
		if d.Kind != gate.DenialQuota {
			t.Errorf("kind = %s, want quota_exceeded", d.Kind)
		}
		if gen.calls != 1 {
			t.Errorf("generator called %d times, want 1 (denied call skips it)", gen.calls)
		}
	})

	t.Run("provider failure keeps the spent credit", func(t *testing.T) {
		repo := newFakeRepository()
		repo.seed("r1", "summary", "text")
		gen := &routerStub{err: provider.ErrTimeout}
		g := newTestGate(2)
		svc := newTestService(repo, g, gen)

		_, err := svc.Propose(ctx, "u1", policy.TierFree, "r1", "summary", "")
		if !errors.Is(err, provider.ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}

		snap, err := g.Snapshot(ctx, "u1", policy.TierFree)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		for _, u := range snap.Resources {
			if u.Resource == quota.ResourceAICredits && u.Used != 1 {
				t.Errorf("ai_credits used = %d, want 1 (no refund)", u.Used)
			}
		}
	})

	t.Run("last propose wins", func(t *testing.T) {
		repo := newFakeRepository()
		repo.seed("r1", "summary", "text")
		gen := &routerStub{candidates: []provider.Candidate{{Text: "first"}}}
		svc := newTestService(repo, newTestGate(5), gen)

		first, err := svc.Propose(ctx, "u1", policy.TierFree, "r1", "summary", "")
		if err != nil {
			t.Fatalf("propose: %v", err)
		}

		gen.candidates = []provider.Candidate{{Text: "second"}}
		second, err := svc.Propose(ctx, "u1", policy.TierFree, "r1", "summary", "")
		if err != nil {
			t.Fatalf("propose: %v", err)
		}
		if first.ID == second.ID {
			t.Error("replacement proposal should get a new id")
		}

		_, pending, err := svc.Get(ctx, "u1", "r1", "summary")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if pending == nil || pending.ID != second.ID {
			t.Error("pending proposal should be the latest one")
		}
		if pending.Candidates[0].Text != "second" {
			t.Errorf("pending text = %q, want second", pending.Candidates[0].Text)
		}
	})

	t.Run("missing section fails before spending", func(t *testing.T) {
		repo := newFakeRepository()
		gen := &routerStub{candidates: []provider.Candidate{{Text: "x"}}}
		g := newTestGate(5)
		svc := newTestService(repo, g, gen)

		_, err := svc.Propose(ctx, "u1", policy.TierFree, "r1", "ghost", "")
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		snap, _ := g.Snapshot(ctx, "u1", policy.TierFree)
		for _, u := range snap.Resources {
			if u.Used != 0 {
				t.Errorf("%s used = %d, want 0", u.Resource, u.Used)
			}
		}
	})
}

func TestAcceptThenUndo(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.seed("r1", "summary", "my draft")
	svc := newTestService(repo, newTestGate(5), &routerStub{
		candidates: []provider.Candidate{{Text: "ai version"}},
	})

	if _, err := svc.Propose(
		ctx, "u1", policy.TierFree, "r1", "summary", "",
	); err != nil {
		t.Fatalf("propose: %v", err)
	}

	section, err := svc.Accept(ctx, "u1", "r1", "summary", "ai version")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if section.CurrentText != "ai version" {
		t.Errorf("current = %q, want ai version", section.CurrentText)
	}
	if !section.IsAIAuthored {
		t.Error("accepted section should be AI-authored")
	}
	if section.PreviousText == nil || *section.PreviousText != "my draft" {
		t.Error("undo slot should hold the replaced text")
	}

	// Accept discards the pending proposal.
	if _, pending, _ := svc.Get(ctx, "u1", "r1", "summary"); pending != nil {
		t.Error("accept should discard the pending proposal")
	}

	section, undone, err := svc.Undo(ctx, "u1", "r1", "summary")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !undone {
		t.Fatal("first undo should revert")
	}
	if section.CurrentText != "my draft" {
		t.Errorf("current after undo = %q, want my draft", section.CurrentText)
	}
	if section.IsAIAuthored {
		t.Error("undone section should not be AI-authored")
	}
	if section.PreviousText != nil {
		t.Error("undo slot should be cleared")
	}

	// Single-level: a second undo is a benign no-op.
	section, undone, err = svc.Undo(ctx, "u1", "r1", "summary")
	if err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if undone {
		t.Error("second undo should be a no-op")
	}
	if section.CurrentText != "my draft" {
		t.Errorf("second undo changed text: %q", section.CurrentText)
	}
}

func TestUndoAfterRepeatedAccepts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.seed("r1", "summary", "v0")
	svc := newTestService(repo, newTestGate(5), &routerStub{})

	if _, err := svc.Accept(ctx, "u1", "r1", "summary", "v1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Accept(ctx, "u1", "r1", "summary", "v2"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Only the most recent accept is revertible: undo restores v1, not v0.
	section, undone, err := svc.Undo(ctx, "u1", "r1", "summary")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !undone {
		t.Fatal("undo should revert")
	}
	if section.CurrentText != "v1" {
		t.Errorf("current = %q, want v1", section.CurrentText)
	}
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.seed("r1", "summary", "draft")
	svc := newTestService(repo, newTestGate(5), &routerStub{
		candidates: []provider.Candidate{{Text: "ai text"}},
	})

	if _, err := svc.Accept(ctx, "u1", "r1", "summary", "ai text"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Propose(
		ctx, "u1", policy.TierFree, "r1", "summary", "",
	); err != nil {
		t.Fatalf("propose: %v", err)
	}

	section, err := svc.Edit(ctx, "u1", "r1", "summary", "hand-written")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if section.CurrentText != "hand-written" {
		t.Errorf("current = %q, want hand-written", section.CurrentText)
	}
	if section.IsAIAuthored {
		t.Error("user edit should reset the AI flag")
	}
	if section.PreviousText != nil {
		t.Error("user edit should clear the undo slot")
	}

	if _, pending, _ := svc.Get(ctx, "u1", "r1", "summary"); pending != nil {
		t.Error("user edit should discard the pending proposal")
	}

	if _, undone, _ := svc.Undo(ctx, "u1", "r1", "summary"); undone {
		t.Error("undo after a user edit should be a no-op")
	}
}

func TestIsAIContent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.seed("r1", "summary", "draft")
	svc := newTestService(repo, newTestGate(5), &routerStub{})

	isAI, err := svc.IsAIContent(ctx, "u1", "r1", "summary")
	if err != nil {
		t.Fatalf("is ai content: %v", err)
	}
	if isAI {
		t.Error("fresh section should not be AI content")
	}

	if _, err := svc.Accept(ctx, "u1", "r1", "summary", "ai text"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	isAI, err = svc.IsAIContent(ctx, "u1", "r1", "summary")
	if err != nil {
		t.Fatalf("is ai content: %v", err)
	}
	if !isAI {
		t.Error("accepted section should be AI content")
	}
}
