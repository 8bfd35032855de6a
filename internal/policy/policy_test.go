// AngelaMos | 2026
// policy_test.go

package policy

import (
	"testing"

	"github.com/carterperez-dev/resumeforge/internal/config"
)

func testTiersConfig() config.TiersConfig {
	return config.TiersConfig{
		Free: config.TierConfig{
			WatermarkPDF:          true,
			AICreditsPerMonth:     5,
			PDFDownloadsPerMonth:  10,
			ResumeCreationsPerDay: 10,
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
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input string
		want  Tier
	}{
		{"free", TierFree},
		{"paid", TierPaid},
		{"", TierFree},
		{"enterprise", TierFree},
		{"PAID", TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseTier(tt.input); got != tt.want {
				t.Errorf("ParseTier(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		l := LimitOf(5)
		if l.IsUnlimited() {
			t.Fatal("LimitOf(5) reported unlimited")
		}
		if l.Value() != 5 {
			t.Errorf("Value() = %d, want 5", l.Value())
		}
	})

	t.Run("zero is bounded", func(t *testing.T) {
		l := LimitOf(0)
		if l.IsUnlimited() {
			t.Fatal("LimitOf(0) reported unlimited")
		}
		if l.Value() != 0 {
			t.Errorf("Value() = %d, want 0", l.Value())
		}
	})

	t.Run("negative means unlimited", func(t *testing.T) {
		if !LimitOf(-1).IsUnlimited() {
			t.Error("LimitOf(-1) should be unlimited")
		}
	})

	t.Run("value panics on unlimited", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic from Value() on unlimited Limit")
			}
		}()
		Unlimited().Value()
	})
}

func TestRecordHas(t *testing.T) {
	p := New(testTiersConfig())

	free := p.LimitsFor(TierFree)
	paid := p.LimitsFor(TierPaid)

	for _, c := range []Capability{
		CapabilityCoverLetters,
		CapabilityVersionHistory,
		CapabilityResumeParsing,
		CapabilityPremiumTemplates,
		CapabilityATSDetailedInsights,
	} {
		if free.Has(c) {
			t.Errorf("free tier should not have %s", c)
		}
		if !paid.Has(c) {
			t.Errorf("paid tier should have %s", c)
		}
	}
}

func TestRecordHas_UnknownCapabilityPanics(t *testing.T) {
	p := New(testTiersConfig())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown capability")
		}
	}()
	p.LimitsFor(TierFree).Has(Capability("teleportation"))
}

func TestLimitsFor_UnknownTierPanics(t *testing.T) {
	p := New(testTiersConfig())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown tier")
		}
	}()
	p.LimitsFor(Tier("enterprise"))
}

func TestLimitsFromConfig(t *testing.T) {
	p := New(testTiersConfig())

	free := p.LimitsFor(TierFree)
	if free.AICredits.Value() != 5 {
		t.Errorf("free AI credits = %d, want 5", free.AICredits.Value())
	}
	if free.PDFDownloads.Value() != 10 {
		t.Errorf("free PDF downloads = %d, want 10", free.PDFDownloads.Value())
	}
	if !free.WatermarkPDF {
		t.Error("free tier should watermark PDFs")
	}

	paid := p.LimitsFor(TierPaid)
	if !paid.AICredits.IsUnlimited() {
		t.Error("paid AI credits should be unlimited")
	}
	if !paid.ResumeCreations.IsUnlimited() {
		t.Error("paid resume creations should be unlimited")
	}
	if paid.WatermarkPDF {
		t.Error("paid tier should not watermark PDFs")
	}
}

func TestTemplateAvailable(t *testing.T) {
	p := New(testTiersConfig())

	tests := []struct {
		name       string
		tier       Tier
		templateID string
		want       bool
	}{
		{"free gets classic", TierFree, "classic", true},
		{"free gets minimal", TierFree, "minimal", true},
		{"free denied premium", TierFree, "executive", false},
		{"paid gets premium", TierPaid, "executive", true},
		{"paid gets free set too", TierPaid, "classic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.TemplateAvailable(tt.tier, tt.templateID)
			if got != tt.want {
				t.Errorf(
					"TemplateAvailable(%s, %q) = %v, want %v",
					tt.tier, tt.templateID, got, tt.want,
				)
			}
		})
	}
}

func TestCapabilityMap(t *testing.T) {
	p := New(testTiersConfig())

	m := p.LimitsFor(TierPaid).CapabilityMap()
	if len(m) != 5 {
		t.Fatalf("capability map has %d entries, want 5", len(m))
	}
	for c, enabled := range m {
		if !enabled {
			t.Errorf("paid capability %s should be enabled", c)
		}
	}
}
