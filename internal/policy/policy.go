// AngelaMos | 2026
// policy.go

package policy

import (
	"fmt"

	"github.com/carterperez-dev/resumeforge/internal/config"
)

// Tier is the closed set of subscription levels. Anything outside this
// enumeration is a programming error, not user input.
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

// ParseTier maps an externally-supplied tier string (token claim, admin
// input) onto the closed enumeration. Unknown values default to free so a
// stale or malformed claim can only under-grant, never over-grant.
func ParseTier(s string) Tier {
	if s == string(TierPaid) {
		return TierPaid
	}
	return TierFree
}

// Capability is a boolean-gated feature.
type Capability string

const (
	CapabilityCoverLetters        Capability = "cover_letters"
	CapabilityVersionHistory      Capability = "version_history"
	CapabilityResumeParsing       Capability = "resume_parsing"
	CapabilityPremiumTemplates    Capability = "premium_templates"
	CapabilityATSDetailedInsights Capability = "ats_detailed_insights"
)

// Limit is a per-period numeric cap. The unbounded case is an explicit
// marker rather than a sentinel integer, so a limit of 999999 and "no
// limit" can never be confused.
type Limit struct {
	n         int
	unbounded bool
}

func LimitOf(n int) Limit {
	if n < 0 {
		return Unlimited()
	}
	return Limit{n: n}
}

func Unlimited() Limit {
	return Limit{unbounded: true}
}

func (l Limit) IsUnlimited() bool {
	return l.unbounded
}

// Value returns the numeric cap. Calling it on an unlimited Limit is a
// programming error.
func (l Limit) Value() int {
	if l.unbounded {
		panic("policy: Value() called on unlimited Limit")
	}
	return l.n
}

// Record is the immutable capability and limit table for one tier.
type Record struct {
	Tier                Tier
	CoverLetters        bool
	VersionHistory      bool
	ResumeParsing       bool
	PremiumTemplates    bool
	ATSDetailedInsights bool
	WatermarkPDF        bool

	AICredits       Limit
	PDFDownloads    Limit
	ResumeCreations Limit

	FreeTemplates map[string]struct{}
}

func (r *Record) Has(c Capability) bool {
	switch c {
	case CapabilityCoverLetters:
		return r.CoverLetters
	case CapabilityVersionHistory:
		return r.VersionHistory
	case CapabilityResumeParsing:
		return r.ResumeParsing
	case CapabilityPremiumTemplates:
		return r.PremiumTemplates
	case CapabilityATSDetailedInsights:
		return r.ATSDetailedInsights
	default:
		panic(fmt.Sprintf("policy: unknown capability %q", c))
	}
}

// CapabilityMap returns the full flag table for dashboards.
func (r *Record) CapabilityMap() map[Capability]bool {
	return map[Capability]bool{
		CapabilityCoverLetters:        r.CoverLetters,
		CapabilityVersionHistory:      r.VersionHistory,
		CapabilityResumeParsing:       r.ResumeParsing,
		CapabilityPremiumTemplates:    r.PremiumTemplates,
		CapabilityATSDetailedInsights: r.ATSDetailedInsights,
	}
}

// Policy is the static tier table, built once at startup from config and
// never mutated afterwards.
type Policy struct {
	records map[Tier]*Record
}

func New(cfg config.TiersConfig) *Policy {
	return &Policy{
		records: map[Tier]*Record{
			TierFree: fromConfig(TierFree, cfg.Free),
			TierPaid: fromConfig(TierPaid, cfg.Paid),
		},
	}
}

func fromConfig(tier Tier, tc config.TierConfig) *Record {
	freeTemplates := make(map[string]struct{}, len(tc.FreeTemplates))
	for _, id := range tc.FreeTemplates {
		freeTemplates[id] = struct{}{}
	}

	return &Record{
		Tier:                tier,
		CoverLetters:        tc.CoverLetters,
		VersionHistory:      tc.VersionHistory,
		ResumeParsing:       tc.ResumeParsing,
		PremiumTemplates:    tc.PremiumTemplates,
		ATSDetailedInsights: tc.ATSDetailedInsights,
		WatermarkPDF:        tc.WatermarkPDF,
		AICredits:           LimitOf(tc.AICreditsPerMonth),
		PDFDownloads:        LimitOf(tc.PDFDownloadsPerMonth),
		ResumeCreations:     LimitOf(tc.ResumeCreationsPerDay),
		FreeTemplates:       freeTemplates,
	}
}

// LimitsFor is total over the Tier enumeration. An unknown tier means a
// caller bypassed ParseTier, so fail fast.
func (p *Policy) LimitsFor(tier Tier) *Record {
	rec, ok := p.records[tier]
	if !ok {
		panic(fmt.Sprintf("policy: unknown tier %q", tier))
	}
	return rec
}

// TemplateAvailable reports whether a template id is usable on a tier:
// premium tiers get everything, free tiers only the enumerated set.
func (p *Policy) TemplateAvailable(tier Tier, templateID string) bool {
	rec := p.LimitsFor(tier)
	if rec.PremiumTemplates {
		return true
	}
	_, ok := rec.FreeTemplates[templateID]
	return ok
}
