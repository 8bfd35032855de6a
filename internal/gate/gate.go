// AngelaMos | 2026
// gate.go

package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/quota"
)

// DenialKind distinguishes the two ways a feature request can be turned
// down. Both share the Denial shape so calling code stays uniform, but
// callers can render different messaging for each.
type DenialKind string

const (
	// DenialCapability: the tier lacks the boolean capability flag.
	DenialCapability DenialKind = "capability_denied"
	// DenialQuota: the tier has the feature but the period counter is
	// exhausted.
	DenialQuota DenialKind = "quota_exceeded"
)

// Denial is a policy-driven refusal. Terminal for the request; never
// retried by the system itself.
type Denial struct {
	Kind        DenialKind        `json:"kind"`
	Capability  policy.Capability `json:"feature,omitempty"`
	Resource    quota.Resource    `json:"resource,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Used        int               `json:"used,omitempty"`
	UpgradeHint string            `json:"upgrade_hint"`
}

func (d *Denial) Error() string {
	switch d.Kind {
	case DenialQuota:
		return fmt.Sprintf(
			"quota exceeded for %s (used %d of %d)",
			d.Resource,
			d.Used,
			d.Limit,
		)
	default:
		return fmt.Sprintf("capability %s not available on this plan", d.Capability)
	}
}

// Gate combines the static tier policy with the quota ledger into a
// single approval decision per request.
type Gate struct {
	policy      *policy.Policy
	ledger      quota.Ledger
	upgradeHint string
}

func New(p *policy.Policy, ledger quota.Ledger, upgradeHint string) *Gate {
	return &Gate{
		policy:      p,
		ledger:      ledger,
		upgradeHint: upgradeHint,
	}
}

// Check approves or denies a boolean-gated capability. Returns nil when
// allowed, a *Denial when the tier lacks the flag.
func (g *Gate) Check(tier policy.Tier, c policy.Capability) error {
	if g.policy.LimitsFor(tier).Has(c) {
		return nil
	}

	return &Denial{
		Kind:        DenialCapability,
		Capability:  c,
		UpgradeHint: g.upgradeHint,
	}
}

// ConsumeMetered spends one unit of a metered resource. A quota
// exhaustion comes back as a *Denial so handlers treat both refusal
// kinds through one type; infrastructure errors pass through unchanged.
func (g *Gate) ConsumeMetered(
	ctx context.Context,
	userID string,
	tier policy.Tier,
	resource quota.Resource,
) (quota.Usage, error) {
	rec := g.policy.LimitsFor(tier)

	usage, err := g.ledger.Consume(ctx, userID, resource, rec)
	if err != nil {
		var exceeded *quota.ExceededError
		if errors.As(err, &exceeded) {
			return quota.Usage{}, &Denial{
				Kind:        DenialQuota,
				Resource:    exceeded.Resource,
				Limit:       exceeded.Limit,
				Used:        exceeded.Used,
				UpgradeHint: g.upgradeHint,
			}
		}
		return quota.Usage{}, err
	}

	return usage, nil
}

// CheckTemplate approves a template id for a tier: unlimited-template
// tiers get everything, others only their enumerated free set.
func (g *Gate) CheckTemplate(tier policy.Tier, templateID string) error {
	if g.policy.TemplateAvailable(tier, templateID) {
		return nil
	}

	return &Denial{
		Kind:        DenialCapability,
		Capability:  policy.CapabilityPremiumTemplates,
		UpgradeHint: g.upgradeHint,
	}
}

// Watermark reports whether PDF exports for the tier carry a watermark.
func (g *Gate) Watermark(tier policy.Tier) bool {
	return g.policy.LimitsFor(tier).WatermarkPDF
}

// Snapshot assembles the full metering state for one user: every
// resource counter plus the tier's capability map. Non-mutating.
func (g *Gate) Snapshot(
	ctx context.Context,
	userID string,
	tier policy.Tier,
) (Snapshot, error) {
	rec := g.policy.LimitsFor(tier)

	usages := make([]quota.Usage, 0, len(quota.Resources()))
	for _, r := range quota.Resources() {
		u, err := g.ledger.Peek(ctx, userID, r, rec)
		if err != nil {
			return Snapshot{}, err
		}
		usages = append(usages, u)
	}

	return Snapshot{
		Tier:         tier,
		Resources:    usages,
		Capabilities: rec.CapabilityMap(),
		WatermarkPDF: rec.WatermarkPDF,
	}, nil
}

// Snapshot is the dashboard view of a user's entitlements.
type Snapshot struct {
	Tier         policy.Tier                `json:"tier"`
	Resources    []quota.Usage              `json:"resources"`
	Capabilities map[policy.Capability]bool `json:"capabilities"`
	WatermarkPDF bool                       `json:"watermark_pdf"`
}

// AsDenial unwraps a *Denial from an error chain.
func AsDenial(err error) (*Denial, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
