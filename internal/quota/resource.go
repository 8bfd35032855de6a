// AngelaMos | 2026
// resource.go

package quota

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/resumeforge/internal/policy"
)

// Resource is a countable, per-period metered action.
type Resource string

const (
	ResourceAICredits       Resource = "ai_credits"
	ResourcePDFDownloads    Resource = "pdf_downloads"
	ResourceResumeCreations Resource = "resume_creations"
)

// Period is the rolling-window length of a resource. The window is a
// property of the resource, not of the tier.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodDaily   Period = "daily"
)

func (r Resource) Period() Period {
	switch r {
	case ResourceAICredits, ResourcePDFDownloads:
		return PeriodMonthly
	case ResourceResumeCreations:
		return PeriodDaily
	default:
		panic(fmt.Sprintf("quota: unknown resource %q", r))
	}
}

// Limit looks up the resource's cap in a tier record.
func (r Resource) Limit(rec *policy.Record) policy.Limit {
	switch r {
	case ResourceAICredits:
		return rec.AICredits
	case ResourcePDFDownloads:
		return rec.PDFDownloads
	case ResourceResumeCreations:
		return rec.ResumeCreations
	default:
		panic(fmt.Sprintf("quota: unknown resource %q", r))
	}
}

// Resources lists every metered resource, in stable order for status
// displays.
func Resources() []Resource {
	return []Resource{
		ResourceAICredits,
		ResourcePDFDownloads,
		ResourceResumeCreations,
	}
}

// PeriodKey is a pure function of wall time and the resource's period
// length. A new key simply starts a fresh counter, which is how rollover
// happens without any reset job. Always UTC.
func PeriodKey(r Resource, now time.Time) string {
	now = now.UTC()
	switch r.Period() {
	case PeriodMonthly:
		return now.Format("2006-01")
	case PeriodDaily:
		return now.Format("2006-01-02")
	default:
		panic(fmt.Sprintf("quota: unknown period for resource %q", r))
	}
}

// PeriodEnd returns the instant the current period rolls over.
func PeriodEnd(r Resource, now time.Time) time.Time {
	now = now.UTC()
	switch r.Period() {
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 1, 0)
	case PeriodDaily:
		return time.Date(
			now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC,
		).AddDate(0, 0, 1)
	default:
		panic(fmt.Sprintf("quota: unknown period for resource %q", r))
	}
}

func counterKey(userID string, r Resource, periodKey string) string {
	return fmt.Sprintf("quota:%s:%s:%s", userID, r, periodKey)
}
