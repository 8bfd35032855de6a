// AngelaMos | 2026
// dto.go

package resume

import (
	"time"

	"github.com/carterperez-dev/resumeforge/internal/quota"
)

type CreateResumeRequest struct {
	Title      string `json:"title"       validate:"required,min=1,max=255"`
	TemplateID string `json:"template_id" validate:"required,min=1,max=64"`
}

type ImportResumeRequest struct {
	Title   string `json:"title"    validate:"required,min=1,max=255"`
	RawText string `json:"raw_text" validate:"required,max=100000"`
}

type ResumeResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"template_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateResumeResponse struct {
	ResumeResponse
	CreationsRemaining int  `json:"creations_remaining"`
	Unlimited          bool `json:"unlimited"`
}

// DownloadGrant authorizes one PDF export. Rendering happens in the
// export pipeline; this core only decides whether the download is
// allowed and whether it carries the free-tier watermark.
type DownloadGrant struct {
	GrantID   string      `json:"grant_id"`
	ResumeID  string      `json:"resume_id"`
	Watermark bool        `json:"watermark"`
	Usage     quota.Usage `json:"usage"`
}

type ATSReport struct {
	ResumeID string      `json:"resume_id"`
	Score    int         `json:"score"`
	Details  *ATSDetails `json:"details,omitempty"`
}

// ATSDetails carries the per-field breakdown reserved for tiers with the
// detailed-insights capability.
type ATSDetails struct {
	SectionCount    int      `json:"section_count"`
	TotalChars      int      `json:"total_chars"`
	MissingSections []string `json:"missing_sections"`
}

type ListParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToResumeResponse(r *Resume) ResumeResponse {
	return ResumeResponse{
		ID:         r.ID,
		Title:      r.Title,
		TemplateID: r.TemplateID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func ToResumeResponseList(resumes []Resume) []ResumeResponse {
	responses := make([]ResumeResponse, 0, len(resumes))
	for _, r := range resumes {
		responses = append(responses, ToResumeResponse(&r))
	}
	return responses
}
