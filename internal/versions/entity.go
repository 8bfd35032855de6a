// AngelaMos | 2026
// entity.go

package versions

import (
	"time"

	"github.com/carterperez-dev/resumeforge/internal/provider"
)

// Section is one editable region of a resume ("professional_summary", a
// responsibility bullet, ...). It carries the adopted text plus exactly
// one level of undo: PreviousText holds the value the last accept
// replaced, and is cleared by undo or by a direct user edit.
type Section struct {
	ID           string    `db:"id"`
	ResumeID     string    `db:"resume_id"`
	Name         string    `db:"section_name"`
	CurrentText  string    `db:"current_text"`
	PreviousText *string   `db:"previous_text"`
	IsAIAuthored bool      `db:"is_ai_authored"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CanUndo reports whether the last accept is still revertible.
func (s *Section) CanUndo() bool {
	return s.IsAIAuthored && s.PreviousText != nil
}

// Proposal is the ephemeral candidate list from one propose call. A new
// propose for the same section replaces it; accept or a user edit
// discards it. Never persisted.
type Proposal struct {
	ID         string               `json:"id"`
	ResumeID   string               `json:"resume_id"`
	Section    string               `json:"section"`
	Candidates []provider.Candidate `json:"candidates"`
	CreatedAt  time.Time            `json:"created_at"`
}
