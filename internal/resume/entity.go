// AngelaMos | 2026
// entity.go

package resume

import (
	"time"
)

type Resume struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Title      string     `db:"title"`
	TemplateID string     `db:"template_id"`
	SourceText *string    `db:"source_text"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

func (r *Resume) IsDeleted() bool {
	return r.DeletedAt != nil
}

// Stats summarizes a resume's content for ATS scoring.
type Stats struct {
	SectionCount int `db:"section_count"`
	TotalChars   int `db:"total_chars"`
}
