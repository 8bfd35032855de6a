// AngelaMos | 2026
// repository.go

package versions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/resumeforge/internal/core"
)

// Repository persists content sections. Every query is scoped to the
// owning user through the parent resume, so a section can never be read
// or mutated across account boundaries.
type Repository interface {
	Get(
		ctx context.Context,
		userID, resumeID, name string,
	) (*Section, error)
	Upsert(
		ctx context.Context,
		userID, resumeID, name, text string,
	) (*Section, error)
	Accept(
		ctx context.Context,
		userID, resumeID, name, candidate string,
	) (*Section, error)
	Undo(ctx context.Context, userID, resumeID, name string) (*Section, error)
}

// ErrNoUndo marks an undo attempt on a section whose undo slot is empty.
// Benign; handlers report it as a no-op, not a failure.
var ErrNoUndo = errors.New("nothing to undo")

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const ownedResume = `SELECT id FROM resumes
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

func (r *repository) Get(
	ctx context.Context,
	userID, resumeID, name string,
) (*Section, error) {
	query := `
		SELECT id, resume_id, section_name, current_text, previous_text,
		       is_ai_authored, created_at, updated_at
		FROM content_sections
		WHERE resume_id IN (` + ownedResume + `)
		  AND section_name = $3`

	var section Section
	err := r.db.GetContext(ctx, &section, query, resumeID, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get section: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}

	return &section, nil
}

// Upsert records a user-authored write. It resets the AI flag and the
// undo slot: a manual edit is the new baseline.
func (r *repository) Upsert(
	ctx context.Context,
	userID, resumeID, name, text string,
) (*Section, error) {
	query := `
		INSERT INTO content_sections
			(id, resume_id, section_name, current_text)
		SELECT $4, owned.id, $3, $5
		FROM (` + ownedResume + `) AS owned
		ON CONFLICT (resume_id, section_name) DO UPDATE
		SET current_text = EXCLUDED.current_text,
		    previous_text = NULL,
		    is_ai_authored = FALSE,
		    updated_at = NOW()
		RETURNING id, resume_id, section_name, current_text, previous_text,
		          is_ai_authored, created_at, updated_at`

	var section Section
	err := r.db.GetContext(
		ctx,
		&section,
		query,
		resumeID,
		userID,
		name,
		uuid.New().String(),
		text,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upsert section: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert section: %w", err)
	}

	return &section, nil
}

// Accept adopts a candidate in a single UPDATE so the swap of
// current_text into previous_text is atomic at the row level.
func (r *repository) Accept(
	ctx context.Context,
	userID, resumeID, name, candidate string,
) (*Section, error) {
	query := `
		UPDATE content_sections
		SET previous_text = current_text,
		    current_text = $4,
		    is_ai_authored = TRUE,
		    updated_at = NOW()
		WHERE resume_id IN (` + ownedResume + `)
		  AND section_name = $3
		RETURNING id, resume_id, section_name, current_text, previous_text,
		          is_ai_authored, created_at, updated_at`

	var section Section
	err := r.db.GetContext(
		ctx,
		&section,
		query,
		resumeID,
		userID,
		name,
		candidate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("accept section: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("accept section: %w", err)
	}

	return &section, nil
}

// Undo reverts the last accept in a single guarded UPDATE; the WHERE
// clause only matches when the undo slot is live, so a double undo
// cannot fire. No matching row means either the slot is empty (ErrNoUndo)
// or the section does not exist (ErrNotFound); a follow-up read tells
// the two apart.
func (r *repository) Undo(
	ctx context.Context,
	userID, resumeID, name string,
) (*Section, error) {
	query := `
		UPDATE content_sections
		SET current_text = previous_text,
		    previous_text = NULL,
		    is_ai_authored = FALSE,
		    updated_at = NOW()
		WHERE resume_id IN (` + ownedResume + `)
		  AND section_name = $3
		  AND is_ai_authored
		  AND previous_text IS NOT NULL
		RETURNING id, resume_id, section_name, current_text, previous_text,
		          is_ai_authored, created_at, updated_at`

	var section Section
	err := r.db.GetContext(ctx, &section, query, resumeID, userID, name)
	if err == nil {
		return &section, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("undo section: %w", err)
	}

	existing, getErr := r.Get(ctx, userID, resumeID, name)
	if getErr != nil {
		return nil, getErr
	}

	return existing, ErrNoUndo
}
