// AngelaMos | 2026
// repository.go

package resume

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/resumeforge/internal/core"
)

type Repository interface {
	Create(ctx context.Context, resume *Resume) error
	GetByID(ctx context.Context, userID, id string) (*Resume, error)
	List(ctx context.Context, userID string, params ListParams) ([]Resume, int, error)
	SoftDelete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID, id string) (*Stats, error)
	SectionNames(ctx context.Context, id string) ([]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, resume *Resume) error {
	query := `
		INSERT INTO resumes (id, user_id, title, template_id, source_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, resume, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.TemplateID,
		resume.SourceText,
	)
	if err != nil {
		return fmt.Errorf("create resume: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*Resume, error) {
	query := `
		SELECT id, user_id, title, template_id, source_text,
		       created_at, updated_at, deleted_at
		FROM resumes
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	var resume Resume
	err := r.db.GetContext(ctx, &resume, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get resume: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}

	return &resume, nil
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Resume, int, error) {
	params.Normalize()

	countQuery := `
		SELECT COUNT(*) FROM resumes
		WHERE user_id = $1 AND deleted_at IS NULL`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count resumes: %w", err)
	}

	query := `
		SELECT id, user_id, title, template_id, source_text,
		       created_at, updated_at, deleted_at
		FROM resumes
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var resumes []Resume
	err := r.db.SelectContext(
		ctx,
		&resumes,
		query,
		userID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list resumes: %w", err)
	}

	return resumes, total, nil
}

func (r *repository) SoftDelete(ctx context.Context, userID, id string) error {
	query := `
		UPDATE resumes
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete resume: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Stats(
	ctx context.Context,
	userID, id string,
) (*Stats, error) {
	if _, err := r.GetByID(ctx, userID, id); err != nil {
		return nil, err
	}

	query := `
		SELECT COUNT(*) AS section_count,
		       COALESCE(SUM(LENGTH(current_text)), 0) AS total_chars
		FROM content_sections
		WHERE resume_id = $1`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, id); err != nil {
		return nil, fmt.Errorf("resume stats: %w", err)
	}

	return &stats, nil
}

func (r *repository) SectionNames(
	ctx context.Context,
	id string,
) ([]string, error) {
	query := `
		SELECT section_name FROM content_sections
		WHERE resume_id = $1
		ORDER BY section_name`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, id); err != nil {
		return nil, fmt.Errorf("resume section names: %w", err)
	}

	return names, nil
}
