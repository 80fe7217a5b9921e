package analysis

import (
	"context"
	"errors"
	"fmt"

	"antiplagiarism/internal/errdefs"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL ReportStore. Creation order is the seq column.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Append(ctx context.Context, report *Report) error {
	const query = `
	INSERT INTO reports (id, submission_id, assignment_id, author_id, fingerprint,
	                     is_duplicate, original_submission_id, word_cloud_url, analyzed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.SubmissionID,
		report.AssignmentID,
		report.AuthorID,
		report.Fingerprint,
		report.IsDuplicate,
		report.OriginalSubmissionID,
		report.WordCloudURL,
		report.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	const query = `
	SELECT id, submission_id, assignment_id, author_id, fingerprint,
	       is_duplicate, original_submission_id, word_cloud_url, analyzed_at
	FROM reports
	WHERE id = $1;`

	var report Report
	if err := pgxscan.Get(ctx, r.pool, &report, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (r *Repository) ListByAssignment(ctx context.Context, assignmentID string) ([]*Report, error) {
	const query = `
	SELECT id, submission_id, assignment_id, author_id, fingerprint,
	       is_duplicate, original_submission_id, word_cloud_url, analyzed_at
	FROM reports
	WHERE assignment_id = $1
	ORDER BY seq;`

	reports := []*Report{}
	if err := pgxscan.Select(ctx, r.pool, &reports, query, assignmentID); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

var _ ReportStore = (*Repository)(nil)
