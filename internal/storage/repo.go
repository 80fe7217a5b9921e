package storage

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

// Repository is the PostgreSQL Index.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

func (r *Repository) Insert(ctx context.Context, sub *Submission) error {
	const query = `
	INSERT INTO submissions (id, assignment_id, author_id, original_name, checksum, size)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING uploaded_at;`

	row := r.pool.QueryRow(ctx, query, sub.ID, sub.AssignmentID, sub.AuthorID, sub.OriginalName, sub.Checksum, sub.Size)
	if err := row.Scan(&sub.UploadedAt); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	const query = `
	SELECT id, assignment_id, author_id, original_name, checksum, size, uploaded_at
	FROM submissions
	WHERE id = $1;`

	var sub Submission
	if err := pgxscan.Get(ctx, r.pool, &sub, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("submission %s: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}

func (r *Repository) ListByAssignment(ctx context.Context, assignmentID string) ([]*Submission, error) {
	const query = `
	SELECT id, assignment_id, author_id, original_name, checksum, size, uploaded_at
	FROM submissions
	WHERE assignment_id = $1
	ORDER BY uploaded_at, id;`

	subs := []*Submission{}
	if err := pgxscan.Select(ctx, r.pool, &subs, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

var _ Index = (*Repository)(nil)
