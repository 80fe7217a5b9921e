package analysis

import (
	"time"

	"github.com/google/uuid"
)

// SummaryUnavailable stands in for the word cloud when it could not be made.
const SummaryUnavailable = "unavailable"

// Report is the outcome of one duplicate check. Reports are never updated.
type Report struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SubmissionID uuid.UUID `json:"submission_id" db:"submission_id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	AuthorID     string    `json:"author_id" db:"author_id"`
	Fingerprint  string    `json:"fingerprint" db:"fingerprint"`
	IsDuplicate  bool      `json:"is_duplicate" db:"is_duplicate"`
	// OriginalSubmissionID is the earliest matching submission by another
	// author; set only when IsDuplicate.
	OriginalSubmissionID uuid.NullUUID `json:"original_submission_id" db:"original_submission_id"`
	WordCloudURL         string        `json:"word_cloud_url" db:"word_cloud_url"`
	AnalyzedAt           time.Time     `json:"analyzed_at" db:"analyzed_at"`
}
