package storage

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the metadata of one uploaded file. The bytes live in the
// blob store under Checksum.
type Submission struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	AuthorID     string    `json:"author_id" db:"author_id"`
	OriginalName string    `json:"original_name" db:"original_name"`
	Checksum     string    `json:"checksum" db:"checksum"`
	Size         int64     `json:"size" db:"size"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}
