package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"antiplagiarism/internal/errdefs"

	"github.com/google/uuid"
)

// MemoryIndex keeps submission metadata in process memory. Safe for
// concurrent use.
type MemoryIndex struct {
	mu           sync.RWMutex
	byID         map[uuid.UUID]Submission
	byAssignment map[string][]uuid.UUID
	now          func() time.Time
	last         time.Time
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		byID:         make(map[uuid.UUID]Submission),
		byAssignment: make(map[string][]uuid.UUID),
		now:          time.Now,
	}
}

// Insert stamps UploadedAt and makes the submission visible. Stamps never go
// backwards, even if the wall clock does.
func (m *MemoryIndex) Insert(_ context.Context, sub *Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[sub.ID]; ok {
		return fmt.Errorf("submission %s already indexed", sub.ID)
	}

	uploadedAt := m.now().UTC()
	if uploadedAt.Before(m.last) {
		uploadedAt = m.last
	}
	m.last = uploadedAt
	sub.UploadedAt = uploadedAt

	m.byID[sub.ID] = *sub
	m.byAssignment[sub.AssignmentID] = append(m.byAssignment[sub.AssignmentID], sub.ID)
	return nil
}

func (m *MemoryIndex) Get(_ context.Context, id uuid.UUID) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, errdefs.ErrNotFound)
	}
	return &sub, nil
}

// ListByAssignment returns submissions in insertion order, which is also
// UploadedAt order.
func (m *MemoryIndex) ListByAssignment(_ context.Context, assignmentID string) ([]*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byAssignment[assignmentID]
	subs := make([]*Submission, 0, len(ids))
	for _, id := range ids {
		sub := m.byID[id]
		subs = append(subs, &sub)
	}
	return subs, nil
}

var _ Index = (*MemoryIndex)(nil)
