package analysis

import (
	"context"
	"fmt"
	"sync"

	"antiplagiarism/internal/errdefs"

	"github.com/google/uuid"
)

// MemoryReports is an append-only in-process ReportStore.
type MemoryReports struct {
	mu           sync.RWMutex
	reports      []Report
	byID         map[uuid.UUID]int
	byAssignment map[string][]int
}

func NewMemoryReports() *MemoryReports {
	return &MemoryReports{
		byID:         make(map[uuid.UUID]int),
		byAssignment: make(map[string][]int),
	}
}

func (m *MemoryReports) Append(_ context.Context, report *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[report.ID]; ok {
		return fmt.Errorf("report %s already exists", report.ID)
	}
	m.reports = append(m.reports, *report)
	idx := len(m.reports) - 1
	m.byID[report.ID] = idx
	m.byAssignment[report.AssignmentID] = append(m.byAssignment[report.AssignmentID], idx)
	return nil
}

func (m *MemoryReports) Get(_ context.Context, id uuid.UUID) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, errdefs.ErrNotFound)
	}
	report := m.reports[idx]
	return &report, nil
}

func (m *MemoryReports) ListByAssignment(_ context.Context, assignmentID string) ([]*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	indexes := m.byAssignment[assignmentID]
	reports := make([]*Report, 0, len(indexes))
	for _, idx := range indexes {
		report := m.reports[idx]
		reports = append(reports, &report)
	}
	return reports, nil
}

var _ ReportStore = (*MemoryReports)(nil)
