package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"antiplagiarism/internal/blob"
	"antiplagiarism/internal/errdefs"

	"github.com/google/uuid"
)

// Index holds submission metadata. Insert is the moment a submission becomes
// visible; it must set UploadedAt.
type Index interface {
	Insert(ctx context.Context, sub *Submission) error
	Get(ctx context.Context, id uuid.UUID) (*Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*Submission, error)
}

// Service is the submission store: content goes to a blob store keyed by
// checksum, metadata to an Index.
type Service struct {
	blobs blob.Store
	index Index
	log   *slog.Logger
}

func NewService(blobs blob.Store, index Index, log *slog.Logger) *Service {
	return &Service{
		blobs: blobs,
		index: index,
		log:   log,
	}
}

// Checksum is the SHA-256 of content in lowercase hex.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Store persists content and then indexes its metadata. Nothing is indexed
// unless the bytes were written.
func (s *Service) Store(ctx context.Context, assignmentID, authorID, originalName string, content []byte) (*Submission, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("content is empty: %w", errdefs.ErrInvalidInput)
	}
	if strings.TrimSpace(assignmentID) == "" || strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("assignment_id and author_id are required: %w", errdefs.ErrInvalidInput)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	checksum := Checksum(content)
	if err := s.blobs.Put(ctx, checksum, content); err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}

	sub := &Submission{
		ID:           id,
		AssignmentID: assignmentID,
		AuthorID:     authorID,
		OriginalName: originalName,
		Checksum:     checksum,
		Size:         int64(len(content)),
	}
	if err := s.index.Insert(ctx, sub); err != nil {
		return nil, fmt.Errorf("index submission: %w", err)
	}

	s.log.Info("submission stored",
		"id", sub.ID,
		"assignment_id", sub.AssignmentID,
		"author_id", sub.AuthorID,
		"size", sub.Size,
	)
	return sub, nil
}

func (s *Service) GetMetadata(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.index.Get(ctx, id)
}

// GetContent returns the stored bytes. Indexed submissions whose bytes are
// gone or no longer match their checksum fail with ErrStorageCorrupted.
func (s *Service) GetContent(ctx context.Context, id uuid.UUID) ([]byte, error) {
	sub, err := s.index.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.blobs.Get(ctx, sub.Checksum)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			s.log.Error("submission content missing", "id", id, "checksum", sub.Checksum)
			return nil, fmt.Errorf("submission %s: content missing: %w", id, errdefs.ErrStorageCorrupted)
		}
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) != sub.Size || Checksum(data) != sub.Checksum {
		s.log.Error("submission content checksum mismatch", "id", id, "checksum", sub.Checksum)
		return nil, fmt.Errorf("submission %s: checksum mismatch: %w", id, errdefs.ErrStorageCorrupted)
	}
	return data, nil
}

func (s *Service) ListByAssignment(ctx context.Context, assignmentID string) ([]*Submission, error) {
	return s.index.ListByAssignment(ctx, assignmentID)
}
