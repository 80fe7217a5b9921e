package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"antiplagiarism/internal/errdefs"
	"antiplagiarism/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Submissions is the read side of the submission store, served in process by
// storage.Service and over HTTP by storage.Client.
type Submissions interface {
	GetMetadata(ctx context.Context, id uuid.UUID) (*storage.Submission, error)
	GetContent(ctx context.Context, id uuid.UUID) ([]byte, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*storage.Submission, error)
}

// ReportStore keeps reports in creation order.
type ReportStore interface {
	Append(ctx context.Context, report *Report) error
	Get(ctx context.Context, id uuid.UUID) (*Report, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*Report, error)
}

// SummaryGenerator renders a visual summary of text and returns its URL.
// Failures should wrap errdefs.ErrDependencyUnavailable.
type SummaryGenerator interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Publisher announces new reports to other systems.
type Publisher interface {
	PublishReport(ctx context.Context, report *Report) error
}

const (
	defaultPeerFetchLimit = 4
	defaultPublishTimeout = 2 * time.Second
)

type Detector struct {
	submissions Submissions
	reports     ReportStore
	summary     SummaryGenerator
	publisher   Publisher
	log         *slog.Logger
	now         func() time.Time
	fetchLimit  int

	publishTimeout time.Duration
}

type Option func(*Detector)

func WithSummaryGenerator(g SummaryGenerator) Option {
	return func(d *Detector) { d.summary = g }
}

func WithPublisher(p Publisher) Option {
	return func(d *Detector) { d.publisher = p }
}

// WithPeerFetchLimit bounds how many peer contents are fetched at once when
// a peer has no recorded checksum.
func WithPeerFetchLimit(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.fetchLimit = n
		}
	}
}

// WithPublishTimeout caps how long Analyze waits for the publisher after the
// report is saved.
func WithPublishTimeout(d time.Duration) Option {
	return func(det *Detector) {
		if d > 0 {
			det.publishTimeout = d
		}
	}
}

func NewDetector(submissions Submissions, reports ReportStore, log *slog.Logger, opts ...Option) *Detector {
	d := &Detector{
		submissions: submissions,
		reports:     reports,
		log:         log,
		now:         time.Now,
		fetchLimit:  defaultPeerFetchLimit,

		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze checks one submission against everything stored for its
// assignment and records the result. Lookup failures of the submission
// itself abort without a report.
func (d *Detector) Analyze(ctx context.Context, submissionID uuid.UUID) (*Report, error) {
	sub, err := d.submissions.GetMetadata(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", submissionID, err)
	}
	content, err := d.submissions.GetContent(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load content of %s: %w", submissionID, err)
	}

	fingerprint := Fingerprint(content)

	peers, err := d.submissions.ListByAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("list submissions of %s: %w", sub.AssignmentID, err)
	}

	original, err := d.findOriginal(ctx, sub, fingerprint, peers)
	if err != nil {
		return nil, err
	}

	reportID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate report id: %w", err)
	}
	report := &Report{
		ID:           reportID,
		SubmissionID: sub.ID,
		AssignmentID: sub.AssignmentID,
		AuthorID:     sub.AuthorID,
		Fingerprint:  fingerprint,
		IsDuplicate:  original != nil,
		WordCloudURL: d.summarize(ctx, sub.ID, content),
		AnalyzedAt:   d.now().UTC(),
	}
	if original != nil {
		report.OriginalSubmissionID = uuid.NullUUID{UUID: original.ID, Valid: true}
	}

	if err := d.reports.Append(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	d.log.Info("submission analyzed",
		"report_id", report.ID,
		"submission_id", report.SubmissionID,
		"assignment_id", report.AssignmentID,
		"is_duplicate", report.IsDuplicate,
	)

	d.publish(ctx, report)
	return report, nil
}

func (d *Detector) publish(ctx context.Context, report *Report) {
	if d.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.publishTimeout)
	defer cancel()
	if err := d.publisher.PublishReport(ctx, report); err != nil {
		d.log.Warn("failed to publish report", "report_id", report.ID, "err", err)
	}
}

// Report returns a single report by id.
func (d *Detector) Report(ctx context.Context, id uuid.UUID) (*Report, error) {
	return d.reports.Get(ctx, id)
}

// ReportsForAssignment returns every report of the assignment in creation
// order.
func (d *Detector) ReportsForAssignment(ctx context.Context, assignmentID string) ([]*Report, error) {
	return d.reports.ListByAssignment(ctx, assignmentID)
}

// findOriginal returns the earliest peer by another author whose content has
// the given fingerprint, or nil. The analyzed submission never matches
// itself, and resubmissions by the same author are not counted.
func (d *Detector) findOriginal(ctx context.Context, sub *storage.Submission, fingerprint string, peers []*storage.Submission) (*storage.Submission, error) {
	candidates := make([]*storage.Submission, 0, len(peers))
	for _, peer := range peers {
		if peer.ID == sub.ID || peer.AuthorID == sub.AuthorID {
			continue
		}
		candidates = append(candidates, peer)
	}

	fingerprints, err := d.peerFingerprints(ctx, candidates)
	if err != nil {
		return nil, err
	}

	var original *storage.Submission
	for i, peer := range candidates {
		if fingerprints[i] != fingerprint {
			continue
		}
		if original == nil || submittedBefore(peer, original) {
			original = peer
		}
	}
	return original, nil
}

// peerFingerprints uses recorded checksums and fetches content only for
// peers without one. Peers whose content cannot be read are skipped.
func (d *Detector) peerFingerprints(ctx context.Context, peers []*storage.Submission) ([]string, error) {
	fingerprints := make([]string, len(peers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.fetchLimit)
	for i, peer := range peers {
		if peer.Checksum != "" {
			fingerprints[i] = peer.Checksum
			continue
		}
		i, peer := i, peer
		g.Go(func() error {
			content, err := d.submissions.GetContent(gctx, peer.ID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				d.log.Warn("skipping unreadable peer", "submission_id", peer.ID, "err", err)
				return nil
			}
			fingerprints[i] = Fingerprint(content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fingerprint peers: %w", err)
	}
	return fingerprints, nil
}

func (d *Detector) summarize(ctx context.Context, submissionID uuid.UUID, content []byte) string {
	if d.summary == nil {
		return SummaryUnavailable
	}
	url, err := d.summary.Summarize(ctx, string(content))
	if err != nil {
		if errors.Is(err, errdefs.ErrDependencyUnavailable) {
			d.log.Warn("summary unavailable", "submission_id", submissionID, "err", err)
		} else {
			d.log.Error("summary failed", "submission_id", submissionID, "err", err)
		}
		return SummaryUnavailable
	}
	return url
}

func submittedBefore(a, b *storage.Submission) bool {
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.Before(b.UploadedAt)
	}
	return a.ID.String() < b.ID.String()
}
