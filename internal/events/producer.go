// Package events publishes analysis reports to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"antiplagiarism/internal/analysis"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
	Topic   string
}

// ReportCreatedEvent is the message body for one new report.
type ReportCreatedEvent struct {
	ReportID             string    `json:"report_id"`
	SubmissionID         string    `json:"submission_id"`
	AssignmentID         string    `json:"assignment_id"`
	AuthorID             string    `json:"author_id"`
	IsDuplicate          bool      `json:"is_duplicate"`
	OriginalSubmissionID *string   `json:"original_submission_id,omitempty"`
	AnalyzedAt           time.Time `json:"analyzed_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka producer requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka producer requires a topic")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		// one report per write; do not wait for a batch to fill
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 2 * time.Second,
		MaxAttempts:  3,
	}
	return &Producer{writer: writer}, nil
}

// PublishReport sends the report keyed by assignment, so one assignment's
// reports stay in order on a single partition.
func (p *Producer) PublishReport(ctx context.Context, report *analysis.Report) error {
	msg, err := NewMessage(report)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func NewMessage(report *analysis.Report) (kafka.Message, error) {
	event := ReportCreatedEvent{
		ReportID:     report.ID.String(),
		SubmissionID: report.SubmissionID.String(),
		AssignmentID: report.AssignmentID,
		AuthorID:     report.AuthorID,
		IsDuplicate:  report.IsDuplicate,
		AnalyzedAt:   report.AnalyzedAt,
	}
	if report.OriginalSubmissionID.Valid {
		original := report.OriginalSubmissionID.UUID.String()
		event.OriginalSubmissionID = &original
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafka.Message{
		Key:   []byte(report.AssignmentID),
		Value: value,
	}, nil
}

var _ analysis.Publisher = (*Producer)(nil)
