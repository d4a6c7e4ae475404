package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesops/go-sales-csv/internal/models"
	"github.com/salesops/go-sales-csv/pkg/metrics"
)

// MessageType tags every queued message for downstream routing.
const MessageType = "sales-csv-request"

// QueuePublisher defines the contract for message publishing.
type QueuePublisher interface {
	Publish(ctx context.Context, msg models.QueuedMessage) error
	// Schedule holds the message back until runAt and returns the broker
	// ticket for the deferred publish. A runAt in the past degenerates to
	// immediate delivery.
	Schedule(ctx context.Context, msg models.QueuedMessage, runAt time.Time) (int64, error)
}

// EnqueueResult reports how an accepted job was dispatched.
type EnqueueResult struct {
	Status         string // "enqueued" or "scheduled"
	MessageID      string
	SequenceNumber int64
	RunAtUtc       *time.Time
}

// Enqueuer turns raw report requests into exactly one durably queued,
// idempotent job message each.
type Enqueuer struct {
	queue  QueuePublisher
	logger *slog.Logger
}

func NewEnqueuer(q QueuePublisher, l *slog.Logger) *Enqueuer {
	return &Enqueuer{
		queue:  q,
		logger: l,
	}
}

// Enqueue validates the raw request body and publishes it, immediately or
// scheduled for the requested run time. The correlation id, when supplied,
// becomes both the message id and correlation id of the queued message, so
// resubmissions dedupe to the same logical job.
func (e *Enqueuer) Enqueue(ctx context.Context, body []byte) (*EnqueueResult, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	var payload models.JobPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrInvalidJSON
	}

	if payload.DateFrom != nil && payload.DateTo != nil && !payload.DateTo.After(*payload.DateFrom) {
		return nil, ErrInvalidWindow
	}

	key := payload.CorrelationID
	if key == "" {
		key = uuid.NewString()
	}

	// The body travels unmodified so the consumer sees exactly what the
	// client submitted.
	msg := models.QueuedMessage{
		Body:          body,
		MessageID:     key,
		CorrelationID: key,
		ContentType:   "application/json",
		Properties:    map[string]string{"type": MessageType},
	}
	if payload.DateFrom != nil {
		msg.Properties["dateFrom"] = payload.DateFrom.UTC().Format(time.RFC3339Nano)
	}
	if payload.DateTo != nil {
		msg.Properties["dateTo"] = payload.DateTo.UTC().Format(time.RFC3339Nano)
	}
	if payload.FileName != "" {
		msg.Properties["fileName"] = payload.FileName
	}

	l := e.logger.With("correlation_id", key)

	if payload.RunAtUtc != nil {
		seq, err := e.queue.Schedule(ctx, msg, *payload.RunAtUtc)
		if err != nil {
			metrics.JobsEnqueued.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("schedule failed: %w", err)
		}

		metrics.JobsEnqueued.WithLabelValues("scheduled").Inc()
		l.Info("Job scheduled", "run_at", payload.RunAtUtc.UTC(), "sequence", seq)
		return &EnqueueResult{
			Status:         "scheduled",
			MessageID:      key,
			SequenceNumber: seq,
			RunAtUtc:       payload.RunAtUtc,
		}, nil
	}

	if err := e.queue.Publish(ctx, msg); err != nil {
		metrics.JobsEnqueued.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("publish failed: %w", err)
	}

	metrics.JobsEnqueued.WithLabelValues("enqueued").Inc()
	l.Info("Job enqueued")
	return &EnqueueResult{Status: "enqueued", MessageID: key}, nil
}
