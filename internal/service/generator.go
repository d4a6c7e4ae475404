package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salesops/go-sales-csv/internal/models"
	"github.com/salesops/go-sales-csv/internal/report"
	"github.com/salesops/go-sales-csv/internal/source"
	"github.com/salesops/go-sales-csv/internal/storage"
	"github.com/salesops/go-sales-csv/pkg/encoding"
	"github.com/salesops/go-sales-csv/pkg/metrics"
)

// GenerateResult summarizes one completed report job.
type GenerateResult struct {
	Locator string
	From    time.Time
	To      time.Time
	Rows    int
}

// Generator materializes one report per invocation: it resolves the window
// and filename, fetches the rows, renders the CSV body, and commits it to
// storage. Instances hold no per-job state and may run concurrently.
type Generator struct {
	source         source.RowSource
	store          storage.Store
	lookback       time.Duration
	reportEncoding string
	logger         *slog.Logger
}

func NewGenerator(src source.RowSource, store storage.Store, lookback time.Duration, reportEncoding string, l *slog.Logger) *Generator {
	return &Generator{
		source:         src,
		store:          store,
		lookback:       lookback,
		reportEncoding: reportEncoding,
		logger:         l,
	}
}

// DefaultFileName derives the artifact name from the resolved window alone,
// so regenerating the same window overwrites the same object instead of
// accumulating duplicates.
func DefaultFileName(from, to time.Time) string {
	const layout = "20060102_1504"
	return fmt.Sprintf("Transactions_%s-%s.csv", from.UTC().Format(layout), to.UTC().Format(layout))
}

// Resolve turns an all-optional payload into the all-required job the
// pipeline runs on. Window bounds must be supplied together; a payload
// without bounds gets the configured lookback ending at now.
func (g *Generator) Resolve(payload *models.JobPayload, now time.Time) (models.ResolvedJob, error) {
	now = now.UTC()

	var from, to time.Time
	switch {
	case payload == nil || (payload.DateFrom == nil && payload.DateTo == nil):
		to = now
		from = to.Add(-g.lookback)
	case payload.DateFrom == nil || payload.DateTo == nil:
		return models.ResolvedJob{}, ErrPartialWindow
	default:
		from = payload.DateFrom.UTC()
		to = payload.DateTo.UTC()
	}

	if !from.Before(to) {
		return models.ResolvedJob{}, ErrInvalidWindow
	}

	var name string
	if payload != nil {
		name = payload.FileName
	}
	if name == "" {
		name = DefaultFileName(from, to)
	}

	return models.ResolvedJob{DateFrom: from, DateTo: to, FileName: name}, nil
}

// Generate runs the fetch, render, publish sequence for one job. Nothing is
// written to storage unless the full body rendered successfully.
func (g *Generator) Generate(ctx context.Context, payload *models.JobPayload) (result *GenerateResult, err error) {
	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.GenerateDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	job, err := g.Resolve(payload, time.Now())
	if err != nil {
		return nil, err
	}

	l := g.logger.With(
		"file_name", job.FileName,
		"from", job.DateFrom,
		"to", job.DateTo,
	)

	records, err := g.source.FetchWindow(ctx, job.DateFrom, job.DateTo)
	if err != nil {
		return nil, fmt.Errorf("row fetch failed: %w", err)
	}

	body, err := report.Render(records)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	if g.reportEncoding == "win1252" {
		if body, err = encoding.FromUTF8(body); err != nil {
			return nil, fmt.Errorf("transcode failed: %w", err)
		}
	}

	locator, err := g.store.Put(ctx, job.FileName, body)
	if err != nil {
		return nil, fmt.Errorf("artifact publish failed: %w", err)
	}

	metrics.ReportRows.Observe(float64(len(records)))
	l.Info("Report generated", "locator", locator, "rows", len(records))

	return &GenerateResult{
		Locator: locator,
		From:    job.DateFrom,
		To:      job.DateTo,
		Rows:    len(records),
	}, nil
}
