package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesops/go-sales-csv/internal/models"
	"github.com/salesops/go-sales-csv/internal/report"
	"github.com/salesops/go-sales-csv/internal/source"
)

type memStore struct {
	objects map[string][]byte
	puts    int
}

func (m *memStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[name] = data
	m.puts++
	return "mem://" + name, nil
}

type errSource struct{ err error }

func (s errSource) FetchWindow(ctx context.Context, from, to time.Time) ([]models.SaleRecord, error) {
	return nil, s.err
}

type staticSource struct{ records []models.SaleRecord }

func (s staticSource) FetchWindow(ctx context.Context, from, to time.Time) ([]models.SaleRecord, error) {
	return s.records, nil
}

func newTestGenerator(src source.RowSource, store *memStore) *Generator {
	return NewGenerator(src, store, 30*time.Minute, "utf8", discardLogger())
}

func TestResolveDefaultsWindowToLookback(t *testing.T) {
	g := newTestGenerator(source.FixtureSource{}, &memStore{})
	now := time.Date(2025, 11, 8, 4, 30, 0, 0, time.UTC)

	job, err := g.Resolve(nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !job.DateTo.Equal(now) {
		t.Fatalf("dateTo = %v, want %v", job.DateTo, now)
	}
	if got := job.DateTo.Sub(job.DateFrom); got != 30*time.Minute {
		t.Fatalf("window span = %v, want 30m", got)
	}
	if job.FileName == "" {
		t.Fatal("resolved file name must not be empty")
	}
}

func TestResolveRejectsPartialWindow(t *testing.T) {
	g := newTestGenerator(source.FixtureSource{}, &memStore{})
	from := time.Date(2025, 11, 8, 4, 0, 0, 0, time.UTC)

	_, err := g.Resolve(&models.JobPayload{DateFrom: &from}, time.Now())
	if !errors.Is(err, ErrPartialWindow) {
		t.Fatalf("expected ErrPartialWindow, got %v", err)
	}
}

func TestResolveRejectsInvertedWindow(t *testing.T) {
	g := newTestGenerator(source.FixtureSource{}, &memStore{})
	from := time.Date(2025, 11, 8, 5, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 8, 4, 0, 0, 0, time.UTC)

	_, err := g.Resolve(&models.JobPayload{DateFrom: &from, DateTo: &to}, time.Now())
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}

	// A zero-length window is equally invalid
	_, err = g.Resolve(&models.JobPayload{DateFrom: &to, DateTo: &to}, time.Now())
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow for empty window, got %v", err)
	}
}

func TestDefaultFileNameIsPureFunctionOfWindow(t *testing.T) {
	from := time.Date(2025, 11, 8, 4, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 8, 4, 30, 0, 0, time.UTC)

	want := "Transactions_20251108_0400-20251108_0430.csv"
	if got := DefaultFileName(from, to); got != want {
		t.Fatalf("DefaultFileName = %q, want %q", got, want)
	}
	if DefaultFileName(from, to) != DefaultFileName(from, to) {
		t.Fatal("file name must be deterministic for a fixed window")
	}
}

func TestGenerateOrchestratesFetchRenderPublish(t *testing.T) {
	store := &memStore{}
	g := newTestGenerator(source.FixtureSource{}, store)

	from := time.Date(2025, 11, 8, 4, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 8, 4, 30, 0, 0, time.UTC)
	payload := &models.JobPayload{DateFrom: &from, DateTo: &to}

	res, err := g.Generate(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Rows != 3 {
		t.Fatalf("rows = %d, want 3", res.Rows)
	}
	if res.Locator != "mem://Transactions_20251108_0400-20251108_0430.csv" {
		t.Fatalf("unexpected locator %q", res.Locator)
	}
	if !res.From.Equal(from) || !res.To.Equal(to) {
		t.Fatalf("window echoed as %v..%v, want %v..%v", res.From, res.To, from, to)
	}

	body := store.objects["Transactions_20251108_0400-20251108_0430.csv"]
	if !strings.HasPrefix(string(body), report.Header+"\n") {
		t.Fatalf("committed artifact missing header: %q", body)
	}
	if got := strings.Count(string(body), "\n"); got != 4 {
		t.Fatalf("artifact line count = %d, want 4", got)
	}
}

func TestGenerateHonorsExplicitFileName(t *testing.T) {
	store := &memStore{}
	g := newTestGenerator(source.FixtureSource{}, store)

	from := time.Date(2025, 11, 8, 4, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 8, 4, 30, 0, 0, time.UTC)
	payload := &models.JobPayload{DateFrom: &from, DateTo: &to, FileName: "night_shift.csv"}

	res, err := g.Generate(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Locator != "mem://night_shift.csv" {
		t.Fatalf("unexpected locator %q", res.Locator)
	}
}

func TestGenerateFetchFailureSkipsPublish(t *testing.T) {
	store := &memStore{}
	g := newTestGenerator(errSource{err: errors.New("db unreachable")}, store)

	if _, err := g.Generate(context.Background(), nil); err == nil {
		t.Fatal("expected fetch failure to surface")
	}
	if store.puts != 0 {
		t.Fatal("no artifact may be committed when the fetch fails")
	}
}

func TestGenerateRenderFailureSkipsPublish(t *testing.T) {
	store := &memStore{}
	bad := staticSource{records: []models.SaleRecord{
		{OrderID: 1, Quantity: -1, UnitPrice: decimal.RequireFromString("1.00")},
	}}
	g := newTestGenerator(bad, store)

	if _, err := g.Generate(context.Background(), nil); err == nil {
		t.Fatal("expected render failure to surface")
	}
	if store.puts != 0 {
		t.Fatal("no artifact may be committed when rendering fails")
	}
}
