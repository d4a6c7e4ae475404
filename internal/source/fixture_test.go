package source

import (
	"context"
	"testing"
	"time"
)

func TestFixtureRowsAscendInsideWindow(t *testing.T) {
	from := time.Date(2025, 11, 8, 4, 0, 0, 0, time.UTC)
	to := from.Add(30 * time.Minute)

	records, err := FixtureSource{}.FetchWindow(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 fixture rows, got %d", len(records))
	}

	for i := 1; i < len(records); i++ {
		if !records[i-1].CreatedUtc.Before(records[i].CreatedUtc) {
			t.Fatalf("rows out of order at %d: %v >= %v", i, records[i-1].CreatedUtc, records[i].CreatedUtc)
		}
	}
	for _, r := range records {
		if r.CreatedUtc.Before(from) || !r.CreatedUtc.Before(to) {
			t.Fatalf("row %d outside window: %v", r.OrderID, r.CreatedUtc)
		}
	}
}
