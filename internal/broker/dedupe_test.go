package broker

import (
	"testing"
	"time"
)

func TestDedupeMarksOnlyCompletedIds(t *testing.T) {
	d := NewDedupe(time.Hour)

	if d.Seen("abc-123") {
		t.Fatal("fresh id must not be seen")
	}
	// Seen alone must not record: a failed attempt stays retryable
	if d.Seen("abc-123") {
		t.Fatal("Seen must not record the id")
	}

	d.Mark("abc-123")
	if !d.Seen("abc-123") {
		t.Fatal("marked id must be seen")
	}
}

func TestDedupeIgnoresEmptyIds(t *testing.T) {
	d := NewDedupe(time.Hour)
	d.Mark("")
	if d.Seen("") {
		t.Fatal("empty ids carry no idempotency guarantee")
	}
}

func TestDedupeExpiresAfterRetention(t *testing.T) {
	d := NewDedupe(time.Millisecond)
	d.Mark("abc-123")

	time.Sleep(10 * time.Millisecond)
	if d.Seen("abc-123") {
		t.Fatal("id must expire after the retention window")
	}
}
