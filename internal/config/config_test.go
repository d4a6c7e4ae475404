package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Lookback != 30*time.Minute {
		t.Fatalf("Lookback = %v, want 30m", cfg.Lookback)
	}
	if cfg.StorageContainer != "filescsv" {
		t.Fatalf("StorageContainer = %q, want filescsv", cfg.StorageContainer)
	}
	if cfg.QueueName != "sales-csv-requests" {
		t.Fatalf("QueueName = %q, want sales-csv-requests", cfg.QueueName)
	}
}

func TestLoadLookbackOverride(t *testing.T) {
	t.Setenv("DEFAULT_LOOKBACK_MIN", "90")

	cfg := Load()
	if cfg.Lookback != 90*time.Minute {
		t.Fatalf("Lookback = %v, want 90m", cfg.Lookback)
	}
}

func TestLoadLookbackClamped(t *testing.T) {
	t.Setenv("DEFAULT_LOOKBACK_MIN", "100000")
	if cfg := Load(); cfg.Lookback != time.Duration(MaxLookbackMinutes)*time.Minute {
		t.Fatalf("Lookback = %v, want clamped maximum", cfg.Lookback)
	}

	t.Setenv("DEFAULT_LOOKBACK_MIN", "0")
	if cfg := Load(); cfg.Lookback != time.Duration(MinLookbackMinutes)*time.Minute {
		t.Fatalf("Lookback = %v, want clamped minimum", cfg.Lookback)
	}
}
