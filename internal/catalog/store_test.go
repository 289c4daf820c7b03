// File path: internal/catalog/store_test.go
package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndListAnalyses(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.RecordAnalysis(ctx, "Is a 20 MW farm feasible?", "feasibility", "Yes, broadly.", "local", 42*time.Millisecond)
	if err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}
	if _, err := store.RecordAnalysis(ctx, "transmission cost?", "transmission", "about $13k/yr", "local", time.Millisecond); err != nil {
		t.Fatalf("RecordAnalysis second: %v", err)
	}

	records, err := store.RecentAnalyses(ctx, 10)
	if err != nil {
		t.Fatalf("RecentAnalyses: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	var seen bool
	for _, rec := range records {
		if rec.ID == id {
			seen = true
			if rec.Route != "feasibility" {
				t.Fatalf("route = %q", rec.Route)
			}
			if rec.LatencyMS != 42 {
				t.Fatalf("latency = %d", rec.LatencyMS)
			}
		}
	}
	if !seen {
		t.Fatalf("recorded analysis %s missing from listing", id)
	}
}

func TestRecentAnalysesLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.RecordAnalysis(ctx, "q", "general", "a", "local", 0); err != nil {
			t.Fatalf("RecordAnalysis: %v", err)
		}
	}
	records, err := store.RecentAnalyses(ctx, 3)
	if err != nil {
		t.Fatalf("RecentAnalyses: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
}
