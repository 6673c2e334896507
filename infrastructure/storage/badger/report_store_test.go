package badger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
	"github.com/felixgeelhaar/patrol-go/domain/report"
	"github.com/felixgeelhaar/patrol-go/infrastructure/storage/badger"
)

func newTestReportStore(t *testing.T) report.Store {
	t.Helper()
	store, err := badger.NewReportStore(badger.Config{InMemory: true})
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	return store
}

func testReport(id, digest string, createdAt time.Time) *report.Report {
	return &report.Report{
		ID:         id,
		Name:       "lab-floor",
		GridDigest: digest,
		Width:      10,
		Height:     10,
		Start:      guard.NewState(4, 6, grid.Up),
		Visited:    41,
		PathLength: 45,
		Candidates: 40,
		LoopCount:  2,
		Loops:      []grid.Position{grid.Pos(3, 6), grid.Pos(6, 7)},
		Workers:    4,
		Baseline:   time.Millisecond,
		Search:     5 * time.Millisecond,
		CreatedAt:  createdAt.UTC(),
	}
}

func TestReportStore_SaveAndGet(t *testing.T) {
	store := newTestReportStore(t)
	defer store.Close()

	ctx := context.Background()
	r := testReport("report-1", "abc", time.Now())

	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if loaded.ID != r.ID || loaded.GridDigest != r.GridDigest {
		t.Errorf("Get() = %+v, want %+v", loaded, r)
	}
	if loaded.Start != r.Start {
		t.Errorf("Start = %v, want %v", loaded.Start, r.Start)
	}
	if len(loaded.Loops) != 2 || loaded.Loops[1] != grid.Pos(6, 7) {
		t.Errorf("Loops = %v, want %v", loaded.Loops, r.Loops)
	}
	if !loaded.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", loaded.CreatedAt, r.CreatedAt)
	}
	if loaded.Search != r.Search {
		t.Errorf("Search = %v, want %v", loaded.Search, r.Search)
	}
}

func TestReportStore_Errors(t *testing.T) {
	store := newTestReportStore(t)
	defer store.Close()

	ctx := context.Background()
	r := testReport("report-1", "abc", time.Now())
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Save(ctx, r); !errors.Is(err, report.ErrReportExists) {
		t.Errorf("duplicate Save() error = %v, want %v", err, report.ErrReportExists)
	}
	if err := store.Save(ctx, testReport("", "abc", time.Now())); !errors.Is(err, report.ErrInvalidReportID) {
		t.Errorf("Save() without ID error = %v, want %v", err, report.ErrInvalidReportID)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, report.ErrReportNotFound) {
		t.Errorf("Get() missing error = %v, want %v", err, report.ErrReportNotFound)
	}
	if _, err := store.Get(ctx, ""); !errors.Is(err, report.ErrInvalidReportID) {
		t.Errorf("Get() empty ID error = %v, want %v", err, report.ErrInvalidReportID)
	}
}

func TestReportStore_List(t *testing.T) {
	store := newTestReportStore(t)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, digest := range []string{"abc", "def", "abc", "abc"} {
		r := testReport("report-"+string(rune('a'+i)), digest, base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		filter  report.ListFilter
		wantIDs []string
	}{
		{"all newest first", report.ListFilter{}, []string{"report-d", "report-c", "report-b", "report-a"}},
		{"by digest", report.ListFilter{GridDigest: "abc"}, []string{"report-d", "report-c", "report-a"}},
		{"limit", report.ListFilter{Limit: 2}, []string{"report-d", "report-c"}},
		{"digest and limit", report.ListFilter{GridDigest: "abc", Limit: 1}, []string{"report-d"}},
		{"no match", report.ListFilter{GridDigest: "zzz"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("List() returned %d reports, want %d", len(got), len(tt.wantIDs))
			}
			for i, r := range got {
				if r.ID != tt.wantIDs[i] {
					t.Errorf("List()[%d].ID = %s, want %s", i, r.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestReportStore_CancelledContext(t *testing.T) {
	store := newTestReportStore(t)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, testReport("report-1", "abc", time.Now())); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want %v", err, context.Canceled)
	}
	if _, err := store.List(ctx, report.ListFilter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("List() error = %v, want %v", err, context.Canceled)
	}
}

func TestReportStore_PersistsToDir(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := badger.NewReportStore(badger.DefaultConfig(), badger.WithDir(dir), badger.WithGCInterval(0))
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	if err := store.Save(ctx, testReport("report-1", "abc", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := badger.NewReportStore(badger.DefaultConfig(), badger.WithDir(dir), badger.WithGCInterval(0))
	if err != nil {
		t.Fatalf("NewReportStore (reopen) failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.List(ctx, report.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "report-1" {
		t.Errorf("List() after reopen = %v, want report-1", got)
	}
}

func TestReportStore_CloseIsIdempotent(t *testing.T) {
	ctx := context.Background()

	store, err := badger.NewReportStore(badger.Config{InMemory: true, KeyPrefix: "patrol:"})
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, testReport("report-1", "abc", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNewReportStore_NoDir(t *testing.T) {
	_, err := badger.NewReportStore(badger.DefaultConfig())
	if !errors.Is(err, badger.ErrConnectionFailed) {
		t.Errorf("NewReportStore() error = %v, want %v", err, badger.ErrConnectionFailed)
	}
}
