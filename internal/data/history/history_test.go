package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := ScanRecord{ScanID: "a", Timestamp: base, Document: "Retail", TotalIssues: 4, FillCount: 3, RadiusCount: 1}
	dup := ScanRecord{ScanID: "a", Timestamp: base, Document: "Retail", TotalIssues: 6, FillCount: 5, RadiusCount: 1}
	second := ScanRecord{ScanID: "b", Timestamp: base.Add(2 * time.Hour), Document: "Retail", TotalIssues: 2, GapCount: 2, NodesVisited: 40}

	for _, rec := range []ScanRecord{first, dup, second} {
		if _, err := store.SaveScan(rec); err != nil {
			t.Fatalf("save scan %s: %v", rec.ScanID, err)
		}
	}

	got, err := store.LoadScans("Retail", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load scans: %v", err)
	}
	if len(got) != 1 || got[0].ScanID != "b" {
		t.Fatalf("expected only scan b after since filter, got %+v", got)
	}
	if got[0].GapCount != 2 || got[0].NodesVisited != 40 {
		t.Fatalf("expected counts to roundtrip, got %+v", got[0])
	}

	all, err := store.LoadScans("Retail", time.Time{})
	if err != nil {
		t.Fatalf("load all scans: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 scans after upsert, got %d", len(all))
	}
	if all[0].TotalIssues != 6 || all[0].FillCount != 5 {
		t.Fatalf("expected upserted totals, got %+v", all[0])
	}
}

func TestStore_SaveGeneratesScanID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	rec, err := store.SaveScan(ScanRecord{Document: "Retail"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ScanID == "" || rec.Timestamp.IsZero() || rec.SchemaVersion != SchemaVersion {
		t.Fatalf("expected defaults to be filled, got %+v", rec)
	}
}

func TestStore_SaveRejectsUnknownSchemaVersion(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.SaveScan(ScanRecord{SchemaVersion: SchemaVersion + 1}); err == nil {
		t.Fatal("expected schema version error")
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
}

func TestStore_DocumentIsolation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	if _, err := store.SaveScan(ScanRecord{Timestamp: base, Document: "a", TotalIssues: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveScan(ScanRecord{Timestamp: base, Document: "b", TotalIssues: 2}); err != nil {
		t.Fatal(err)
	}

	rows, err := store.LoadScans("a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TotalIssues != 1 {
		t.Fatalf("unexpected rows for document a: %+v", rows)
	}
}

func TestAdapter_RecordComputesDelta(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()
	adapter := NewAdapter(store)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	_, delta, err := adapter.Record(ctx, ScanRecord{Timestamp: base, Document: "Retail", TotalIssues: 5, FillCount: 3, TextCount: 2})
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	if delta.Previous != nil || delta.TotalIssues != 5 {
		t.Fatalf("first scan delta should equal totals, got %+v", delta)
	}

	_, delta, err = adapter.Record(ctx, ScanRecord{Timestamp: base.Add(time.Minute), Document: "Retail", TotalIssues: 3, FillCount: 1, TextCount: 2})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}
	if delta.Previous == nil || delta.TotalIssues != -2 {
		t.Fatalf("expected -2 total delta, got %+v", delta)
	}
	if delta.ByCategory["fill"] != -2 || delta.ByCategory["text"] != 0 {
		t.Fatalf("unexpected category delta: %+v", delta.ByCategory)
	}

	rows, err := adapter.LoadScans(ctx, "Retail", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestCategoryCountsRoundTrip(t *testing.T) {
	var rec ScanRecord
	rec.SetCategoryCounts(map[string]int{"fill": 1, "padding": 4, "bogus": 9})
	got := rec.CategoryCounts()
	if got["fill"] != 1 || got["padding"] != 4 || len(got) != 6 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}
