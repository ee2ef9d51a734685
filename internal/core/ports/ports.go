package ports

import (
	"context"
	"time"

	"tokenlint/internal/data/history"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/provenance"
)

// DocumentProvider supplies an immutable snapshot of the host document for one scan.
type DocumentProvider interface {
	Snapshot(ctx context.Context) (*document.Snapshot, error)
}

// LibraryCatalogProvider lists the libraries available to the document.
type LibraryCatalogProvider interface {
	Libraries(ctx context.Context) ([]lint.Library, error)
}

// BindingResolver resolves style and variable ids to their definitions.
type BindingResolver = provenance.Resolver

// HistoryStore persists scan summaries for delta reporting.
type HistoryStore interface {
	Record(ctx context.Context, rec history.ScanRecord) (history.ScanRecord, history.Delta, error)
	LoadScans(ctx context.Context, document string, since time.Time) ([]history.ScanRecord, error)
}

// ScanRequest overrides the configured settings for one scan. Nil fields keep the session value.
type ScanRequest struct {
	Settings *lint.Settings
	// Roots, when set, replaces the document selection.
	Roots []string
}

// ScanSummary is the compact view of a completed scan handed to driving adapters.
type ScanSummary struct {
	ScanID       string
	Document     string
	StartedAt    time.Time
	Duration     time.Duration
	TotalIssues  int
	RawIssues    int
	Counts       map[lint.Category]int
	NodesVisited int
	AuditEntries int
	Delta        *history.Delta
}

// ReportRequest selects the report rendering.
type ReportRequest struct {
	Format string
}

// LintService is the driving-port surface over scan and report use cases.
type LintService interface {
	Scan(ctx context.Context, req ScanRequest) (ScanSummary, error)
	Report(ctx context.Context, req ReportRequest) (string, error)
	Latest() (ScanSummary, bool)
}
