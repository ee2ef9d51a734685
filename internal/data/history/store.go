package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const scanColumns = `
  scan_id, schema_version, ts_utc, document, reference_library, total_issues, raw_issues,
  nodes_visited, audit_entries, fill_count, stroke_count, text_count, radius_count, gap_count,
  padding_count`

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts while watch mode rescans.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScan upserts a scan record keyed by scan id. A missing id is generated.
func (s *Store) SaveScan(rec ScanRecord) (ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(rec.ScanID) == "" {
		rec.ScanID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.SchemaVersion == 0 {
		rec.SchemaVersion = SchemaVersion
	}
	if rec.SchemaVersion != SchemaVersion {
		return rec, fmt.Errorf("unsupported scan schema version %d", rec.SchemaVersion)
	}

	query := `
INSERT INTO scans (` + scanColumns + `
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(scan_id) DO UPDATE SET
  ts_utc=excluded.ts_utc,
  document=excluded.document,
  reference_library=excluded.reference_library,
  total_issues=excluded.total_issues,
  raw_issues=excluded.raw_issues,
  nodes_visited=excluded.nodes_visited,
  audit_entries=excluded.audit_entries,
  fill_count=excluded.fill_count,
  stroke_count=excluded.stroke_count,
  text_count=excluded.text_count,
  radius_count=excluded.radius_count,
  gap_count=excluded.gap_count,
  padding_count=excluded.padding_count
`
	err := s.withRetry("save scan", func() error {
		_, err := s.db.Exec(
			query,
			rec.ScanID,
			rec.SchemaVersion,
			rec.Timestamp.UTC().Format(timestampLayout),
			rec.Document,
			rec.ReferenceLibrary,
			rec.TotalIssues,
			rec.RawIssues,
			rec.NodesVisited,
			rec.AuditEntries,
			rec.FillCount,
			rec.StrokeCount,
			rec.TextCount,
			rec.RadiusCount,
			rec.GapCount,
			rec.PaddingCount,
		)
		return err
	})
	return rec, err
}

// LoadScans returns the scans of a document at or after since, oldest first.
func (s *Store) LoadScans(document string, since time.Time) ([]ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := "SELECT" + scanColumns + "\nFROM scans WHERE document = ?"
	args := []any{document}
	if !since.IsZero() {
		base += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(timestampLayout))
	}
	base += " ORDER BY ts_utc ASC, scan_id ASC"
	return s.query("load scans", base, args...)
}

// Previous returns the latest scan of document strictly before ts, or nil.
func (s *Store) Previous(document string, ts time.Time) (*ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := "SELECT" + scanColumns + "\nFROM scans WHERE document = ? AND ts_utc < ? ORDER BY ts_utc DESC, scan_id DESC LIMIT 1"
	rows, err := s.query("load previous scan", q, document, ts.UTC().Format(timestampLayout))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (s *Store) query(op, q string, args ...any) ([]ScanRecord, error) {
	var rows *sql.Rows
	err := s.withRetry(op, func() error {
		var qErr error
		rows, qErr = s.db.Query(q, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ScanRecord, 0)
	for rows.Next() {
		var (
			tsRaw string
			rec   ScanRecord
		)
		if err := rows.Scan(
			&rec.ScanID,
			&rec.SchemaVersion,
			&tsRaw,
			&rec.Document,
			&rec.ReferenceLibrary,
			&rec.TotalIssues,
			&rec.RawIssues,
			&rec.NodesVisited,
			&rec.AuditEntries,
			&rec.FillCount,
			&rec.StrokeCount,
			&rec.TextCount,
			&rec.RadiusCount,
			&rec.GapCount,
			&rec.PaddingCount,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse scan timestamp %q: %w", tsRaw, err)
		}
		rec.Timestamp = ts.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan rows: %w", err)
	}
	return out, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
