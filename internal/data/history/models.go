package history

import "time"

const SchemaVersion = 1

// ScanRecord is the persisted summary of one completed scan.
type ScanRecord struct {
	SchemaVersion    int       `json:"schema_version"`
	ScanID           string    `json:"scan_id"`
	Timestamp        time.Time `json:"timestamp"`
	Document         string    `json:"document"`
	ReferenceLibrary string    `json:"reference_library,omitempty"`
	TotalIssues      int       `json:"total_issues"`
	RawIssues        int       `json:"raw_issues"`
	NodesVisited     int       `json:"nodes_visited"`
	AuditEntries     int       `json:"audit_entries"`
	FillCount        int       `json:"fill_count"`
	StrokeCount      int       `json:"stroke_count"`
	TextCount        int       `json:"text_count"`
	RadiusCount      int       `json:"radius_count"`
	GapCount         int       `json:"gap_count"`
	PaddingCount     int       `json:"padding_count"`
}

// Delta compares a scan against the previous scan of the same document.
type Delta struct {
	Previous    *ScanRecord    `json:"previous,omitempty"`
	TotalIssues int            `json:"delta_total_issues"`
	ByCategory  map[string]int `json:"delta_by_category"`
}

// CategoryCounts returns per-category counts keyed by category id.
func (r ScanRecord) CategoryCounts() map[string]int {
	return map[string]int{
		"fill":    r.FillCount,
		"stroke":  r.StrokeCount,
		"text":    r.TextCount,
		"radius":  r.RadiusCount,
		"gap":     r.GapCount,
		"padding": r.PaddingCount,
	}
}

// SetCategoryCounts copies counts keyed by category id onto the record. Unknown keys are ignored.
func (r *ScanRecord) SetCategoryCounts(counts map[string]int) {
	r.FillCount = counts["fill"]
	r.StrokeCount = counts["stroke"]
	r.TextCount = counts["text"]
	r.RadiusCount = counts["radius"]
	r.GapCount = counts["gap"]
	r.PaddingCount = counts["padding"]
}

// Compare computes current minus previous. A nil previous yields a delta equal to current.
func Compare(current ScanRecord, previous *ScanRecord) Delta {
	d := Delta{Previous: previous, ByCategory: make(map[string]int, 6)}
	cur := current.CategoryCounts()
	prev := map[string]int{}
	prevTotal := 0
	if previous != nil {
		prev = previous.CategoryCounts()
		prevTotal = previous.TotalIssues
	}
	for k, v := range cur {
		d.ByCategory[k] = v - prev[k]
	}
	d.TotalIssues = current.TotalIssues - prevTotal
	return d
}
