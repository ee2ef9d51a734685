package audit

import (
	"testing"

	"tokenlint/internal/engine/document"
)

func TestLogPathCountsKeepEncounterOrder(t *testing.T) {
	l := NewLog()
	l.Append(Entry{NodeID: "1", DecisionPath: PathNoneMissing})
	l.Append(Entry{NodeID: "2", DecisionPath: PathUniformNoVars, IsIssue: true})
	l.Append(Entry{NodeID: "3", DecisionPath: PathNoneMissing})

	if l.Len() != 3 || l.IssueCount() != 1 {
		t.Fatalf("unexpected counts len=%d issues=%d", l.Len(), l.IssueCount())
	}
	counts := l.PathCounts()
	if len(counts) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(counts))
	}
	if counts[0].Path != PathNoneMissing || counts[0].Count != 2 {
		t.Fatalf("unexpected first path %+v", counts[0])
	}
	if counts[1].Path != PathUniformNoVars || counts[1].Count != 1 {
		t.Fatalf("unexpected second path %+v", counts[1])
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append(Entry{NodeID: "1"})
	got := l.Entries()
	got[0].NodeID = "changed"
	if l.Entries()[0].NodeID != "1" {
		t.Fatal("Entries must not expose internal storage")
	}
}

func TestValuesOf(t *testing.T) {
	eight := 8.0
	v := ValuesOf(&document.CornerRadius{Aggregate: document.MixedRadius(), TopLeft: &eight})
	if v.Aggregate != "mixed" || v.TopLeft != "8" || v.BottomRight != "undefined" {
		t.Fatalf("unexpected values %+v", v)
	}
	if ValuesOf(nil).Aggregate != "undefined" {
		t.Fatal("nil radius renders as undefined")
	}
}
