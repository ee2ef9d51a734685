// Package audit records every corner-radius decision taken during a scan.
package audit

import "tokenlint/internal/engine/document"

// Decision path labels. They appear verbatim in reports.
const (
	PathNecessaryBindings    = "EXCLUDED: has necessary variable bindings"
	PathUniformWithVars      = "EXCLUDED: uniform corners with variables"
	PathUniformNoVars        = "ISSUE: uniform radius without variables"
	PathUniformCornersNoVars = "ISSUE: uniform individual corners without variables"
	PathMixedCornersNoVars   = "ISSUE: mixed corners without variables"
	PathNoneMissing          = "EXCLUDED: no corners missing variables"
)

// RadiusValues captures the radius values seen on a node, each rendered as a number, mixed or undefined.
type RadiusValues struct {
	Aggregate   string
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
}

// Inspection holds the booleans computed while deciding.
type Inspection struct {
	UniformIndividualCorners bool
	InheritedVariables       bool
	AnyRadiusBinding         bool
	AllCornersHaveVariables  bool
	EffectStyle              bool
}

type Entry struct {
	NodeID       string
	NodeName     string
	NodeKind     document.Kind
	Radius       RadiusValues
	IsIssue      bool
	DecisionPath string
	Inspection   Inspection
	// Bindings lists the radius-related variable bindings found on the node.
	Bindings     []string
	Details      string
}

// PathCount is a decision path with the number of entries that took it.
type PathCount struct {
	Path  string
	Count int
}

// Log is an append-only trail owned by one scan. A new scan starts with a new Log.
type Log struct {
	entries []Entry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the entries in encounter order.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *Log) IssueCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.entries {
		if e.IsIssue {
			n++
		}
	}
	return n
}

// PathCounts returns decision-path frequencies in first-encounter order.
func (l *Log) PathCounts() []PathCount {
	if l == nil {
		return nil
	}
	idx := make(map[string]int)
	out := make([]PathCount, 0)
	for _, e := range l.entries {
		i, ok := idx[e.DecisionPath]
		if !ok {
			idx[e.DecisionPath] = len(out)
			out = append(out, PathCount{Path: e.DecisionPath, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}

// ValuesOf renders the radius group of a node.
func ValuesOf(r *document.CornerRadius) RadiusValues {
	if r == nil {
		return RadiusValues{
			Aggregate:   "undefined",
			TopLeft:     "undefined",
			TopRight:    "undefined",
			BottomLeft:  "undefined",
			BottomRight: "undefined",
		}
	}
	return RadiusValues{
		Aggregate:   r.Aggregate.String(),
		TopLeft:     corner(r.TopLeft),
		TopRight:    corner(r.TopRight),
		BottomLeft:  corner(r.BottomLeft),
		BottomRight: corner(r.BottomRight),
	}
}

func corner(v *float64) string {
	if v == nil {
		return "undefined"
	}
	return document.FormatNumber(*v)
}
