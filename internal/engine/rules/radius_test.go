package rules

import (
	"testing"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
)

func vars(props ...string) map[string]document.Binding {
	out := make(map[string]document.Binding, len(props))
	for _, p := range props {
		out[p] = document.VariableBinding("VariableID:core/" + p)
	}
	return out
}

func TestRadiusDecisions(t *testing.T) {
	cases := []struct {
		name    string
		node    *document.Node
		path    string
		details string
	}{
		{
			name: "aggregate without binding",
			node: &document.Node{ID: "1", Kind: document.KindRectangle,
				Radius: &document.CornerRadius{Aggregate: document.Radius(8)}},
			path:    audit.PathUniformNoVars,
			details: "uniform",
		},
		{
			name: "aggregate with binding",
			node: &document.Node{ID: "1", Kind: document.KindRectangle,
				Radius:   &document.CornerRadius{Aggregate: document.Radius(8)},
				Bindings: vars("cornerRadius")},
			path: audit.PathNecessaryBindings,
		},
		{
			name: "mixed corners without bindings",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{Aggregate: document.MixedRadius(),
					TopLeft: f(8), TopRight: f(8), BottomLeft: f(0), BottomRight: f(8)}},
			path:    audit.PathMixedCornersNoVars,
			details: "mixed (topLeft: 8, topRight: 8, bottomRight: 8)",
		},
		{
			name: "mixed corners partially bound",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{Aggregate: document.MixedRadius(),
					TopLeft: f(4), TopRight: f(8), BottomLeft: f(8), BottomRight: f(8)},
				Bindings: vars("topLeftRadius")},
			path:    audit.PathMixedCornersNoVars,
			details: "mixed (topRight: 8, bottomLeft: 8, bottomRight: 8)",
		},
		{
			name: "uniform individual corners without bindings",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{TopLeft: f(6), TopRight: f(6), BottomLeft: f(6), BottomRight: f(6)}},
			path:    audit.PathUniformCornersNoVars,
			details: "uniform",
		},
		{
			name: "every corner bound",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{Aggregate: document.Radius(6),
					TopLeft: f(6), TopRight: f(6), BottomLeft: f(6), BottomRight: f(6)},
				Bindings: vars("topLeftRadius", "topRightRadius", "bottomLeftRadius", "bottomRightRadius")},
			path: audit.PathNecessaryBindings,
		},
		{
			name: "effect style implies binding",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{Aggregate: document.Radius(12)},
				Bindings: map[string]document.Binding{
					document.EffectStyle: document.StyleBinding("S:core/shadow"),
				}},
			path: audit.PathNecessaryBindings,
		},
		{
			name: "zero radius",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{Aggregate: document.Radius(0),
					TopLeft: f(0), TopRight: f(0), BottomLeft: f(0), BottomRight: f(0)}},
			path: audit.PathNoneMissing,
		},
		{
			name: "mixed aggregate with bound non-zero corners only",
			node: &document.Node{ID: "1", Kind: document.KindFrame,
				Radius: &document.CornerRadius{Aggregate: document.MixedRadius(),
					TopLeft: f(8), TopRight: f(0), BottomLeft: f(0), BottomRight: f(0)},
				Bindings: vars("topLeftRadius")},
			path: audit.PathNecessaryBindings,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues, log := evaluate(t, tc.node, nil)
			radius := only(issues, lint.CategoryRadius)
			entries := log.Entries()
			if len(entries) != 1 {
				t.Fatalf("expected exactly one audit entry, got %d", len(entries))
			}
			if entries[0].DecisionPath != tc.path {
				t.Fatalf("decision path = %q, want %q", entries[0].DecisionPath, tc.path)
			}
			if tc.details == "" {
				if len(radius) != 0 {
					t.Fatalf("expected no radius issue, got %+v", radius)
				}
				if entries[0].IsIssue {
					t.Fatal("audit entry must not be marked as issue")
				}
				return
			}
			if len(radius) != 1 {
				t.Fatalf("expected one radius issue, got %d", len(radius))
			}
			if radius[0].Details != tc.details {
				t.Fatalf("details = %q, want %q", radius[0].Details, tc.details)
			}
			if !entries[0].IsIssue {
				t.Fatal("audit entry must be marked as issue")
			}
		})
	}
}

func TestRadiusInheritedFromMainComponent(t *testing.T) {
	main := &document.Node{ID: "c", Kind: document.KindComponent,
		Radius:   &document.CornerRadius{Aggregate: document.Radius(8)},
		Bindings: vars("cornerRadius")}
	inst := &document.Node{ID: "i", Kind: document.KindInstance, MainComponentID: "c",
		Radius: &document.CornerRadius{Aggregate: document.Radius(8)}}
	lookup := func(id string) (*document.Node, bool) {
		if id == main.ID {
			return main, true
		}
		return nil, false
	}

	issues, log := evaluate(t, inst, lookup)
	if len(only(issues, lint.CategoryRadius)) != 0 {
		t.Fatalf("instance inheriting radius variables must not be flagged: %+v", issues)
	}
	entry := log.Entries()[0]
	if !entry.Inspection.InheritedVariables || entry.DecisionPath != audit.PathNecessaryBindings {
		t.Fatalf("unexpected audit entry %+v", entry)
	}

	issues, _ = evaluate(t, inst, nil)
	if len(only(issues, lint.CategoryRadius)) != 1 {
		t.Fatal("without the main component the instance radius is detached")
	}
}

func TestRadiusAuditEntryRecordsValues(t *testing.T) {
	n := &document.Node{ID: "9", Name: "Card", Kind: document.KindFrame,
		Radius:   &document.CornerRadius{Aggregate: document.MixedRadius(), TopLeft: f(2.5)},
		Bindings: vars("topLeftRadius")}
	_, log := evaluate(t, n, nil)
	e := log.Entries()[0]
	if e.Radius.Aggregate != "mixed" || e.Radius.TopLeft != "2.5" || e.Radius.TopRight != "undefined" {
		t.Fatalf("unexpected radius values %+v", e.Radius)
	}
	if len(e.Bindings) != 1 || e.Bindings[0] != "topLeftRadius=VariableID:core/topLeftRadius" {
		t.Fatalf("unexpected bindings %v", e.Bindings)
	}
	if e.NodeName != "Card" {
		t.Fatalf("unexpected node name %q", e.NodeName)
	}
}
