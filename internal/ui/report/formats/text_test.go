package formats

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
}

func sampleInput() Input {
	settings := lint.DefaultSettings().WithExceptions([]string{"icon*"}).WithCategory(lint.CategoryGap, false)
	settings.ReferenceLibraryID = "core"
	settings.ExcludeHidden = true

	log := audit.NewLog()
	log.Append(audit.Entry{
		NodeID:       "1:1",
		NodeName:     "Card",
		NodeKind:     document.KindFrame,
		Radius:       audit.RadiusValues{Aggregate: "8", TopLeft: "undefined", TopRight: "undefined", BottomLeft: "undefined", BottomRight: "undefined"},
		IsIssue:      true,
		DecisionPath: audit.PathUniformNoVars,
		Details:      "uniform",
	})
	log.Append(audit.Entry{
		NodeID:       "2:1",
		NodeName:     "Chip",
		NodeKind:     document.KindInstance,
		Radius:       audit.RadiusValues{Aggregate: "4", TopLeft: "undefined", TopRight: "undefined", BottomLeft: "undefined", BottomRight: "undefined"},
		DecisionPath: audit.PathNecessaryBindings,
		Inspection:   audit.Inspection{InheritedVariables: true, AllCornersHaveVariables: true},
		Bindings:     []string{"cornerRadius"},
	})

	return Input{
		Document: "Retail App",
		Settings: settings,
		Catalog:  lint.NewCatalog([]lint.Library{{ID: "core", Name: "Core Tokens"}}),
		Audit:    log,
		Issues: []lint.Issue{
			{NodeID: "1:1", NodeName: "Card", NodeKind: document.KindFrame, Category: lint.CategoryFill, Message: "Fill not linked to a style or variable"},
			{NodeID: "1:2", NodeName: "Title", NodeKind: document.KindText, Category: lint.CategoryFill, Message: "Wrong library/Color Fill", Details: "Brand/Red", SourceLibraryID: "legacy", SourceLibraryName: "Legacy Kit"},
			{NodeID: "1:1", NodeName: "Card", NodeKind: document.KindFrame, Category: lint.CategoryRadius, Message: "Corner radius not linked to a variable", Details: "uniform"},
		},
	}
}

const expectedReport = `DESIGN TOKEN LINT REPORT
========================
Document: Retail App
Generated: 2026-03-01T09:30:00Z
Total issues: 3

Settings
--------
Reference library: Core Tokens (core)
Exclude locked layers: no
Exclude hidden layers: yes
Enabled categories: Color Fill, Stroke, Text, Corner Radius, Padding
Exceptions: icon*

Color Fill (2)
--------------
- Card: Fill not linked to a style or variable
  Node ID: 1:1
- Title: Wrong library/Color Fill
  Details: Brand/Red
  Source library: Legacy Kit (legacy)
  Node ID: 1:2

Corner Radius (1)
-----------------
- Card: Corner radius not linked to a variable
  Details: uniform
  Node ID: 1:1

Corner Radius Audit
-------------------
Nodes inspected: 2
Issues: 1
Excluded: 1

Decision Paths
--------------
ISSUE: uniform radius without variables: 1
EXCLUDED: has necessary variable bindings: 1

Issue Entries
-------------
- Card [FRAME] (1:1)
  Path: ISSUE: uniform radius without variables
  Radius: cornerRadius=8 topLeft=undefined topRight=undefined bottomLeft=undefined bottomRight=undefined
  Checks: uniformCorners=false inheritedVariables=false anyRadiusBinding=false allCornersHaveVariables=false effectStyle=false
  Bindings: none
  Details: uniform

Excluded Entries (first 1 of 1)
-------------------------------
- Chip [INSTANCE] (2:1)
  Path: EXCLUDED: has necessary variable bindings
  Radius: cornerRadius=4 topLeft=undefined topRight=undefined bottomLeft=undefined bottomRight=undefined
  Checks: uniformCorners=false inheritedVariables=true anyRadiusBinding=false allCornersHaveVariables=true effectStyle=false
  Bindings: cornerRadius
`

func TestTextGenerator_FullReport(t *testing.T) {
	got, err := NewTextGenerator(fixedClock).Generate(sampleInput())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != expectedReport {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", got, expectedReport)
	}
}

func TestTextGenerator_Deterministic(t *testing.T) {
	gen := NewTextGenerator(fixedClock)
	first, err := gen.Generate(sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	second, err := gen.Generate(sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected identical reports for identical input")
	}
}

func TestTextGenerator_NoIssues(t *testing.T) {
	in := sampleInput()
	in.Issues = nil
	got, err := NewTextGenerator(fixedClock).Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	if got != NoIssuesLine+"\n" {
		t.Fatalf("expected fixed line, got %q", got)
	}
}

func TestTextGenerator_WithoutAudit(t *testing.T) {
	in := sampleInput()
	in.Audit = nil
	in.Catalog = nil
	got, err := NewTextGenerator(fixedClock).Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "Corner Radius Audit") {
		t.Fatal("expected no audit section without an audit log")
	}
	if !strings.Contains(got, "Reference library: core\n") {
		t.Fatalf("expected bare library id without a catalog:\n%s", got)
	}
}

func TestTextGenerator_SamplesFirstTwentyExcluded(t *testing.T) {
	in := sampleInput()
	log := audit.NewLog()
	for i := 0; i < 25; i++ {
		log.Append(audit.Entry{NodeID: fmt.Sprintf("n%d", i), NodeName: fmt.Sprintf("Node %d", i), DecisionPath: audit.PathNoneMissing})
	}
	in.Audit = log
	got, err := NewTextGenerator(fixedClock).Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Excluded Entries (first 20 of 25)") {
		t.Fatalf("missing sample header:\n%s", got)
	}
	if !strings.Contains(got, "- Node 19 ") || strings.Contains(got, "- Node 20 ") {
		t.Fatal("expected exactly the first 20 excluded entries")
	}
}

func TestTextGenerator_UnknownCategory(t *testing.T) {
	in := sampleInput()
	in.Issues = append(in.Issues, lint.Issue{NodeID: "x", Category: lint.Category("shadow")})
	if _, err := NewTextGenerator(fixedClock).Generate(in); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
