package formats

import (
	"fmt"
	"strings"
	"time"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/lint"
)

// NoIssuesLine is the whole report when a scan found nothing.
const NoIssuesLine = "No issues found. All checked properties are linked to styles or variables."

// NonIssueSampleSize caps the excluded audit entries listed in a report.
const NonIssueSampleSize = 20

type TextGenerator struct {
	clock Clock
}

func NewTextGenerator(clock Clock) *TextGenerator {
	return &TextGenerator{clock: clock}
}

// Generate renders the plain-text report. The output depends only on in and the clock.
func (g *TextGenerator) Generate(in Input) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	if len(in.Issues) == 0 {
		return NoIssuesLine + "\n", nil
	}

	var b strings.Builder
	writeHeader(&b, len(in.Issues), g.clock.now(), in.Document)
	writeSettings(&b, in.Settings, in.Catalog)
	writeIssues(&b, in.Issues)
	if in.Audit != nil {
		writeAudit(&b, in.Audit)
	}
	return b.String(), nil
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(title)))
	b.WriteString("\n")
}

func writeHeader(b *strings.Builder, total int, ts time.Time, document string) {
	b.WriteString("DESIGN TOKEN LINT REPORT\n")
	b.WriteString("========================\n")
	if document != "" {
		fmt.Fprintf(b, "Document: %s\n", document)
	}
	fmt.Fprintf(b, "Generated: %s\n", ts.Format(time.RFC3339))
	fmt.Fprintf(b, "Total issues: %d\n", total)
}

func writeSettings(b *strings.Builder, s lint.Settings, catalog *lint.Catalog) {
	writeSection(b, "Settings")
	ref := "none"
	if s.HasReferenceLibrary() {
		ref = s.ReferenceLibraryID
		if catalog != nil && catalog.Has(s.ReferenceLibraryID) {
			ref = fmt.Sprintf("%s (%s)", catalog.Name(s.ReferenceLibraryID), s.ReferenceLibraryID)
		}
	}
	fmt.Fprintf(b, "Reference library: %s\n", ref)
	fmt.Fprintf(b, "Exclude locked layers: %s\n", yesNo(s.ExcludeLocked))
	fmt.Fprintf(b, "Exclude hidden layers: %s\n", yesNo(s.ExcludeHidden))

	labels := make([]string, 0, len(lint.Categories))
	for _, c := range s.EnabledCategories() {
		labels = append(labels, c.Label())
	}
	fmt.Fprintf(b, "Enabled categories: %s\n", joinOrNone(labels))
	fmt.Fprintf(b, "Exceptions: %s\n", joinOrNone(s.Exceptions))
}

func writeIssues(b *strings.Builder, issues []lint.Issue) {
	grouped := lint.GroupByCategory(issues)
	for _, c := range lint.Categories {
		bucket := grouped[c]
		if len(bucket) == 0 {
			continue
		}
		writeSection(b, fmt.Sprintf("%s (%d)", c.Label(), len(bucket)))
		for _, issue := range bucket {
			fmt.Fprintf(b, "- %s: %s\n", issue.NodeName, issue.Message)
			if issue.Details != "" {
				fmt.Fprintf(b, "  Details: %s\n", issue.Details)
			}
			if issue.SourceLibraryID != "" {
				fmt.Fprintf(b, "  Source library: %s (%s)\n", issue.SourceLibraryName, issue.SourceLibraryID)
			}
			if issue.LayoutContext != "" {
				fmt.Fprintf(b, "  Layout: %s\n", issue.LayoutContext)
			}
			fmt.Fprintf(b, "  Node ID: %s\n", issue.NodeID)
		}
	}
}

func writeAudit(b *strings.Builder, log *audit.Log) {
	entries := log.Entries()
	issues := log.IssueCount()

	writeSection(b, "Corner Radius Audit")
	fmt.Fprintf(b, "Nodes inspected: %d\n", len(entries))
	fmt.Fprintf(b, "Issues: %d\n", issues)
	fmt.Fprintf(b, "Excluded: %d\n", len(entries)-issues)

	writeSection(b, "Decision Paths")
	for _, pc := range log.PathCounts() {
		fmt.Fprintf(b, "%s: %d\n", pc.Path, pc.Count)
	}

	writeSection(b, "Issue Entries")
	for _, e := range entries {
		if e.IsIssue {
			writeEntry(b, e)
		}
	}

	excluded := len(entries) - issues
	shown := excluded
	if shown > NonIssueSampleSize {
		shown = NonIssueSampleSize
	}
	writeSection(b, fmt.Sprintf("Excluded Entries (first %d of %d)", shown, excluded))
	n := 0
	for _, e := range entries {
		if e.IsIssue {
			continue
		}
		if n == NonIssueSampleSize {
			break
		}
		writeEntry(b, e)
		n++
	}
}

func writeEntry(b *strings.Builder, e audit.Entry) {
	fmt.Fprintf(b, "- %s [%s] (%s)\n", e.NodeName, e.NodeKind, e.NodeID)
	fmt.Fprintf(b, "  Path: %s\n", e.DecisionPath)
	fmt.Fprintf(b, "  Radius: cornerRadius=%s topLeft=%s topRight=%s bottomLeft=%s bottomRight=%s\n",
		e.Radius.Aggregate, e.Radius.TopLeft, e.Radius.TopRight, e.Radius.BottomLeft, e.Radius.BottomRight)
	in := e.Inspection
	fmt.Fprintf(b, "  Checks: uniformCorners=%t inheritedVariables=%t anyRadiusBinding=%t allCornersHaveVariables=%t effectStyle=%t\n",
		in.UniformIndividualCorners, in.InheritedVariables, in.AnyRadiusBinding, in.AllCornersHaveVariables, in.EffectStyle)
	fmt.Fprintf(b, "  Bindings: %s\n", joinOrNone(e.Bindings))
	if e.Details != "" {
		fmt.Fprintf(b, "  Details: %s\n", e.Details)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
