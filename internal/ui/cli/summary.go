package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"tokenlint/internal/core/ports"
	"tokenlint/internal/data/history"
	"tokenlint/internal/engine/lint"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	docStyle = lipgloss.NewStyle().MarginLeft(2)

	issueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// maxSummaryNodes bounds the per-node breakdown printed under the category counts.
const maxSummaryNodes = 20

// renderSummary formats a scan summary and its per-node breakdown for the terminal.
func renderSummary(s ports.ScanSummary, issues []lint.Issue) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tokenlint: "+s.Document) + "\n")

	if s.TotalIssues == 0 {
		b.WriteString(docStyle.Render(successStyle.Render("No issues found.")) + "\n")
	} else {
		b.WriteString(docStyle.Render(issueStyle.Render(fmt.Sprintf("%d issues", s.TotalIssues))) + "\n")
		for _, c := range lint.Categories {
			n := s.Counts[c]
			if n == 0 {
				continue
			}
			line := fmt.Sprintf("%-14s %d", c.Label(), n)
			if s.Delta != nil && s.Delta.Previous != nil {
				line += " " + signed(s.Delta.ByCategory[string(c)])
			}
			b.WriteString(docStyle.Render(line) + "\n")
		}
		renderNodes(&b, issues)
	}

	status := fmt.Sprintf("scan %s, %d nodes, %d audit entries, %s", s.ScanID, s.NodesVisited, s.AuditEntries, s.Duration)
	if s.Delta != nil && s.Delta.Previous != nil {
		status += fmt.Sprintf(", %s since last scan", signed(s.Delta.TotalIssues))
	}
	b.WriteString(docStyle.Render(statusStyle.Render(status)) + "\n")
	return b.String()
}

func renderNodes(b *strings.Builder, issues []lint.Issue) {
	groups := lint.GroupByNode(issues)
	if len(groups) == 0 {
		return
	}
	b.WriteString(docStyle.Render(titleStyle.Render(fmt.Sprintf("%d nodes with issues", len(groups)))) + "\n")
	for i, g := range groups {
		if i == maxSummaryNodes {
			b.WriteString(docStyle.Render(statusStyle.Render(fmt.Sprintf("... %d more", len(groups)-i))) + "\n")
			break
		}
		msgs := make([]string, len(g.Issues))
		for j, issue := range g.Issues {
			msgs[j] = issue.Message
		}
		b.WriteString(docStyle.Render(fmt.Sprintf("%s (%s): %s", g.NodeName, g.NodeID, strings.Join(msgs, ", "))) + "\n")
	}
}

func printSummary(w io.Writer, s ports.ScanSummary, issues []lint.Issue) {
	fmt.Fprint(w, renderSummary(s, issues))
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("(+%d)", n)
	}
	return fmt.Sprintf("(%d)", n)
}

func printHistory(w io.Writer, document string, records []history.ScanRecord) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("tokenlint history: %s (%d scans)", document, len(records))))
	if len(records) == 0 {
		fmt.Fprintln(w, docStyle.Render(statusStyle.Render("no scans recorded")))
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		counts := r.CategoryCounts()
		row := []string{r.Timestamp.UTC().Format(time.RFC3339), strconv.Itoa(r.TotalIssues)}
		for _, c := range lint.Categories {
			row = append(row, strconv.Itoa(counts[string(c)]))
		}
		rows = append(rows, row)
	}

	headers := []string{"Timestamp", "Total"}
	for _, c := range lint.Categories {
		headers = append(headers, c.Label())
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
