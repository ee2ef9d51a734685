// Package traversal walks a document snapshot and feeds lintable nodes to the checkers.
package traversal

import (
	"context"
	"fmt"
	"log/slog"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/exceptions"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/provenance"
	"tokenlint/internal/engine/rules"
)

// DefaultMaxNodes caps the total node count of one scan.
const DefaultMaxNodes = 5000

// NodeLimitError is returned before any evaluation when the roots hold too many nodes.
type NodeLimitError struct {
	Count int
	Limit int
}

func (e *NodeLimitError) Error() string {
	return fmt.Sprintf("selection contains %d nodes, limit is %d", e.Count, e.Limit)
}

// Stats summarizes one walk.
type Stats struct {
	Total     int
	Visited   int
	Pruned    int
	Excepted  int
	Evaluated int
	Failed    int
}

type Walker struct {
	settings   lint.Settings
	matcher    *exceptions.Matcher
	rules      *rules.Evaluator
	provenance *provenance.Checker
	maxNodes   int
}

func NewWalker(settings lint.Settings, evaluator *rules.Evaluator, checker *provenance.Checker, maxNodes int) *Walker {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &Walker{
		settings:   settings,
		matcher:    exceptions.NewMatcher(settings.Exceptions),
		rules:      evaluator,
		provenance: checker,
		maxNodes:   maxNodes,
	}
}

// Lintable reports whether n carries at least one checkable property group.
func Lintable(n *document.Node) bool {
	if n == nil || n.Kind.IsContainer() {
		return false
	}
	return n.Kind == document.KindText ||
		n.Fills != nil ||
		n.Strokes != nil ||
		n.Radius != nil ||
		n.Layout.Active()
}

// Plan returns the nodes to evaluate, depth-first with parents before children.
func (w *Walker) Plan(roots []*document.Node) ([]*document.Node, Stats) {
	var stats Stats
	out := make([]*document.Node, 0)
	var visit func(nodes []*document.Node)
	visit = func(nodes []*document.Node) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if w.pruned(n) {
				stats.Pruned++
				continue
			}
			stats.Visited++
			switch {
			case n.Kind.IsContainer():
			case w.matcher.Match(n.Name):
				stats.Excepted++
			case Lintable(n):
				out = append(out, n)
			}
			visit(n.Children)
		}
	}
	visit(roots)
	return out, stats
}

func (w *Walker) pruned(n *document.Node) bool {
	if w.settings.ExcludeLocked && n.Locked {
		return true
	}
	if w.settings.ExcludeHidden && !n.Visible {
		return true
	}
	return false
}

// Walk checks the node cap, then evaluates every planned node. A node that fails contributes
// no issues and no audit entries; the walk continues with the next node.
func (w *Walker) Walk(ctx context.Context, roots []*document.Node, log *audit.Log) ([]lint.Issue, Stats, error) {
	total := document.Count(roots)
	if total > w.maxNodes {
		return nil, Stats{Total: total}, &NodeLimitError{Count: total, Limit: w.maxNodes}
	}

	nodes, stats := w.Plan(roots)
	stats.Total = total
	issues := make([]lint.Issue, 0)
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		found, entries, err := w.evaluate(ctx, n)
		if err != nil {
			stats.Failed++
			slog.Warn("node evaluation failed", "node", n.ID, "name", n.Name, "kind", n.Kind, "error", err)
			continue
		}
		stats.Evaluated++
		issues = append(issues, found...)
		for _, e := range entries {
			log.Append(e)
		}
	}
	return issues, stats, nil
}

func (w *Walker) evaluate(ctx context.Context, n *document.Node) (issues []lint.Issue, entries []audit.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues, entries = nil, nil
			err = fmt.Errorf("evaluate node %s: %v", n.ID, r)
		}
	}()
	scratch := audit.NewLog()
	if w.rules != nil {
		issues = append(issues, w.rules.Evaluate(n, scratch)...)
	}
	if w.provenance.Active() {
		issues = append(issues, w.provenance.Check(ctx, n)...)
	}
	return issues, scratch.Entries(), nil
}
