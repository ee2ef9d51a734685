// Package rules flags visual properties that carry raw values instead of style or variable bindings.
package rules

import (
	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
)

const (
	MsgFill    = "Fill not linked to a style or variable"
	MsgStroke  = "Stroke not linked to a style or variable"
	MsgText    = "Text not linked to a text style or variable"
	MsgRadius  = "Corner radius not linked to a variable"
	MsgGap     = "Gap not linked to a variable"
	MsgPadding = "Padding not linked to a variable"
)

// Lookup resolves a node id inside the current snapshot.
type Lookup func(id string) (*document.Node, bool)

// textProperties are the bindable text properties; any bound one satisfies the text rule.
var textProperties = []string{"characters", document.TextStyleID, "fontName", "fontSize"}

type Evaluator struct {
	settings lint.Settings
	lookup   Lookup
}

func NewEvaluator(settings lint.Settings, lookup Lookup) *Evaluator {
	if lookup == nil {
		lookup = func(string) (*document.Node, bool) { return nil, false }
	}
	return &Evaluator{settings: settings, lookup: lookup}
}

// Evaluate runs every enabled detachment rule on n. An audit entry is recorded in log only
// when the radius category is enabled and n has a corner radius.
func (e *Evaluator) Evaluate(n *document.Node, log *audit.Log) []lint.Issue {
	if n == nil {
		return nil
	}
	issues := make([]lint.Issue, 0)
	if e.settings.Enabled(lint.CategoryFill) {
		if issue, ok := e.checkFill(n); ok {
			issues = append(issues, issue)
		}
	}
	if e.settings.Enabled(lint.CategoryStroke) {
		if issue, ok := e.checkStroke(n); ok {
			issues = append(issues, issue)
		}
	}
	if e.settings.Enabled(lint.CategoryText) {
		if issue, ok := e.checkText(n); ok {
			issues = append(issues, issue)
		}
	}
	if e.settings.Enabled(lint.CategoryRadius) && n.Radius != nil {
		issue, entry := e.checkRadius(n)
		if log != nil {
			log.Append(entry)
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}
	if e.settings.Enabled(lint.CategoryGap) {
		if issue, ok := e.checkGap(n); ok {
			issues = append(issues, issue)
		}
	}
	if e.settings.Enabled(lint.CategoryPadding) {
		if issue, ok := e.checkPadding(n); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (e *Evaluator) checkFill(n *document.Node) (lint.Issue, bool) {
	if len(n.Fills) == 0 || !n.Fills[0].IsSolid() {
		return lint.Issue{}, false
	}
	if n.HasStyle(document.FillStyle) || n.HasVariable("fills") {
		return lint.Issue{}, false
	}
	return lint.NewIssue(n, lint.CategoryFill, MsgFill), true
}

func (e *Evaluator) checkStroke(n *document.Node) (lint.Issue, bool) {
	if len(n.Strokes) == 0 || !n.Strokes[0].IsSolid() {
		return lint.Issue{}, false
	}
	if n.HasStyle(document.StrokeStyle) || n.HasVariable("strokes") {
		return lint.Issue{}, false
	}
	return lint.NewIssue(n, lint.CategoryStroke, MsgStroke), true
}

func (e *Evaluator) checkText(n *document.Node) (lint.Issue, bool) {
	if n.Kind != document.KindText {
		return lint.Issue{}, false
	}
	if n.HasStyle(document.TextStyleID) {
		return lint.Issue{}, false
	}
	for _, prop := range textProperties {
		if n.HasVariable(prop) {
			return lint.Issue{}, false
		}
	}
	return lint.NewIssue(n, lint.CategoryText, MsgText), true
}

func (e *Evaluator) checkGap(n *document.Node) (lint.Issue, bool) {
	l := n.Layout
	if !l.Active() || l.ItemSpacing <= 0 {
		return lint.Issue{}, false
	}
	if n.HasVariable("itemSpacing") || l.PrimaryAxisAlign == document.AlignSpaceBetween {
		return lint.Issue{}, false
	}
	issue := lint.NewIssue(n, lint.CategoryGap, MsgGap)
	issue.Details = document.FormatNumber(l.ItemSpacing)
	issue.LayoutContext = layoutContext(l)
	return issue, true
}

func (e *Evaluator) checkPadding(n *document.Node) (lint.Issue, bool) {
	l := n.Layout
	if l == nil {
		return lint.Issue{}, false
	}
	unbound := func(v float64, prop string) bool {
		return v > 0 && !n.HasVariable(prop)
	}
	horizontal := unbound(l.PaddingLeft, "paddingLeft") || unbound(l.PaddingRight, "paddingRight")
	vertical := unbound(l.PaddingTop, "paddingTop") || unbound(l.PaddingBottom, "paddingBottom")

	var details string
	switch {
	case horizontal && vertical:
		details = "all"
	case horizontal:
		details = "horizontal"
	case vertical:
		details = "vertical"
	default:
		return lint.Issue{}, false
	}
	issue := lint.NewIssue(n, lint.CategoryPadding, MsgPadding)
	issue.Details = details
	issue.LayoutContext = layoutContext(l)
	return issue, true
}

func layoutContext(l *document.AutoLayout) string {
	switch {
	case l == nil || !l.Active():
		return "no auto-layout"
	case l.Mode == document.LayoutHorizontal:
		return "horizontal auto-layout"
	default:
		return "vertical auto-layout"
	}
}
