package rules

import (
	"fmt"
	"strings"

	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
)

const aggregateRadius = "cornerRadius"

// checkRadius decides the radius rule and always returns the audit entry for the decision.
// Order matters: binding-based exclusions run before the aggregate check, which runs before
// the per-corner check.
func (e *Evaluator) checkRadius(n *document.Node) (*lint.Issue, audit.Entry) {
	r := n.Radius
	insp := audit.Inspection{
		UniformIndividualCorners: uniformIndividualCorners(r),
		InheritedVariables:       e.inheritsRadiusVariables(n),
		EffectStyle:              n.HasStyle(document.EffectStyle),
	}
	insp.AnyRadiusBinding = hasRadiusVariable(n) || insp.InheritedVariables || insp.EffectStyle
	insp.AllCornersHaveVariables = allCornersHaveVariables(n)

	entry := audit.Entry{
		NodeID:     n.ID,
		NodeName:   n.Name,
		NodeKind:   n.Kind,
		Radius:     audit.ValuesOf(r),
		Inspection: insp,
		Bindings:   radiusBindings(n),
	}

	switch {
	case (insp.InheritedVariables || insp.AnyRadiusBinding) && insp.AllCornersHaveVariables:
		entry.DecisionPath = audit.PathNecessaryBindings
		return nil, entry

	// Reachable only when the branch above already matched; kept so the label stays stable.
	case insp.UniformIndividualCorners && insp.AnyRadiusBinding && insp.AllCornersHaveVariables:
		entry.DecisionPath = audit.PathUniformWithVars
		return nil, entry

	case r.Aggregate.Positive() && !n.HasVariable(aggregateRadius):
		issue := lint.NewIssue(n, lint.CategoryRadius, MsgRadius)
		issue.Details = "uniform"
		entry.IsIssue = true
		entry.DecisionPath = audit.PathUniformNoVars
		entry.Details = "cornerRadius=" + r.Aggregate.String()
		return &issue, entry

	case r.HasIndividual():
		missing := make([]string, 0, len(document.Corners))
		for _, c := range document.Corners {
			v := r.Corner(c)
			if v == nil || *v <= 0 || n.HasVariable(c.Property()) {
				continue
			}
			missing = append(missing, fmt.Sprintf("%s: %s", c, document.FormatNumber(*v)))
		}
		if len(missing) == 0 {
			entry.DecisionPath = audit.PathNoneMissing
			return nil, entry
		}
		issue := lint.NewIssue(n, lint.CategoryRadius, MsgRadius)
		entry.IsIssue = true
		if allCornersEqual(r) {
			issue.Details = "uniform"
			entry.DecisionPath = audit.PathUniformCornersNoVars
		} else {
			issue.Details = "mixed (" + strings.Join(missing, ", ") + ")"
			entry.DecisionPath = audit.PathMixedCornersNoVars
		}
		entry.Details = "missing " + strings.Join(missing, ", ")
		return &issue, entry
	}

	entry.DecisionPath = audit.PathNoneMissing
	return nil, entry
}

// inheritsRadiusVariables is true for instances whose main component binds the radius.
func (e *Evaluator) inheritsRadiusVariables(n *document.Node) bool {
	if n.Kind != document.KindInstance || n.MainComponentID == "" {
		return false
	}
	main, ok := e.lookup(n.MainComponentID)
	if !ok || main == nil || main == n {
		return false
	}
	return hasRadiusVariable(main)
}

func hasRadiusVariable(n *document.Node) bool {
	if n.HasVariable(aggregateRadius) {
		return true
	}
	for _, c := range document.Corners {
		if n.HasVariable(c.Property()) {
			return true
		}
	}
	return false
}

func allCornersHaveVariables(n *document.Node) bool {
	for _, c := range document.Corners {
		v := n.Radius.Corner(c)
		if v == nil || *v == 0 {
			continue
		}
		if !n.HasVariable(c.Property()) {
			return false
		}
	}
	return true
}

func uniformIndividualCorners(r *document.CornerRadius) bool {
	return allCornersEqual(r) && *r.TopLeft > 0
}

func allCornersEqual(r *document.CornerRadius) bool {
	if r == nil || r.TopLeft == nil || r.TopRight == nil || r.BottomLeft == nil || r.BottomRight == nil {
		return false
	}
	v := *r.TopLeft
	return *r.TopRight == v && *r.BottomLeft == v && *r.BottomRight == v
}

func radiusBindings(n *document.Node) []string {
	out := make([]string, 0)
	props := []string{aggregateRadius}
	for _, c := range document.Corners {
		props = append(props, c.Property())
	}
	for _, p := range props {
		if b, ok := n.Variable(p); ok {
			out = append(out, p+"="+b.ID)
		}
	}
	if b, ok := n.Style(document.EffectStyle); ok {
		out = append(out, document.EffectStyle+"="+b.ID)
	}
	return out
}
