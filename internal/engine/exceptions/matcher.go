// Package exceptions decides whether a layer, style or variable name is exempt from lint checks.
package exceptions

import (
	"strings"

	"github.com/gobwas/glob"
)

// Matcher holds a compiled exception set.
type Matcher struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	raw  string
	glob glob.Glob
}

// Normalize trims patterns and drops empty entries, preserving order.
func Normalize(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// NewMatcher compiles patterns. A trailing '*' makes a prefix match, anything else is a
// substring match. Both are case-insensitive and every other character is literal.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, raw := range Normalize(patterns) {
		lower := strings.ToLower(raw)
		var expr string
		if strings.HasSuffix(lower, "*") {
			expr = glob.QuoteMeta(strings.TrimSuffix(lower, "*")) + "*"
		} else {
			expr = "*" + glob.QuoteMeta(lower) + "*"
		}
		g, err := glob.Compile(expr)
		if err != nil {
			continue
		}
		m.patterns = append(m.patterns, compiledPattern{raw: raw, glob: g})
	}
	return m
}

// Empty reports whether the matcher has no usable patterns.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Patterns returns the raw patterns the matcher was built from.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p.raw)
	}
	return out
}

// Match reports whether text is covered by any pattern.
func (m *Matcher) Match(text string) bool {
	if text == "" || m.Empty() {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range m.patterns {
		if p.glob.Match(lower) {
			return true
		}
	}
	return false
}

// Matches is the one-shot form of NewMatcher(patterns).Match(text).
func Matches(text string, patterns []string) bool {
	if text == "" || len(patterns) == 0 {
		return false
	}
	return NewMatcher(patterns).Match(text)
}
