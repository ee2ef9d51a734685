// Package provenance flags bindings that point at a library other than the reference library.
package provenance

import (
	"context"
	"log/slog"

	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/exceptions"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/shared/util"
)

// Resolution describes the entity a binding points at.
type Resolution struct {
	Name      string
	LibraryID string
	Key       string
}

// Resolver looks up the style or variable behind a binding. ok is false when the id is unknown.
type Resolver interface {
	Resolve(ctx context.Context, b document.Binding) (res Resolution, ok bool, err error)
}

type Checker struct {
	settings lint.Settings
	catalog  *lint.Catalog
	resolver Resolver
	matcher  *exceptions.Matcher
}

func NewChecker(settings lint.Settings, catalog *lint.Catalog, resolver Resolver) *Checker {
	return &Checker{
		settings: settings,
		catalog:  catalog,
		resolver: resolver,
		matcher:  exceptions.NewMatcher(settings.Exceptions),
	}
}

// Active reports whether a reference library is selected.
func (c *Checker) Active() bool {
	return c != nil && c.resolver != nil && c.settings.HasReferenceLibrary()
}

// Check inspects style bindings (fill, stroke, text, effect) and then variable bindings in
// property order.
func (c *Checker) Check(ctx context.Context, n *document.Node) []lint.Issue {
	if !c.Active() || n == nil || len(n.Bindings) == 0 {
		return nil
	}
	issues := make([]lint.Issue, 0)
	for _, key := range document.StyleKeys {
		if b, ok := n.Style(key); ok {
			if issue, flagged := c.checkBinding(ctx, n, key, b); flagged {
				issues = append(issues, issue)
			}
		}
	}
	for _, prop := range variableProperties(n) {
		b, _ := n.Variable(prop)
		if issue, flagged := c.checkBinding(ctx, n, prop, b); flagged {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (c *Checker) checkBinding(ctx context.Context, n *document.Node, property string, b document.Binding) (lint.Issue, bool) {
	category := InferCategory(property)
	if !c.settings.Enabled(category) {
		return lint.Issue{}, false
	}
	res, ok, err := c.resolver.Resolve(ctx, b)
	if err != nil {
		slog.Warn("binding resolution failed", "node", n.ID, "property", property, "binding", b.ID, "error", err)
		return lint.Issue{}, false
	}
	if !ok {
		return lint.Issue{}, false
	}
	libraryID := res.LibraryID
	if libraryID == "" {
		lib, _, parsed := SplitRef(b.ID)
		if !parsed {
			return lint.Issue{}, false
		}
		libraryID = lib
	}
	if c.matcher.Match(res.Name) {
		return lint.Issue{}, false
	}
	if libraryID == lint.LocalLibrary || libraryID == c.settings.ReferenceLibraryID {
		return lint.Issue{}, false
	}

	issue := lint.NewIssue(n, category, lint.WrongLibraryMessage(category))
	issue.Details = res.Name
	issue.SourceLibraryID = libraryID
	issue.SourceLibraryName = c.catalog.Name(libraryID)
	return issue, true
}

func variableProperties(n *document.Node) []string {
	vars := make(map[string]document.Binding, len(n.Bindings))
	for prop, b := range n.Bindings {
		if b.Kind == document.BindingVariable && b.ID != "" {
			vars[prop] = b
		}
	}
	return util.SortedStringKeys(vars)
}
