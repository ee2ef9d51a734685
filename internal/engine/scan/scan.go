// Package scan runs one complete, stateless lint pass over a set of root nodes.
package scan

import (
	"context"
	stderrors "errors"
	"fmt"

	"tokenlint/internal/core/errors"
	"tokenlint/internal/engine/audit"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/provenance"
	"tokenlint/internal/engine/rules"
	"tokenlint/internal/engine/traversal"
)

type Request struct {
	Roots    []*document.Node
	Settings lint.Settings
	Catalog  *lint.Catalog
	Resolver provenance.Resolver
	// Lookup resolves main components of instances.
	Lookup   rules.Lookup
	MaxNodes int
	// MaxRoots limits how many top-level frames may be scanned at once. Zero disables the check.
	MaxRoots int
}

// Result is the complete output of one scan. Callers replace their previous result with it.
type Result struct {
	Issues   []lint.Issue
	RawCount int
	Counts   map[lint.Category]int
	Audit    *audit.Log
	Stats    traversal.Stats
}

// Run validates the selection, walks it and aggregates the findings. Precondition failures are
// returned as *errors.SelectionError with an empty result.
func Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Roots) == 0 {
		return Result{}, errors.NewSelectionError("Nothing to lint", "Select at least one layer, or open a page with content.")
	}
	if req.MaxRoots > 0 && len(req.Roots) > req.MaxRoots {
		return Result{}, errors.NewSelectionError(
			"Too many frames selected",
			fmt.Sprintf("%d top-level layers selected; select at most %d.", len(req.Roots), req.MaxRoots),
		)
	}

	evaluator := rules.NewEvaluator(req.Settings, req.Lookup)
	var checker *provenance.Checker
	if req.Settings.HasReferenceLibrary() && req.Resolver != nil {
		checker = provenance.NewChecker(req.Settings, req.Catalog, req.Resolver)
	}
	walker := traversal.NewWalker(req.Settings, evaluator, checker, req.MaxNodes)

	log := audit.NewLog()
	raw, stats, err := walker.Walk(ctx, req.Roots, log)
	if err != nil {
		var limitErr *traversal.NodeLimitError
		if stderrors.As(err, &limitErr) {
			return Result{}, errors.NewSelectionError(
				"Selection too large",
				fmt.Sprintf("The selection contains %d layers; the limit is %d. Select fewer frames.", limitErr.Count, limitErr.Limit),
			)
		}
		return Result{}, errors.Wrap(err, errors.CodeInternal, "scan failed")
	}

	issues := lint.Deduplicate(raw)
	return Result{
		Issues:   issues,
		RawCount: len(raw),
		Counts:   lint.CountByCategory(issues),
		Audit:    log,
		Stats:    stats,
	}, nil
}
