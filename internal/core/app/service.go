package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tokenlint/internal/core/config"
	"tokenlint/internal/core/errors"
	"tokenlint/internal/core/ports"
	"tokenlint/internal/data/history"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/scan"
	"tokenlint/internal/shared/observability"
	"tokenlint/internal/ui/report"
)

var _ ports.LintService = (*App)(nil)

// Scan runs one full lint pass and replaces the latest result on success. Selection failures
// return a *errors.SelectionError and leave the latest result untouched.
func (a *App) Scan(ctx context.Context, req ports.ScanRequest) (ports.ScanSummary, error) {
	ctx, span := observability.Tracer.Start(ctx, "lintService.Scan", trace.WithAttributes(
		attribute.Int("roots.requested", len(req.Roots)),
	))
	defer span.End()

	a.scanMu.Lock()
	defer a.scanMu.Unlock()

	started := a.clock()
	cfg := a.Config()
	settings := cfg.ToSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	snap, err := a.docs.Snapshot(ctx)
	if err != nil {
		observability.ScansTotal.WithLabelValues("error").Inc()
		return ports.ScanSummary{}, errors.AddContext(err, errors.CtxOperation, "snapshot")
	}

	roots, maxRoots, err := selectRoots(cfg.Limits, snap, req.Roots)
	if err != nil {
		observability.ScansTotal.WithLabelValues("error").Inc()
		return ports.ScanSummary{}, err
	}

	catalog, err := a.catalogFor(ctx)
	if err != nil {
		observability.ScansTotal.WithLabelValues("error").Inc()
		return ports.ScanSummary{}, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "listing libraries"), errors.CtxOperation, "catalog")
	}

	var resolver ports.BindingResolver
	if a.resolver != nil {
		resolver = newScanResolver(a.resolver, a.limiter, cfg.Resolver.CacheEnabled())
	}

	res, err := scan.Run(ctx, scan.Request{
		Roots:    roots,
		Settings: settings,
		Catalog:  catalog,
		Resolver: resolver,
		Lookup:   snap.Lookup,
		MaxNodes: cfg.Limits.MaxNodes,
		MaxRoots: maxRoots,
	})
	if err != nil {
		span.RecordError(err)
		if _, ok := errors.AsSelection(err); ok {
			observability.SelectionErrorsTotal.Inc()
			observability.ScansTotal.WithLabelValues("rejected").Inc()
			slog.Warn("scan rejected", "document", snap.Name, "error", err)
			return ports.ScanSummary{}, err
		}
		observability.ScansTotal.WithLabelValues("error").Inc()
		return ports.ScanSummary{}, err
	}

	summary := ports.ScanSummary{
		ScanID:       uuid.NewString(),
		Document:     snap.Name,
		StartedAt:    started,
		TotalIssues:  len(res.Issues),
		RawIssues:    res.RawCount,
		Counts:       res.Counts,
		NodesVisited: res.Stats.Visited,
		AuditEntries: res.Audit.Len(),
	}

	if a.history != nil {
		_, delta, herr := a.history.Record(ctx, recordFor(summary, settings))
		if herr != nil {
			// History is best effort; the scan result stands.
			slog.Warn("failed to record scan history", "scan_id", summary.ScanID, "error", herr)
		} else {
			summary.Delta = &delta
		}
	}

	summary.Duration = a.clock().Sub(started)
	observability.ScansTotal.WithLabelValues("ok").Inc()
	observability.ScanDuration.Observe(summary.Duration.Seconds())
	observability.NodesVisited.Set(float64(res.Stats.Visited))
	observability.NodeFailuresTotal.Add(float64(res.Stats.Failed))
	for _, c := range lint.Categories {
		observability.IssuesByCategory.WithLabelValues(string(c)).Set(float64(res.Counts[c]))
	}

	a.latest.Store(&scanState{
		summary:  summary,
		result:   res,
		settings: settings,
		catalog:  catalog,
		document: snap.Name,
	})

	span.SetAttributes(
		attribute.Int("issues.total", summary.TotalIssues),
		attribute.Int("nodes.visited", summary.NodesVisited),
	)
	slog.Info("scan complete",
		"scan_id", summary.ScanID,
		"document", summary.Document,
		"issues", summary.TotalIssues,
		"raw_issues", summary.RawIssues,
		"nodes", summary.NodesVisited,
		"duration", summary.Duration,
	)
	return summary, nil
}

// selectRoots picks the scan roots: explicit ids, then the document selection, then the page
// when allowed. The returned root limit only applies to explicit selections.
func selectRoots(limits config.Limits, snap *document.Snapshot, ids []string) ([]*document.Node, int, error) {
	maxRoots := limits.MaxSelection
	if len(ids) > 0 {
		roots := make([]*document.Node, 0, len(ids))
		for _, id := range ids {
			n, ok := snap.Lookup(id)
			if !ok {
				return nil, 0, errors.AddContext(errors.New(errors.CodeNotFound, "root node not found"), errors.CtxNode, id)
			}
			roots = append(roots, n)
		}
		return roots, maxRoots, nil
	}
	if roots := snap.SelectedNodes(); len(roots) > 0 {
		return roots, maxRoots, nil
	}
	if limits.PageFallback() {
		return snap.PageNodes(), 0, nil
	}
	return nil, maxRoots, nil
}

func recordFor(s ports.ScanSummary, settings lint.Settings) history.ScanRecord {
	rec := history.ScanRecord{
		ScanID:           s.ScanID,
		Timestamp:        s.StartedAt,
		Document:         s.Document,
		ReferenceLibrary: settings.ReferenceLibraryID,
		TotalIssues:      s.TotalIssues,
		RawIssues:        s.RawIssues,
		NodesVisited:     s.NodesVisited,
		AuditEntries:     s.AuditEntries,
	}
	counts := make(map[string]int, len(s.Counts))
	for c, n := range s.Counts {
		counts[string(c)] = n
	}
	rec.SetCategoryCounts(counts)
	return rec
}

// Report renders the latest result. Failures never modify it.
func (a *App) Report(ctx context.Context, req ports.ReportRequest) (string, error) {
	_, span := observability.Tracer.Start(ctx, "lintService.Report", trace.WithAttributes(
		attribute.String("format", req.Format),
	))
	defer span.End()

	format, err := report.ParseFormat(req.Format)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeValidationError, "invalid report format")
	}
	st := a.latest.Load()
	if st == nil {
		return "", errors.New(errors.CodeReport, "no scan results to report; run a scan first")
	}
	out, err := a.reporter.Generate(format, report.Input{
		Issues:   st.result.Issues,
		Settings: st.settings,
		Catalog:  st.catalog,
		Audit:    st.result.Audit,
		Document: st.document,
	})
	if err != nil {
		span.RecordError(err)
		return "", errors.AddContext(errors.Wrap(err, errors.CodeReport, "report generation failed"), errors.CtxOperation, string(format))
	}
	return out, nil
}
