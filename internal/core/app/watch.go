package app

import (
	"context"
	"log/slog"

	"tokenlint/internal/core/ports"
)

// Reloader is implemented by providers that cache their source and can re-read it.
type Reloader interface {
	Reload() error
}

// HandleChanges reloads file-backed providers and runs a full scan. A failed reload keeps the
// previous snapshot so the rescan still reflects the last good input.
func (a *App) HandleChanges(ctx context.Context, paths []string, req ports.ScanRequest) (ports.ScanSummary, error) {
	slog.Info("inputs changed", "paths", paths)

	if r, ok := a.docs.(Reloader); ok {
		if err := r.Reload(); err != nil {
			slog.Warn("reload failed, keeping previous snapshot", "error", err)
		}
	}
	if r, ok := a.libs.(Reloader); ok && any(a.libs) != any(a.docs) {
		if err := r.Reload(); err != nil {
			slog.Warn("library reload failed", "error", err)
		}
	}
	a.InvalidateCatalog()

	return a.Scan(ctx, req)
}
