package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tokenlint/internal/core/config"
	"tokenlint/internal/core/ports"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/scan"
	"tokenlint/internal/shared/util"
	"tokenlint/internal/ui/report"
)

// Deps are the adapters an App drives. History is optional.
type Deps struct {
	Documents ports.DocumentProvider
	Libraries ports.LibraryCatalogProvider
	Resolver  ports.BindingResolver
	History   ports.HistoryStore
	Clock     func() time.Time
	Version   string
}

// App owns one lint session: its configuration, the library catalog and the latest result.
type App struct {
	cfg atomic.Pointer[config.Config]

	docs     ports.DocumentProvider
	libs     ports.LibraryCatalogProvider
	resolver ports.BindingResolver
	history  ports.HistoryStore
	limiter  *util.Limiter
	reporter *report.Generator
	clock    func() time.Time

	// scanMu serializes scans; only one runs at a time.
	scanMu sync.Mutex

	catalogMu sync.Mutex
	catalog   *lint.Catalog

	latest atomic.Pointer[scanState]
}

type scanState struct {
	summary  ports.ScanSummary
	result   scan.Result
	settings lint.Settings
	catalog  *lint.Catalog
	document string
}

func New(cfg *config.Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Documents == nil {
		return nil, fmt.Errorf("document provider is required")
	}
	if deps.Libraries == nil {
		return nil, fmt.Errorf("library catalog provider is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	a := &App{
		docs:     deps.Documents,
		libs:     deps.Libraries,
		resolver: deps.Resolver,
		history:  deps.History,
		limiter:  util.NewLimiter(cfg.Resolver.RateLimit, cfg.Resolver.Burst),
		reporter: report.NewGenerator(clock, deps.Version),
		clock:    clock,
	}
	a.cfg.Store(cfg)
	return a, nil
}

// SetConfig swaps the session configuration. It takes effect on the next scan.
func (a *App) SetConfig(cfg *config.Config) {
	a.scanMu.Lock()
	defer a.scanMu.Unlock()
	a.cfg.Store(cfg)
	a.limiter = util.NewLimiter(cfg.Resolver.RateLimit, cfg.Resolver.Burst)
}

// Config returns the current session configuration. Callers must not mutate it.
func (a *App) Config() *config.Config {
	return a.cfg.Load()
}

// InvalidateCatalog drops the cached library catalog so the next scan lists libraries again.
func (a *App) InvalidateCatalog() {
	a.catalogMu.Lock()
	a.catalog = nil
	a.catalogMu.Unlock()
}

// catalogFor lists libraries once per session.
func (a *App) catalogFor(ctx context.Context) (*lint.Catalog, error) {
	a.catalogMu.Lock()
	defer a.catalogMu.Unlock()
	if a.catalog != nil {
		return a.catalog, nil
	}
	libs, err := a.libs.Libraries(ctx)
	if err != nil {
		return nil, err
	}
	a.catalog = lint.NewCatalog(libs)
	slog.Debug("library catalog loaded", "libraries", len(a.catalog.Libraries()))
	return a.catalog, nil
}

// Latest returns the summary of the most recent successful scan.
func (a *App) Latest() (ports.ScanSummary, bool) {
	st := a.latest.Load()
	if st == nil {
		return ports.ScanSummary{}, false
	}
	return st.summary, true
}

// LatestIssues returns the deduplicated issues of the most recent successful scan.
func (a *App) LatestIssues() []lint.Issue {
	st := a.latest.Load()
	if st == nil {
		return nil
	}
	out := make([]lint.Issue, len(st.result.Issues))
	copy(out, st.result.Issues)
	return out
}
