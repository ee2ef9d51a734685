package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	coreapp "tokenlint/internal/core/app"
	"tokenlint/internal/core/config"
	"tokenlint/internal/core/errors"
	"tokenlint/internal/core/ports"
	"tokenlint/internal/core/watcher"
	"tokenlint/internal/data/history"
	"tokenlint/internal/data/snapshot"
	"tokenlint/internal/shared/observability"
	"tokenlint/internal/shared/util"
)

// Run executes the tokenlint command line and returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

type session struct {
	opts     cliOptions
	cfgPath  string
	cwd      string
	cfg      *config.Config
	paths    config.ResolvedPaths
	provider *snapshot.FileProvider
	store    *history.Store
	app      *coreapp.App
	stdout   io.Writer
	stderr   io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "tokenlint v%s\n", versionString)
		return 0
	}

	configureLogging(stderr, opts.verbose)

	s, err := newSession(opts, stdout, stderr)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer s.close()

	if s.cfg.Observability.Enabled && s.cfg.Observability.EnableTracing {
		shutdown, err := observability.SetupTracing(ctx, s.cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			return 1
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	if opts.history {
		return s.showHistory(ctx)
	}

	code := s.scanAndEmit(ctx, "startup")
	if opts.once {
		return code
	}
	return s.watch(ctx)
}

func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newSession(opts cliOptions, stdout, stderr io.Writer) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("detect working directory: %w", err)
	}

	s := &session{opts: opts, cwd: cwd, stdout: stdout, stderr: stderr}
	s.cfgPath = opts.configPath
	if s.cfgPath == "" {
		s.cfgPath = config.FindConfig(cwd)
	}

	baseDir := cwd
	if s.cfgPath == "" {
		slog.Debug("no config file found, using defaults")
		s.cfg = config.Default()
	} else {
		if s.cfg, err = config.Load(s.cfgPath); err != nil {
			return nil, err
		}
		if s.cfgPath, err = filepath.Abs(s.cfgPath); err != nil {
			return nil, err
		}
		baseDir = filepath.Dir(s.cfgPath)
		slog.Debug("config loaded", "path", s.cfgPath)
	}
	if err := applyOverrides(s.cfg, opts); err != nil {
		return nil, err
	}

	if s.paths, err = resolvePaths(s.cfg, baseDir, cwd, opts); err != nil {
		return nil, err
	}
	if s.paths.Snapshot == "" {
		return nil, fmt.Errorf("no snapshot: set inputs.snapshot in %s or pass a snapshot path", config.DefaultConfigFile)
	}

	if s.provider, err = snapshot.NewFileProvider(s.paths.Snapshot, s.paths.Libraries); err != nil {
		return nil, err
	}

	deps := coreapp.Deps{
		Documents: s.provider,
		Libraries: s.provider,
		Resolver:  s.provider,
		Version:   versionString,
	}
	if s.cfg.DB.Enabled {
		if s.store, err = history.Open(s.paths.DBPath); err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		deps.History = history.NewAdapter(s.store)
	}

	if s.app, err = coreapp.New(s.cfg, deps); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
		s.store = nil
	}
}

// applyOverrides copies flag values onto cfg and revalidates it.
func applyOverrides(cfg *config.Config, opts cliOptions) error {
	if opts.reference != "" {
		cfg.Scan.ReferenceLibrary = opts.reference
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.serve {
		cfg.Observability.Enabled = true
	}
	if opts.history {
		cfg.DB.Enabled = true
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], errors.CodeValidationError, "invalid configuration")
	}
	return nil
}

// resolvePaths resolves config paths against the config directory and flag paths against cwd.
func resolvePaths(cfg *config.Config, baseDir, cwd string, opts cliOptions) (config.ResolvedPaths, error) {
	paths, err := config.ResolvePaths(cfg, baseDir)
	if err != nil {
		return config.ResolvedPaths{}, err
	}
	override := func(target *string, value string) {
		if value != "" {
			*target = config.ResolveRelative(cwd, value)
		}
	}
	override(&paths.Snapshot, opts.snapshot)
	override(&paths.Libraries, opts.libraries)
	override(&paths.Report, opts.report)
	override(&paths.SARIF, opts.sarif)
	return paths, nil
}

// scanAndEmit runs one scan and writes every configured output. changed lists the files that
// triggered the scan in watch mode.
func (s *session) scanAndEmit(ctx context.Context, trigger string, changed ...string) int {
	req := ports.ScanRequest{Roots: s.opts.rootIDs()}

	var (
		summary ports.ScanSummary
		err     error
	)
	if len(changed) > 0 {
		summary, err = s.app.HandleChanges(ctx, changed, req)
	} else {
		summary, err = s.app.Scan(ctx, req)
	}
	if err != nil {
		if se, ok := errors.AsSelection(err); ok {
			fmt.Fprintf(s.stderr, "%s: %s\n", se.Title, se.Message)
			return 1
		}
		slog.Error("scan failed", "trigger", trigger, "error", err)
		return 1
	}

	if err := s.writeOutputs(ctx); err != nil {
		slog.Error("failed to write reports", "error", err)
		return 1
	}

	if s.opts.print {
		out, err := s.app.Report(ctx, ports.ReportRequest{Format: s.cfg.Output.Format})
		if err != nil {
			slog.Error("failed to render report", "error", err)
			return 1
		}
		fmt.Fprint(s.stdout, out)
		return 0
	}
	printSummary(s.stdout, summary, s.app.LatestIssues())
	return 0
}

func (s *session) writeOutputs(ctx context.Context) error {
	targets := []struct {
		path   string
		format string
	}{
		{s.paths.Report, "text"},
		{s.paths.SARIF, "sarif"},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		out, err := s.app.Report(ctx, ports.ReportRequest{Format: t.format})
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(t.path, out, 0o644); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeReport, "write report"), errors.CtxPath, t.path)
		}
		slog.Debug("report written", "format", t.format, "path", t.path)
	}
	return nil
}

func (s *session) watch(ctx context.Context) int {
	if s.cfg.Observability.Enabled {
		addr := fmt.Sprintf(":%d", s.cfg.Observability.Port)
		srv := NewObservabilityServer(ctx, addr, s.app, coreapp.NewHealthService(s.app), s.cfg.Observability.EnableMetrics || s.opts.serve)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(sctx)
		}()
	}

	w, err := watcher.NewWatcher(s.cfg.Watch.Debounce, watcher.DefaultIgnore, func(paths []string) {
		s.onChange(ctx, paths)
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		return 1
	}
	defer w.Close()

	targets := s.provider.Paths()
	if s.cfgPath != "" {
		targets = append(targets, s.cfgPath)
	}
	if err := w.Watch(targets); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	slog.Info("watching for changes", "paths", targets, "debounce", s.cfg.Watch.Debounce)

	<-ctx.Done()
	slog.Info("shutting down")
	return 0
}

func (s *session) onChange(ctx context.Context, paths []string) {
	for _, p := range paths {
		if s.cfgPath != "" && p == s.cfgPath {
			s.reloadConfig()
			break
		}
	}
	s.scanAndEmit(ctx, "watch", paths...)
}

// reloadConfig re-reads the config file. Invalid edits are logged and the previous config stays.
// Input paths stay bound to the running provider; output paths follow the new config.
func (s *session) reloadConfig() {
	cfg, err := config.Load(s.cfgPath)
	if err == nil {
		err = applyOverrides(cfg, s.opts)
	}
	var paths config.ResolvedPaths
	if err == nil {
		paths, err = resolvePaths(cfg, filepath.Dir(s.cfgPath), s.cwd, s.opts)
	}
	if err != nil {
		slog.Warn("config reload failed, keeping previous config", "error", err)
		return
	}
	s.cfg = cfg
	s.app.SetConfig(cfg)
	s.paths.Report = paths.Report
	s.paths.SARIF = paths.SARIF
	slog.Info("config reloaded", "path", s.cfgPath)
}

func (s *session) showHistory(ctx context.Context) int {
	since, err := parseSince(s.opts.since)
	if err != nil {
		fmt.Fprintln(s.stderr, err.Error())
		return 2
	}
	snap, err := s.provider.Snapshot(ctx)
	if err != nil {
		slog.Error("failed to read snapshot", "error", err)
		return 1
	}
	records, err := history.NewAdapter(s.store).LoadScans(ctx, snap.Name, since)
	if err != nil {
		slog.Error("failed to load history", "error", err)
		return 1
	}
	printHistory(s.stdout, snap.Name, records)
	return 0
}
