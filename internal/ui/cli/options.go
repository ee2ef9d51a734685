package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const versionString = "1.0.0"

type cliOptions struct {
	configPath string
	snapshot   string
	libraries  string
	reference  string
	roots      string
	format     string
	report     string
	sarif      string
	print      bool
	once       bool
	serve      bool
	history    bool
	since      string
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("tokenlint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default: nearest tokenlint.toml)")
	fs.StringVar(&opts.snapshot, "snapshot", "", "Document snapshot file (JSON or YAML); overrides inputs.snapshot")
	fs.StringVar(&opts.libraries, "libraries", "", "Library list file; overrides inputs.libraries")
	fs.StringVar(&opts.reference, "reference", "", "Reference library id; overrides scan.reference_library")
	fs.StringVar(&opts.roots, "roots", "", "Comma-separated node ids to scan instead of the document selection")
	fs.StringVar(&opts.format, "format", "", "Report format for --print (text or sarif)")
	fs.StringVar(&opts.report, "report", "", "Write the text report to this path")
	fs.StringVar(&opts.sarif, "sarif", "", "Write the SARIF report to this path")
	fs.BoolVar(&opts.print, "print", false, "Print the report to stdout instead of the summary")
	fs.BoolVar(&opts.once, "once", false, "Run a single scan and exit")
	fs.BoolVar(&opts.serve, "serve", false, "Serve /metrics, /health and /report while watching")
	fs.BoolVar(&opts.history, "history", false, "Print recorded scans of the document and exit (requires db.enabled)")
	fs.StringVar(&opts.since, "since", "", "Only list scans at/after this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	if len(opts.args) > 0 && opts.snapshot == "" {
		opts.snapshot = opts.args[0]
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return cliOptions{}, err
	}
	return opts, nil
}

func (o cliOptions) validate() error {
	if len(o.args) > 1 {
		return fmt.Errorf("at most one snapshot path may be given, got %d", len(o.args))
	}
	if o.since != "" && !o.history {
		return fmt.Errorf("--since requires --history")
	}
	if o.history && o.serve {
		return fmt.Errorf("--history and --serve cannot be combined")
	}
	return nil
}

func (o cliOptions) rootIDs() []string {
	if strings.TrimSpace(o.roots) == "" {
		return nil
	}
	parts := strings.Split(o.roots, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}
