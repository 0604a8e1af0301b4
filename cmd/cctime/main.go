package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kwhittenberger/claude-code-utils/internal/config"
	"github.com/kwhittenberger/claude-code-utils/internal/eventlog"
	"github.com/kwhittenberger/claude-code-utils/internal/export"
	"github.com/kwhittenberger/claude-code-utils/internal/session"
	"github.com/kwhittenberger/claude-code-utils/internal/stats"
	"github.com/kwhittenberger/claude-code-utils/internal/watermark"
)

const version = "0.1.0"

const defaultOutput = "claude-sessions.csv"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	switch os.Args[1] {
	case "export":
		runExport(cfg, os.Args[2:])

	case "profile":
		if len(os.Args) < 3 || strings.HasPrefix(os.Args[2], "-") {
			fatal("usage: cctime profile <name>")
		}
		runProfile(cfg, os.Args[2], os.Args[3:])

	case "profiles":
		runProfiles(cfg, os.Args[2:])

	case "stats":
		runStats(cfg, os.Args[2:])

	case "version":
		fmt.Printf("cctime v%s\n", version)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func runExport(cfg config.Config, args []string) {
	opts, err := commonOptions(args)
	if err != nil {
		fatal("%v", err)
	}

	opts.Repo = flagValue(args, "--repo")
	opts.All = hasFlag(args, "--all")
	if out := flagValue(args, "--output"); out != "" {
		opts.Output = config.ExpandHome(out)
	} else {
		opts.Output = defaultOutput
	}
	opts.Format = flagValue(args, "--format")

	// Default scope: only the invoking directory's project
	if opts.Repo == "" && !opts.All {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("determine working directory: %v", err)
		}
		opts.ProjectPath = cwd
	}

	store := watermark.New(config.StateDir())
	result, err := export.Run(cfg, store, opts)
	if err != nil {
		fatal("export: %v", err)
	}

	fmt.Printf("exported %d sessions to %s\n", result.Sessions, result.Output)
}

func runProfile(cfg config.Config, name string, args []string) {
	opts, err := commonOptions(args)
	if err != nil {
		fatal("%v", err)
	}
	opts.Output = defaultOutput // overridden by the profile's configured output

	store := watermark.New(config.StateDir())
	result, err := export.RunProfile(cfg, store, name, opts)
	if err != nil {
		fatal("profile %s: %v", name, err)
	}

	fmt.Printf("profile %s: exported %d sessions to %s\n", name, result.Sessions, result.Output)
}

func runProfiles(cfg config.Config, args []string) {
	opts, err := commonOptions(args)
	if err != nil {
		fatal("%v", err)
	}
	opts.Output = defaultOutput

	store := watermark.New(config.StateDir())
	results, err := export.RunAll(cfg, store, opts)
	if err != nil {
		fatal("%v", err)
	}

	total := 0
	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "profile %s: %v\n", r.Name, r.Err)
			continue
		}
		total += r.Result.Sessions
		fmt.Printf("profile %s: %d sessions -> %s\n", r.Name, r.Result.Sessions, r.Result.Output)
	}
	fmt.Printf("total: %d sessions across %d profiles\n", total, len(results))

	if failures > 0 {
		os.Exit(1)
	}
}

func runStats(cfg config.Config, args []string) {
	opts, err := commonOptions(args)
	if err != nil {
		fatal("%v", err)
	}

	repo := flagValue(args, "--repo")

	events, err := eventlog.ParseFile(cfg.LogPath, eventlog.Filter{
		From:    opts.From,
		To:      opts.To,
		Verbose: opts.Verbose,
	})
	if err != nil {
		fatal("stats: %v", err)
	}

	if repo != "" {
		var filtered []eventlog.Event
		for _, ev := range events {
			if eventlog.SameRepoName(eventlog.RepoName(ev.Project), repo) {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}

	sessions := session.Build(events)
	fmt.Print(stats.Format(stats.Compute(sessions, cfg), repo))
}

// commonOptions parses the flags shared by all commands: date range,
// incremental mode, verbosity.
func commonOptions(args []string) (export.Options, error) {
	var opts export.Options

	if from := flagValue(args, "--from"); from != "" {
		ts, err := parseDate(from, false)
		if err != nil {
			return opts, err
		}
		opts.From = ts
	}
	if to := flagValue(args, "--to"); to != "" {
		ts, err := parseDate(to, true)
		if err != nil {
			return opts, err
		}
		opts.To = ts
	}

	opts.Incremental = hasFlag(args, "--incremental")
	opts.Verbose = hasFlag(args, "--verbose")

	return opts, nil
}

// parseDate converts YYYY-MM-DD to epoch ms at local midnight, or local
// 23:59:59 when endOfDay is set.
func parseDate(s string, endOfDay bool) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.UnixMilli(), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `cctime v%s — Claude Code time tracking

Usage:
  cctime export [flags]        Export sessions for the current project
  cctime profile <name>        Run a configured export profile
  cctime profiles              Run every configured export profile
  cctime stats [flags]         Show aggregate session statistics
  cctime version               Print version
  cctime help                  Show this help

Export flags:
  --repo <name>                Export a single repository by name
  --all                        Export every repository in the log
  --from <YYYY-MM-DD>          Inclusive start date
  --to <YYYY-MM-DD>            Inclusive end date
  --incremental                Only events newer than the last export
  --output <path>              Report file (default %s)
  --format <csv|json|tsv|sqlite>
  --verbose                    Report skipped log lines

Configuration: ~/.config/cctime/config.toml
`, version, defaultOutput)
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "cctime: "+format+"\n", args...)
	os.Exit(1)
}
