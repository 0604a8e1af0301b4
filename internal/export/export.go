package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kwhittenberger/claude-code-utils/internal/classify"
	"github.com/kwhittenberger/claude-code-utils/internal/config"
	"github.com/kwhittenberger/claude-code-utils/internal/eventlog"
	"github.com/kwhittenberger/claude-code-utils/internal/report"
	"github.com/kwhittenberger/claude-code-utils/internal/session"
	"github.com/kwhittenberger/claude-code-utils/internal/watermark"
)

// Options parameterizes one export run.
type Options struct {
	ScopeKey string // watermark scope; defaults to the global key

	// Repository scope, in decreasing precedence: explicit list (profiles),
	// single name filter, everything, or the invoking project path.
	Repos       []string
	Repo        string
	All         bool
	ProjectPath string // normalized-path match when no other scope is given

	Output string
	Format string

	From        int64 // inclusive, epoch ms
	To          int64 // inclusive, epoch ms
	Incremental bool
	Verbose     bool

	now func() time.Time // test seam
}

// Result summarizes a completed export.
type Result struct {
	Sessions int
	Rows     []report.Row
	Output   string
}

// ProfileResult pairs a profile name with its export outcome.
type ProfileResult struct {
	Name   string
	Result Result
	Err    error
}

// Run performs one export: read the log, build and classify sessions in
// scope, write the report, and advance the scope's watermark to the current
// wall-clock time. The watermark advances even when no session matched, so
// an incremental follow-up never revisits this window.
func Run(cfg config.Config, store *watermark.Store, opts Options) (Result, error) {
	scope := opts.ScopeKey
	if scope == "" {
		scope = watermark.GlobalKey
	}

	filter := eventlog.Filter{
		From:    opts.From,
		To:      opts.To,
		Verbose: opts.Verbose,
	}
	if opts.Incremental {
		if wm, ok := store.Read(scope); ok {
			filter.Watermark = wm
		}
	}

	events, err := eventlog.ParseFile(cfg.LogPath, filter)
	if err != nil {
		return Result{}, err
	}

	events = filterScope(events, opts)
	sessions := session.Build(events)

	rows := make([]report.Row, 0, len(sessions))
	for _, s := range sessions {
		topics := classify.Topics(s.Messages)
		description := classify.Describe(s.Messages, topics)
		client, project := cfg.Billing(s.RepoName)
		rows = append(rows, report.NewRow(
			s.ProjectPath, s.RepoName, client, project, description, topics,
			s.StartTime, s.EndTime, len(s.Messages),
		))
	}

	format := opts.Format
	if format == "" {
		format = report.FormatCSV
	}
	if !report.ValidFormat(format) {
		return Result{}, fmt.Errorf("unknown format %q", format)
	}

	if err := report.Write(rows, format, opts.Output); err != nil {
		return Result{}, fmt.Errorf("write report: %w", err)
	}

	now := time.Now
	if opts.now != nil {
		now = opts.now
	}
	store.Write(scope, now().UnixMilli())

	return Result{Sessions: len(sessions), Rows: rows, Output: opts.Output}, nil
}

// RunProfile runs the named export profile under its own watermark scope.
// An unknown name is a user error reported with the valid profile names.
func RunProfile(cfg config.Config, store *watermark.Store, name string, opts Options) (Result, error) {
	profile, ok := cfg.Exports[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown export profile %q (configured: %s)", name, profileNames(cfg))
	}

	opts.ScopeKey = watermark.ProfileKey(name)
	opts.Repos = profile.Repositories
	opts.Repo = ""
	opts.All = false
	opts.ProjectPath = ""
	if profile.Output != "" {
		opts.Output = profile.Output
	}
	if profile.Format != "" {
		opts.Format = profile.Format
	}

	return Run(cfg, store, opts)
}

// RunAll runs every configured profile sequentially. Zero configured
// profiles is a user error, not a silent no-op.
func RunAll(cfg config.Config, store *watermark.Store, opts Options) ([]ProfileResult, error) {
	if len(cfg.Exports) == 0 {
		return nil, fmt.Errorf("no export profiles configured")
	}

	names := make([]string, 0, len(cfg.Exports))
	for name := range cfg.Exports {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []ProfileResult
	for _, name := range names {
		res, err := RunProfile(cfg, store, name, opts)
		results = append(results, ProfileResult{Name: name, Result: res, Err: err})
	}

	return results, nil
}

// filterScope keeps the events matching the repository scope in Options.
// Precedence: explicit list, then single name filter, then --all, then the
// invoking project path. Name matching is case-insensitive; path matching is
// case-insensitive and separator-normalized.
func filterScope(events []eventlog.Event, opts Options) []eventlog.Event {
	switch {
	case len(opts.Repos) > 0:
		return filterEvents(events, func(ev eventlog.Event) bool {
			name := eventlog.RepoName(ev.Project)
			for _, want := range opts.Repos {
				if eventlog.SameRepoName(name, want) {
					return true
				}
			}
			return false
		})

	case opts.Repo != "":
		return filterEvents(events, func(ev eventlog.Event) bool {
			return eventlog.SameRepoName(eventlog.RepoName(ev.Project), opts.Repo)
		})

	case opts.All:
		return events

	case opts.ProjectPath != "":
		want := eventlog.NormalizePath(opts.ProjectPath)
		return filterEvents(events, func(ev eventlog.Event) bool {
			return eventlog.NormalizePath(ev.Project) == want
		})
	}

	return events
}

func filterEvents(events []eventlog.Event, keep func(eventlog.Event) bool) []eventlog.Event {
	var out []eventlog.Event
	for _, ev := range events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func profileNames(cfg config.Config) string {
	if len(cfg.Exports) == 0 {
		return "none"
	}
	names := make([]string, 0, len(cfg.Exports))
	for name := range cfg.Exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
