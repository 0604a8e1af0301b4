package session

import (
	"sort"
	"time"

	"github.com/kwhittenberger/claude-code-utils/internal/eventlog"
)

// Gap is the maximum idle time between events within one session.
// A strictly larger gap starts a new session.
const Gap = 30 * time.Minute

const gapMillis = int64(Gap / time.Millisecond)

// Session is a maximal run of events within one repository context where
// consecutive gaps never exceed Gap. Sessions exist only during an export
// run; only derived report rows are persisted.
type Session struct {
	ProjectPath string   // as seen in the log, case preserved
	RepoName    string   // final path segment
	StartTime   int64    // epoch ms of first event
	EndTime     int64    // epoch ms of last event
	Messages    []string // message text in chronological order
}

// Duration returns the session length.
func (s *Session) Duration() time.Duration {
	return time.Duration(s.EndTime-s.StartTime) * time.Millisecond
}

// Build groups events into sessions. Events are sorted ascending by
// timestamp (stable, so equal timestamps keep log order); a new session
// starts when the gap exceeds Gap or the normalized project path changes.
// The result is sorted descending by start time, most recent first.
func Build(events []eventlog.Event) []*Session {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]eventlog.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	var sessions []*Session
	var open *Session
	var openPath string

	for _, ev := range sorted {
		normalized := eventlog.NormalizePath(ev.Project)

		if open != nil {
			gap := ev.Timestamp - open.EndTime
			if gap > gapMillis || normalized != openPath {
				sessions = append(sessions, open)
				open = nil
			}
		}

		if open == nil {
			open = &Session{
				ProjectPath: ev.Project,
				RepoName:    eventlog.RepoName(ev.Project),
				StartTime:   ev.Timestamp,
				EndTime:     ev.Timestamp,
				Messages:    []string{ev.Display},
			}
			openPath = normalized
			continue
		}

		open.EndTime = ev.Timestamp
		open.Messages = append(open.Messages, ev.Display)
	}

	if open != nil {
		sessions = append(sessions, open)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime > sessions[j].StartTime
	})

	return sessions
}
