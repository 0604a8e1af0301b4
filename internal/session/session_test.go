package session

import (
	"testing"
	"time"

	"github.com/kwhittenberger/claude-code-utils/internal/eventlog"
)

func ev(ts int64, project, msg string) eventlog.Event {
	return eventlog.Event{Timestamp: ts, Project: project, Display: msg}
}

func TestBuild_Empty(t *testing.T) {
	if got := Build(nil); len(got) != 0 {
		t.Errorf("got %d sessions, want 0", len(got))
	}
}

func TestBuild_SingleEvent(t *testing.T) {
	sessions := Build([]eventlog.Event{ev(1000, "/home/dev/app", "hello there")})
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.StartTime != 1000 || s.EndTime != 1000 {
		t.Errorf("got start=%d end=%d", s.StartTime, s.EndTime)
	}
	if s.Duration() != 0 {
		t.Errorf("got duration %v, want 0", s.Duration())
	}
	if s.RepoName != "app" {
		t.Errorf("got repo %q", s.RepoName)
	}
}

func TestBuild_TenMinutesApart_OneSession(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/app", "first"),
		ev(base+10*60*1000, "/home/dev/app", "second"),
	})
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if got := sessions[0].Duration(); got != 10*time.Minute {
		t.Errorf("got duration %v, want 10m", got)
	}
	if len(sessions[0].Messages) != 2 {
		t.Errorf("got %d messages", len(sessions[0].Messages))
	}
}

func TestBuild_ThirtyOneMinutesApart_TwoSessions(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/app", "first"),
		ev(base+31*60*1000, "/home/dev/app", "second"),
	})
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}

func TestBuild_GapExactlyThirtyMinutes_SameSession(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/app", "first"),
		ev(base+1_800_000, "/home/dev/app", "second"),
	})
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
}

func TestBuild_GapOneMillisOver_NewSession(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/app", "first"),
		ev(base+1_800_001, "/home/dev/app", "second"),
	})
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}

func TestBuild_ProjectChange_NewSession(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/app", "first"),
		ev(base+5*60*1000, "/home/dev/other", "second"),
	})
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}

func TestBuild_CaseOnlyPathDifference_SameSession(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/App", "first"),
		ev(base+60*1000, "/home/dev/app", "second"),
	})
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
}

func TestBuild_SortsInputByTimestamp(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base+60*1000, "/home/dev/app", "second"),
		ev(base, "/home/dev/app", "first"),
	})
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].Messages[0] != "first" {
		t.Errorf("got %q first", sessions[0].Messages[0])
	}
}

func TestBuild_OutputDescendingByStart(t *testing.T) {
	base := int64(1_700_000_000_000)
	sessions := Build([]eventlog.Event{
		ev(base, "/home/dev/app", "old"),
		ev(base+2*60*60*1000, "/home/dev/app", "new"),
	})
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].StartTime < sessions[1].StartTime {
		t.Error("expected most recent session first")
	}
	if sessions[0].Messages[0] != "new" {
		t.Errorf("got %q", sessions[0].Messages[0])
	}
}

func TestBuild_SessionsNeverOverlap(t *testing.T) {
	base := int64(1_700_000_000_000)
	var events []eventlog.Event
	for i := int64(0); i < 20; i++ {
		events = append(events, ev(base+i*25*60*1000, "/home/dev/app", "msg msg msg"))
	}
	// A few context switches in the middle
	events = append(events,
		ev(base+3*25*60*1000+1000, "/home/dev/other", "elsewhere"),
		ev(base+7*25*60*1000+1000, "/home/dev/other", "elsewhere again"),
	)

	sessions := Build(events)
	for i := 0; i < len(sessions)-1; i++ {
		// Descending order: sessions[i] is later
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			samePath := eventlog.NormalizePath(a.ProjectPath) == eventlog.NormalizePath(b.ProjectPath)
			if samePath && a.StartTime <= b.EndTime && b.StartTime <= a.EndTime && a != b {
				t.Fatalf("sessions overlap: [%d,%d] and [%d,%d]", a.StartTime, a.EndTime, b.StartTime, b.EndTime)
			}
		}
	}
}
