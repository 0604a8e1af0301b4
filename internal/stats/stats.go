package stats

import (
	"sort"

	"github.com/kwhittenberger/claude-code-utils/internal/config"
	"github.com/kwhittenberger/claude-code-utils/internal/session"
)

// Summary holds aggregate metrics computed from built sessions.
type Summary struct {
	TotalSessions int
	TotalMessages int
	TotalHours    float64
	BillableTotal float64 // TotalHours * hourly rate; 0 when no rate set

	Repositories []RepoStats
	Clients      []ClientStats
}

// RepoStats holds per-repository aggregate metrics.
type RepoStats struct {
	Name     string
	Sessions int
	Messages int
	Hours    float64
}

// ClientStats holds per-client aggregate metrics.
type ClientStats struct {
	Name     string
	Sessions int
	Hours    float64
	Amount   float64
}

// Compute builds a Summary from sessions, resolving billing identities
// through cfg.
func Compute(sessions []*session.Session, cfg config.Config) Summary {
	var s Summary

	repoMap := make(map[string]*RepoStats)
	clientMap := make(map[string]*ClientStats)

	for _, sess := range sessions {
		hours := sess.Duration().Hours()

		s.TotalSessions++
		s.TotalMessages += len(sess.Messages)
		s.TotalHours += hours

		rs, ok := repoMap[sess.RepoName]
		if !ok {
			rs = &RepoStats{Name: sess.RepoName}
			repoMap[sess.RepoName] = rs
		}
		rs.Sessions++
		rs.Messages += len(sess.Messages)
		rs.Hours += hours

		client, _ := cfg.Billing(sess.RepoName)
		cs, ok := clientMap[client]
		if !ok {
			cs = &ClientStats{Name: client}
			clientMap[client] = cs
		}
		cs.Sessions++
		cs.Hours += hours
	}

	if cfg.HourlyRate > 0 {
		s.BillableTotal = s.TotalHours * cfg.HourlyRate
		for _, cs := range clientMap {
			cs.Amount = cs.Hours * cfg.HourlyRate
		}
	}

	for _, rs := range repoMap {
		s.Repositories = append(s.Repositories, *rs)
	}
	sort.Slice(s.Repositories, func(i, j int) bool {
		if s.Repositories[i].Hours != s.Repositories[j].Hours {
			return s.Repositories[i].Hours > s.Repositories[j].Hours
		}
		return s.Repositories[i].Name < s.Repositories[j].Name
	})

	for _, cs := range clientMap {
		s.Clients = append(s.Clients, *cs)
	}
	sort.Slice(s.Clients, func(i, j int) bool {
		if s.Clients[i].Hours != s.Clients[j].Hours {
			return s.Clients[i].Hours > s.Clients[j].Hours
		}
		return s.Clients[i].Name < s.Clients[j].Name
	})

	return s
}
