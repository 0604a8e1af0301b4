package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary, repo string) string {
	if s.TotalSessions == 0 {
		if repo != "" {
			return fmt.Sprintf("cctime stats --repo %s\n\n  No sessions found for repository %q.\n", repo, repo)
		}
		return "cctime stats\n\n  No sessions found.\n"
	}

	var b strings.Builder

	if repo != "" {
		fmt.Fprintf(&b, "cctime stats --repo %s\n", repo)
	} else {
		b.WriteString("cctime stats\n")
	}

	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %d\n", "sessions", s.TotalSessions)
	fmt.Fprintf(&b, "  %-20s %d\n", "messages", s.TotalMessages)
	fmt.Fprintf(&b, "  %-20s %s\n", "total time", formatHours(s.TotalHours))
	if s.BillableTotal > 0 {
		fmt.Fprintf(&b, "  %-20s %.2f\n", "billable", s.BillableTotal)
	}

	if len(s.Repositories) > 0 {
		b.WriteString("\nRepositories\n")
		limit := 10
		if len(s.Repositories) < limit {
			limit = len(s.Repositories)
		}
		for _, r := range s.Repositories[:limit] {
			fmt.Fprintf(&b, "  %-24s %3d sessions   %4d msgs   %s\n",
				r.Name, r.Sessions, r.Messages, formatHours(r.Hours))
		}
		if len(s.Repositories) > limit {
			fmt.Fprintf(&b, "  ... and %d more\n", len(s.Repositories)-limit)
		}
	}

	if len(s.Clients) > 0 {
		b.WriteString("\nClients\n")
		for _, c := range s.Clients {
			line := fmt.Sprintf("  %-24s %3d sessions   %s", c.Name, c.Sessions, formatHours(c.Hours))
			if c.Amount > 0 {
				line += fmt.Sprintf("   %.2f", c.Amount)
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// formatHours renders fractional hours as "3h 05m".
func formatHours(hours float64) string {
	totalMinutes := int(hours*60 + 0.5)
	h := totalMinutes / 60
	m := totalMinutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
