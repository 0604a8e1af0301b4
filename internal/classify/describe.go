package classify

import (
	"regexp"
	"strings"
)

// stoplist holds low-content acknowledgements that carry no signal for
// description generation. Compared after trimming and lower-casing.
var stoplist = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true, "sure": true,
	"thanks": true, "thank you": true, "continue": true, "go ahead": true,
	"proceed": true, "sounds good": true, "yes please": true, "do it": true,
	"commit": true, "push": true, "commit and push": true, "test it": true,
	"run it": true, "try again": true, "looks good": true, "lgtm": true,
	"perfect": true, "great": true, "done": true, "next": true,
	"y": true, "n": true,
}

type actionRule struct {
	re   *regexp.Regexp
	name string
}

var actionRules = []actionRule{
	{regexp.MustCompile(`\b(fix|bug|issue|error|broken|crash|fail)`), "Bug fixes"},
	{regexp.MustCompile(`\b(implement|add|build|new)\b|\bcreat`), "Feature development"},
	{regexp.MustCompile(`\b(updat|chang|modif|improv|enhanc)`), "Updates"},
	{regexp.MustCompile(`\b(refactor|clean ?up|reorganiz|restructur|simplif)`), "Refactoring"},
	{regexp.MustCompile(`\b(test|spec|coverage)`), "Testing"},
	{regexp.MustCompile(`\b(deploy|release|publish|ship)`), "Deployment"},
	{regexp.MustCompile(`\b(debug|investigat|diagnos|why is|what's wrong)`), "Debugging"},
	{regexp.MustCompile(`\b(config|setup|install|environment)`), "Configuration"},
	{regexp.MustCompile(`\b(review|check|look at|examine)`), "Code review"},
	{regexp.MustCompile(`\b(document|readme|docs|comment)`), "Documentation"},
}

var areaRules = []actionRule{
	{regexp.MustCompile(`\b(auth|login|signup|sign.?in|password|session)`), "authentication"},
	{regexp.MustCompile(`\b(database|migration|schema|sql|query|\bdb\b)`), "database"},
	{regexp.MustCompile(`\b(api|endpoint|route|rest|graphql)`), "API"},
	{regexp.MustCompile(`\b(\bui\b|interface|layout|styl|css|design|button|form|modal)`), "UI"},
	{regexp.MustCompile(`\b(notif|email|alert|remind)`), "notifications"},
	{regexp.MustCompile(`\b(dashboard|chart|graph|report|analytic)`), "dashboard"},
	{regexp.MustCompile(`\b(user|profile|account|member|role|permission)`), "user management"},
	{regexp.MustCompile(`\b(payment|invoice|billing|stripe|subscription)`), "payments"},
	{regexp.MustCompile(`\b(sync|import|export|integrat|webhook)`), "data sync"},
	{regexp.MustCompile(`\b(transaction|ledger|balanc|reconcil)`), "transactions"},
	{regexp.MustCompile(`\b(tax|vat|deduct|1099|depreciation)`), "tax features"},
	{regexp.MustCompile(`\b(propert|tenant|lease|rental|landlord)`), "property management"},
	{regexp.MustCompile(`\b(file|upload|download|attach|pdf|image)`), "file handling"},
	{regexp.MustCompile(`\b(search|filter|sort|pagina)`), "search/filter"},
	{regexp.MustCompile(`\b(nav|menu|sidebar|header|footer|link)`), "navigation"},
	{regexp.MustCompile(`\b(valid|sanitiz|verif|constraint)`), "validation"},
}

// fillerPrefixes are low-signal lead-ins stripped from the start of a message
// before it is used as a literal description. Longest prefixes first so a
// compound like "i need you to" wins over "i need to".
var fillerPrefixes = []string{
	"i need you to", "i want you to", "we need to", "i need to", "i want to",
	"could you", "would you", "can you", "help me", "please", "let's", "lets",
}

const maxDescriptionLen = 80

// Describe derives a human-readable description for a session from its
// messages, using the topics string produced by Topics for fallbacks.
// Best-effort and order-sensitive: tiers are evaluated in strict priority,
// first match wins. Deterministic for a given input.
func Describe(messages []string, topics string) string {
	surviving := filterMessages(messages)

	if len(surviving) == 0 {
		if topics != "" && topics != GeneralTopic {
			return "Development: " + topics
		}
		return "Development work"
	}

	text := strings.ToLower(strings.Join(surviving, " "))

	var actions []string
	for _, rule := range actionRules {
		if rule.re.MatchString(text) {
			actions = append(actions, rule.name)
		}
	}

	var areas []string
	for _, rule := range areaRules {
		if rule.re.MatchString(text) {
			areas = append(areas, rule.name)
		}
	}

	switch {
	case len(actions) > 0 && len(areas) > 0:
		return joinMax(actions, 2, " & ") + ": " + joinMax(areas, 3, ", ")
	case len(actions) > 0:
		desc := joinMax(actions, 3, ", ")
		if topics != "" && topics != GeneralTopic {
			desc += " (" + topics + ")"
		}
		return desc
	case len(areas) > 0:
		return "Development: " + joinMax(areas, 3, ", ")
	case topics != "" && topics != GeneralTopic:
		return "Development: " + topics
	}

	return cleanMessage(surviving[0])
}

// filterMessages drops messages too short or too generic to describe a
// session: empty, under 3 characters, stoplisted acknowledgements, or under
// 10 characters after trimming.
func filterMessages(messages []string) []string {
	var out []string
	for _, m := range messages {
		if m == "" || len(m) < 3 {
			continue
		}
		trimmed := strings.TrimSpace(m)
		if stoplist[strings.ToLower(trimmed)] {
			continue
		}
		if len(trimmed) < 10 {
			continue
		}
		out = append(out, m)
	}
	return out
}

// cleanMessage turns a raw message into a presentable description: leading
// filler phrases stripped, whitespace collapsed, first letter capitalized,
// truncated to 80 characters.
func cleanMessage(msg string) string {
	s := strings.TrimSpace(msg)

	for stripped := true; stripped; {
		stripped = false
		lower := strings.ToLower(s)
		for _, prefix := range fillerPrefixes {
			if strings.HasPrefix(lower, prefix) {
				rest := s[len(prefix):]
				rest = strings.TrimLeft(rest, " \t,")
				if rest != s {
					s = rest
					stripped = true
				}
				break
			}
		}
	}

	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "Development work"
	}

	s = strings.ToUpper(s[:1]) + s[1:]

	if len(s) > maxDescriptionLen {
		s = s[:maxDescriptionLen-3] + "..."
	}
	return s
}

func joinMax(items []string, max int, sep string) string {
	if len(items) > max {
		items = items[:max]
	}
	return strings.Join(items, sep)
}
