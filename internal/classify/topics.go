package classify

import (
	"regexp"
	"strings"
)

// GeneralTopic is the fallback when no topic rule matches.
const GeneralTopic = "general"

const maxTopics = 5

// topicRule pairs a pattern with its topic tag. Rules are evaluated in
// order and matched tags keep this order in the output.
type topicRule struct {
	re  *regexp.Regexp
	tag string
}

var topicRules = []topicRule{
	{regexp.MustCompile(`\b(fix|bug|issue|error|broken|crash)`), "bug-fix"},
	{regexp.MustCompile(`\b(test|spec|coverage|unit test)`), "testing"},
	{regexp.MustCompile(`\b(refactor|clean ?up|reorganiz|restructur)`), "refactoring"},
	{regexp.MustCompile(`\b(add|implement|build)\b|\b(creat|new feature)`), "feature"},
	{regexp.MustCompile(`\b(review|pull request)\b|\bpr\b`), "review"},
	{regexp.MustCompile(`\b(deploy|release|publish|ship)`), "deployment"},
	{regexp.MustCompile(`\b(database|migration|schema|sql|query|\bdb\b)`), "database"},
	{regexp.MustCompile(`\b(api|endpoint|route|rest|graphql)`), "api"},
	{regexp.MustCompile(`\b(frontend|front-end|\bui\b|css|component|react|vue)`), "frontend"},
	{regexp.MustCompile(`\b(backend|back-end|server|service)`), "backend"},
	{regexp.MustCompile(`\b(document|readme|docs|comment)`), "documentation"},
	{regexp.MustCompile(`\b(config|setting|environment|\benv\b|setup)`), "configuration"},
	{regexp.MustCompile(`\b(security|auth|login|permission|vulnerab|encrypt)`), "security"},
	{regexp.MustCompile(`\b(performance|optimiz|slow|speed up|cach)`), "performance"},
	{regexp.MustCompile(`\b(debug|investigat|diagnos|trace)`), "debugging"},
}

// Topics scans the session's messages against the ordered topic rules and
// returns up to five matched tags joined with ", ". Returns GeneralTopic when
// nothing matches. Pure function of the message text.
func Topics(messages []string) string {
	text := strings.ToLower(strings.Join(messages, " "))

	var tags []string
	seen := make(map[string]bool)
	for _, rule := range topicRules {
		if seen[rule.tag] {
			continue
		}
		if rule.re.MatchString(text) {
			tags = append(tags, rule.tag)
			seen[rule.tag] = true
		}
	}

	if len(tags) == 0 {
		return GeneralTopic
	}
	if len(tags) > maxTopics {
		tags = tags[:maxTopics]
	}
	return strings.Join(tags, ", ")
}
