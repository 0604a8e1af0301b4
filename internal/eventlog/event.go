package eventlog

import (
	"path"
	"strings"
)

// Event is one prompt entry from the Claude Code history log.
type Event struct {
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Project   string `json:"project"`   // absolute path of the working directory
	Display   string `json:"display"`   // user-visible message text
}

// NormalizePath canonicalizes a project path for comparison: lower-cased,
// backslashes folded to forward slashes, trailing separator trimmed.
func NormalizePath(p string) string {
	p = strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// RepoName returns the final path segment of a project path, case preserved.
func RepoName(projectPath string) string {
	p := strings.ReplaceAll(projectPath, "\\", "/")
	p = strings.TrimRight(p, "/")
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// SameRepoName reports whether two repository names match, ignoring case.
func SameRepoName(a, b string) bool {
	return strings.EqualFold(a, b)
}
