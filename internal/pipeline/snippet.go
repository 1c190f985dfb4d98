package pipeline

import (
	"regexp"
	"strings"
)

// SnippetLines is how many trailing log lines the failure report carries.
const SnippetLines = 50

// PathPlaceholder replaces filesystem paths in failure snippets so reports
// never leak runner host layout.
const PathPlaceholder = "[path]"

// pathPattern matches absolute filesystem paths (two or more segments).
var pathPattern = regexp.MustCompile(`(?:/[A-Za-z0-9._\-]+){2,}/?`)

// Snippet returns the last n lines of the log with filesystem paths redacted.
// The result is a plain string; JSON-string escaping (quotes, backslashes,
// newlines) happens in the status encoder, never by hand.
func Snippet(logText string, n int) string {
	lines := strings.Split(strings.TrimRight(logText, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return pathPattern.ReplaceAllString(strings.Join(lines, "\n"), PathPlaceholder)
}
