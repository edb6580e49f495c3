package repl

import (
	"regexp"
	"strings"
)

var (
	codeBlockJS    = regexp.MustCompile("(?s)```(?:javascript|js)\\s*(.+?)```")
	codeBlockPlain = regexp.MustCompile("(?s)```\\s*(.+?)```")
	languageTagRe  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+#-]*$`)
)

// extractCode pulls the first fenced code block out of a free-text reply.
// Returns empty when the reply has no code block.
func extractCode(text string) string {
	if m := codeBlockJS.FindStringSubmatch(text); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	if m := codeBlockPlain.FindStringSubmatch(text); len(m) >= 2 {
		return stripLanguageTag(strings.TrimSpace(m[1]))
	}
	return ""
}

// stripLanguageTag drops a bare language word that a fence with an
// unrecognized tag (```python, ```ts) leaves on the first captured line.
// A single-line block is never stripped, it has no code left to keep.
func stripLanguageTag(code string) string {
	first, rest, found := strings.Cut(code, "\n")
	if !found {
		return code
	}
	if languageTagRe.MatchString(strings.TrimSpace(first)) {
		return strings.TrimSpace(rest)
	}
	return code
}
