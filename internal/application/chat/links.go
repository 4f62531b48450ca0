package chat

import (
	"net/url"
	"regexp"

	"github.com/campus-hub/campus-student-hub/internal/domain/conversation"
)

// linkPattern matches the assistant's markdown link lines: 🔗 [Link](url).
var linkPattern = regexp.MustCompile(`🔗 \[Link\]\((.*?)\)`)

// extractLinks rewrites a search result list in place-preserving order: a
// line carrying a link marker becomes its bare URL, a line whose URL does
// not parse becomes the placeholder, and any other line passes through
// verbatim. The output always has the same length as the input.
func extractLinks(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		match := linkPattern.FindStringSubmatch(line)
		if match == nil {
			out[i] = line
			continue
		}
		out[i] = normalizeLink(match[1])
	}
	return out
}

// normalizeLink validates one extracted URL. Anything that is not an
// absolute http(s) URL is replaced by the placeholder rather than dropped.
func normalizeLink(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return conversation.LinkPlaceholder
	}
	switch parsed.Scheme {
	case "http", "https":
		return raw
	default:
		return conversation.LinkPlaceholder
	}
}
