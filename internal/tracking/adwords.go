package tracking

import (
	"regexp"
	"strings"
)

// nonWord is a single character outside Unicode letters, digits and underscore.
// RE2's \b only knows ASCII word characters.
const nonWord = `[^\p{L}\p{N}_]`

// AdWordClassifier matches acknowledgment phrases as whole words, ignoring case.
type AdWordClassifier struct {
	pattern *regexp.Regexp
}

// NewAdWordClassifier compiles the vocabulary into a single matcher.
func NewAdWordClassifier(words []string) *AdWordClassifier {
	alternatives := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		alternatives = append(alternatives, regexp.QuoteMeta(w))
	}

	if len(alternatives) == 0 {
		return &AdWordClassifier{}
	}
	return &AdWordClassifier{
		pattern: regexp.MustCompile(`(?i)(?:^|` + nonWord + `)(?:` + strings.Join(alternatives, "|") + `)(?:` + nonWord + `|$)`),
	}
}

// Matches reports whether text or caption contains a vocabulary phrase.
func (c *AdWordClassifier) Matches(text, caption string) bool {
	if c.pattern == nil {
		return false
	}
	combined := strings.TrimSpace(text + " " + caption)
	return c.pattern.MatchString(combined)
}
