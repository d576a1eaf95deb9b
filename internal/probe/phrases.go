package probe

import (
	"bytes"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// SoftNotFoundPhrases are shown by sites that answer 200 for missing profiles
var SoftNotFoundPhrases = []string{
	"page not found",
	"user not found",
	"doesn't exist",
	"not available",
	"profile not found",
	"sorry, this page isn't available",
	"the page you requested was not found",
	"this account doesn't exist",
	"no such user",
	"404 error",
}

// PhraseMatcher finds any of a fixed set of phrases in a response body
// in a single pass. Matching is case-insensitive.
type PhraseMatcher struct {
	phrases []string
	matcher *ahocorasick.Matcher
}

// NewPhraseMatcher builds a matcher over phrases. Phrases are lower-cased.
func NewPhraseMatcher(phrases []string) *PhraseMatcher {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p == "" {
			continue
		}
		lowered = append(lowered, string(bytes.ToLower([]byte(p))))
	}
	return &PhraseMatcher{
		phrases: lowered,
		matcher: ahocorasick.NewStringMatcher(lowered),
	}
}

// Match returns the first matching phrase, if any
func (m *PhraseMatcher) Match(body []byte) (string, bool) {
	if len(m.phrases) == 0 || len(body) == 0 {
		return "", false
	}
	hits := m.matcher.Match(bytes.ToLower(body))
	if len(hits) == 0 {
		return "", false
	}
	return m.phrases[hits[0]], true
}
