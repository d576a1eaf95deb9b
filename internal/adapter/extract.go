package adapter

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"

	"handlescope/internal/domain"
	"handlescope/internal/merge"
)

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s"'<>\x60]+`)
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
)

// trailing characters that belong to the surrounding text, not the URL
const trailingPunct = `.,;:!?)]}'"`

// stripANSI removes terminal color sequences
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ExtractURLs returns every absolute http(s) URL in text, in order of
// appearance, with trailing punctuation trimmed. Duplicates are kept.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(stripANSI(text), -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, trailingPunct)
		u, err := url.Parse(m)
		if err != nil || u.Host == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// LabelFromURL derives a platform label from the registrable part of the
// host: "https://www.example.co.uk/x" gives "Example".
func LabelFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return LabelFromHost(u.Hostname())
}

// LabelFromHost derives a platform label from a host name
func LabelFromHost(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return host
	}
	name := host
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		name = etld1
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return capitalize(name)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ProfileRecords turns the URLs in text into profile records for source,
// one per distinct normalized URL.
func ProfileRecords(text string, source domain.Source) []*domain.IdentityRecord {
	seen := make(map[string]bool)
	var records []*domain.IdentityRecord
	for _, u := range ExtractURLs(text) {
		key := merge.Normalize(u)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, domain.NewProfileRecord(LabelFromURL(u), u, source))
	}
	return records
}
