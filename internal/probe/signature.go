package probe

import (
	"net"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UsernamePlaceholder is replaced by the probed username in Signature.Contains
const UsernamePlaceholder = "{username}"

// Signature is a content check a real profile page on Host must pass.
// Selector must match at least one element; when Contains is set, one of
// the matched elements must mention it in its text or content attribute.
type Signature struct {
	Host     string `yaml:"host" json:"host"`
	Selector string `yaml:"selector" json:"selector"`
	Contains string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

// Matches reports whether doc carries the signature for username
func (s Signature) Matches(doc *goquery.Document, username string) bool {
	sel := doc.Find(s.Selector)
	if sel.Length() == 0 {
		return false
	}
	if s.Contains == "" {
		return true
	}

	want := strings.ToLower(strings.ReplaceAll(s.Contains, UsernamePlaceholder, username))
	found := false
	sel.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(el.Text()), want) {
			found = true
			return false
		}
		if content, ok := el.Attr("content"); ok && strings.Contains(strings.ToLower(content), want) {
			found = true
			return false
		}
		return true
	})
	return found
}

// SignatureSet indexes signatures by canonical host
type SignatureSet map[string]Signature

// NewSignatureSet indexes sigs by host. Later entries replace earlier ones.
func NewSignatureSet(sigs ...Signature) SignatureSet {
	set := make(SignatureSet, len(sigs))
	for _, s := range sigs {
		set.Add(s)
	}
	return set
}

// Add registers or replaces the signature for s.Host
func (set SignatureSet) Add(s Signature) {
	set[CanonicalHost(s.Host)] = s
}

// Lookup returns the signature registered for host, if any
func (set SignatureSet) Lookup(host string) (Signature, bool) {
	s, ok := set[CanonicalHost(host)]
	return s, ok
}

// CanonicalHost lower-cases host and strips any port and leading "www."
func CanonicalHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if hostOnly, _, err := net.SplitHostPort(h); err == nil {
		h = hostOnly
	}
	for strings.HasPrefix(h, "www.") {
		h = strings.TrimPrefix(h, "www.")
	}
	return h
}
