package merge

import "strings"

// Normalize returns the canonical form of a profile URL used as the
// deduplication key: lower-cased, fragment and query removed, leading
// "www." dropped from the host and trailing slashes dropped from the path.
//
// The transformation works on the string directly instead of re-encoding a
// parsed url.URL, so escapes are never rewritten and Normalize is idempotent.
func Normalize(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))

	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}

	scheme := ""
	rest := u
	if i := strings.Index(u, "://"); i >= 0 {
		scheme = u[:i+3]
		rest = u[i+3:]
	}

	host, path := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host, path = rest[:i], rest[i:]
	}
	for strings.HasPrefix(host, "www.") {
		host = strings.TrimPrefix(host, "www.")
	}
	path = strings.TrimRight(path, "/")

	return scheme + host + path
}
