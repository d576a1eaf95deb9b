package domain

import "fmt"

// ProbeKind selects how a platform response is classified
type ProbeKind string

const (
	// ProbeStandard fetches the profile page and applies the generic filters
	ProbeStandard ProbeKind = "standard"
	// ProbeJSONAPI queries a JSON endpoint instead of the profile page
	ProbeJSONAPI ProbeKind = "json_api"
	// ProbeRedirect is a profile page whose missing users bounce to the site root
	ProbeRedirect ProbeKind = "redirect"
	// ProbeSearchPage is a search/lookup page that must mention the username
	ProbeSearchPage ProbeKind = "search_page"
)

// ProbeKinds lists every valid kind, in declaration order
var ProbeKinds = []ProbeKind{ProbeStandard, ProbeJSONAPI, ProbeRedirect, ProbeSearchPage}

// ParseProbeKind converts a string to ProbeKind, defaulting to ProbeStandard
func ParseProbeKind(s string) ProbeKind {
	switch s {
	case "json_api", "json", "api":
		return ProbeJSONAPI
	case "redirect":
		return ProbeRedirect
	case "search_page", "search":
		return ProbeSearchPage
	default:
		return ProbeStandard
	}
}

// Valid reports whether k is one of the known kinds
func (k ProbeKind) Valid() bool {
	for _, known := range ProbeKinds {
		if k == known {
			return true
		}
	}
	return false
}

// PlatformProbe is an immutable, username-resolved probe descriptor
type PlatformProbe struct {
	Label    string    `json:"label" yaml:"label"`
	Username string    `json:"username" yaml:"username"`
	URL      string    `json:"url" yaml:"url"`
	Kind     ProbeKind `json:"kind" yaml:"kind"`
	APIURL   string    `json:"api_url,omitempty" yaml:"api_url,omitempty"`
}

// Target returns the URL that is actually requested for this probe
func (p PlatformProbe) Target() string {
	if p.Kind == ProbeJSONAPI && p.APIURL != "" {
		return p.APIURL
	}
	return p.URL
}

// Validate checks the descriptor is usable
func (p PlatformProbe) Validate() error {
	if p.Label == "" {
		return fmt.Errorf("probe label is required")
	}
	if p.URL == "" {
		return fmt.Errorf("probe %s: url is required", p.Label)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("probe %s: unknown kind %q", p.Label, p.Kind)
	}
	if p.Kind == ProbeJSONAPI && p.APIURL == "" {
		return fmt.Errorf("probe %s: json_api kind requires api_url", p.Label)
	}
	return nil
}
