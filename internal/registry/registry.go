// Package registry holds the table of platforms probed for a username and
// the content signatures used to confirm profile pages.
package registry

import (
	"fmt"
	"net/url"
	"strings"

	"handlescope/internal/domain"
	"handlescope/internal/probe"
)

// Placeholder marks where the username goes in a URL template
const Placeholder = "{username}"

// Platform is a probe template. URL and APIURL contain Placeholder.
type Platform struct {
	Label  string           `yaml:"label" json:"label"`
	URL    string           `yaml:"url" json:"url"`
	Kind   domain.ProbeKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	APIURL string           `yaml:"api_url,omitempty" json:"api_url,omitempty"`
}

// ProbeKind returns the kind, treating an empty kind as standard
func (p Platform) ProbeKind() domain.ProbeKind {
	if p.Kind == "" {
		return domain.ProbeStandard
	}
	return p.Kind
}

// Validate checks the template is usable
func (p Platform) Validate() error {
	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("platform label is required")
	}
	if !strings.Contains(p.URL, Placeholder) {
		return fmt.Errorf("platform %s: url must contain %s", p.Label, Placeholder)
	}
	if !p.ProbeKind().Valid() {
		return fmt.Errorf("platform %s: unknown kind %q", p.Label, p.Kind)
	}
	if p.ProbeKind() == domain.ProbeJSONAPI && p.APIURL == "" {
		return fmt.Errorf("platform %s: json_api kind requires api_url", p.Label)
	}
	return nil
}

// Resolve builds the probe for username
func (p Platform) Resolve(username string) domain.PlatformProbe {
	pp := domain.PlatformProbe{
		Label:    p.Label,
		Username: username,
		URL:      Substitute(p.URL, username),
		Kind:     p.ProbeKind(),
	}
	if p.APIURL != "" {
		pp.APIURL = Substitute(p.APIURL, username)
	}
	return pp
}

// Substitute replaces every Placeholder in template with the escaped username
func Substitute(template, username string) string {
	return strings.ReplaceAll(template, Placeholder, url.PathEscape(username))
}

// Overlay adds, replaces or disables entries of a registry
type Overlay struct {
	Platforms  []Platform
	Signatures []probe.Signature
	Disabled   []string
}

// Registry is an ordered, label-unique platform table plus signatures
type Registry struct {
	platforms  []Platform
	index      map[string]int
	signatures probe.SignatureSet
}

// New builds a registry. Labels must be unique.
func New(platforms []Platform, signatures []probe.Signature) (*Registry, error) {
	r := &Registry{
		index:      make(map[string]int, len(platforms)),
		signatures: probe.NewSignatureSet(signatures...),
	}
	for _, p := range platforms {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[p.Label]; dup {
			return nil, fmt.Errorf("duplicate platform label %q", p.Label)
		}
		r.index[p.Label] = len(r.platforms)
		r.platforms = append(r.platforms, p)
	}
	return r, nil
}

// Default returns the built-in registry
func Default() *Registry {
	r, err := New(defaultPlatforms, defaultSignatures)
	if err != nil {
		panic(fmt.Sprintf("registry: built-in table invalid: %v", err))
	}
	return r
}

// Apply merges an overlay. Existing labels are replaced in place, new labels
// are appended, then disabled labels are removed.
func (r *Registry) Apply(o *Overlay) error {
	if o == nil {
		return nil
	}
	for _, p := range o.Platforms {
		if err := p.Validate(); err != nil {
			return err
		}
		if i, ok := r.index[p.Label]; ok {
			r.platforms[i] = p
			continue
		}
		r.index[p.Label] = len(r.platforms)
		r.platforms = append(r.platforms, p)
	}
	for _, s := range o.Signatures {
		if s.Host == "" || s.Selector == "" {
			return fmt.Errorf("signature requires host and selector")
		}
		r.signatures.Add(s)
	}
	if len(o.Disabled) > 0 {
		r.remove(o.Disabled)
	}
	return nil
}

func (r *Registry) remove(labels []string) {
	drop := make(map[string]bool, len(labels))
	for _, l := range labels {
		drop[strings.ToLower(l)] = true
	}
	kept := r.platforms[:0]
	for _, p := range r.platforms {
		if !drop[strings.ToLower(p.Label)] {
			kept = append(kept, p)
		}
	}
	r.platforms = kept
	r.index = make(map[string]int, len(kept))
	for i, p := range kept {
		r.index[p.Label] = i
	}
}

// Len returns the number of platforms
func (r *Registry) Len() int {
	return len(r.platforms)
}

// Platforms returns a copy of the table in probe order
func (r *Registry) Platforms() []Platform {
	out := make([]Platform, len(r.platforms))
	copy(out, r.platforms)
	return out
}

// Get looks up a platform by label
func (r *Registry) Get(label string) (Platform, bool) {
	i, ok := r.index[label]
	if !ok {
		return Platform{}, false
	}
	return r.platforms[i], true
}

// Signatures returns the host signature table
func (r *Registry) Signatures() probe.SignatureSet {
	return r.signatures
}

// Build resolves every platform for username, in registry order
func (r *Registry) Build(username string) []domain.PlatformProbe {
	probes := make([]domain.PlatformProbe, 0, len(r.platforms))
	for _, p := range r.platforms {
		probes = append(probes, p.Resolve(username))
	}
	return probes
}
