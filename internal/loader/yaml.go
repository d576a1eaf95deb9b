// Package loader reads and writes platform table overlays in YAML.
package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"handlescope/internal/domain"
	"handlescope/internal/probe"
	"handlescope/internal/registry"
)

// PlatformsYAML represents the overlay file structure
type PlatformsYAML struct {
	Version    string           `yaml:"version"`
	Platforms  []*PlatformYAML  `yaml:"platforms,omitempty"`
	Signatures []*SignatureYAML `yaml:"signatures,omitempty"`
	Disabled   []string         `yaml:"disabled,omitempty"`
}

// PlatformYAML represents one platform entry
type PlatformYAML struct {
	Label  string `yaml:"label"`
	URL    string `yaml:"url"`
	Kind   string `yaml:"kind,omitempty"`
	APIURL string `yaml:"api_url,omitempty"`
}

// SignatureYAML represents a host content signature
type SignatureYAML struct {
	Host     string `yaml:"host"`
	Selector string `yaml:"selector"`
	Contains string `yaml:"contains,omitempty"`
}

// LoadYAML loads a platform overlay from a YAML file
func LoadYAML(path string) (*registry.Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseYAML(data)
}

// ParseYAML parses a platform overlay from YAML bytes
func ParseYAML(data []byte) (*registry.Overlay, error) {
	var yamlData PlatformsYAML
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return convertYAMLToOverlay(&yamlData)
}

func convertYAMLToOverlay(y *PlatformsYAML) (*registry.Overlay, error) {
	overlay := &registry.Overlay{}

	for i, p := range y.Platforms {
		if p == nil {
			continue
		}
		kind := domain.ProbeStandard
		if p.Kind != "" {
			kind = domain.ProbeKind(strings.ToLower(strings.TrimSpace(p.Kind)))
			if !kind.Valid() {
				return nil, fmt.Errorf("platform %d (%s): unknown kind %q", i, p.Label, p.Kind)
			}
		}
		platform := registry.Platform{
			Label:  strings.TrimSpace(p.Label),
			URL:    strings.TrimSpace(p.URL),
			Kind:   kind,
			APIURL: strings.TrimSpace(p.APIURL),
		}
		if err := platform.Validate(); err != nil {
			return nil, fmt.Errorf("platform %d: %w", i, err)
		}
		overlay.Platforms = append(overlay.Platforms, platform)
	}

	for i, s := range y.Signatures {
		if s == nil {
			continue
		}
		if s.Host == "" || s.Selector == "" {
			return nil, fmt.Errorf("signature %d: host and selector are required", i)
		}
		overlay.Signatures = append(overlay.Signatures, probe.Signature{
			Host:     s.Host,
			Selector: s.Selector,
			Contains: s.Contains,
		})
	}

	for _, label := range y.Disabled {
		if label = strings.TrimSpace(label); label != "" {
			overlay.Disabled = append(overlay.Disabled, label)
		}
	}

	return overlay, nil
}

// ExportYAML exports a registry in overlay format
func ExportYAML(r *registry.Registry) ([]byte, error) {
	yamlData := &PlatformsYAML{Version: "1"}

	for _, p := range r.Platforms() {
		yamlData.Platforms = append(yamlData.Platforms, &PlatformYAML{
			Label:  p.Label,
			URL:    p.URL,
			Kind:   string(p.ProbeKind()),
			APIURL: p.APIURL,
		})
	}

	for _, host := range sortedHosts(r.Signatures()) {
		s := r.Signatures()[host]
		yamlData.Signatures = append(yamlData.Signatures, &SignatureYAML{
			Host:     host,
			Selector: s.Selector,
			Contains: s.Contains,
		})
	}

	return yaml.Marshal(yamlData)
}
