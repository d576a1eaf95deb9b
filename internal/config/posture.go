package config

import (
	"fmt"
	"strings"
	"time"
)

// Posture defines how hard a scan leans on the probed platforms
type Posture string

const (
	PostureStealth    Posture = "stealth"    // few workers, wide host spacing
	PostureCautious   Posture = "cautious"   // respect rate limits
	PostureBalanced   Posture = "balanced"   // default
	PostureAggressive Posture = "aggressive" // many workers, tight spacing
)

// ParsePosture converts a string to Posture, defaulting to PostureBalanced
func ParsePosture(s string) Posture {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stealth":
		return PostureStealth
	case "cautious":
		return PostureCautious
	case "aggressive":
		return PostureAggressive
	default:
		return PostureBalanced
	}
}

// Valid reports whether p names a known posture
func (p Posture) Valid() bool {
	_, ok := PostureProfiles[p]
	return ok
}

// ScanProfile is the timing and concurrency a posture implies
type ScanProfile struct {
	Workers        int           `yaml:"workers"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	HostSpacing    time.Duration `yaml:"host_spacing"`
}

// PostureProfiles maps postures to their default scan profiles
var PostureProfiles = map[Posture]ScanProfile{
	PostureStealth: {
		Workers:        5,
		RequestTimeout: 15 * time.Second,
		HostSpacing:    1500 * time.Millisecond,
	},
	PostureCautious: {
		Workers:        10,
		RequestTimeout: 12 * time.Second,
		HostSpacing:    600 * time.Millisecond,
	},
	PostureBalanced: {
		Workers:        15,
		RequestTimeout: 10 * time.Second,
		HostSpacing:    300 * time.Millisecond,
	},
	PostureAggressive: {
		Workers:        25,
		RequestTimeout: 8 * time.Second,
		HostSpacing:    100 * time.Millisecond,
	},
}

// GetProfile returns the scan profile for a posture
func (p Posture) GetProfile() ScanProfile {
	if profile, ok := PostureProfiles[p]; ok {
		return profile
	}
	return PostureProfiles[PostureBalanced]
}

func (p ScanProfile) String() string {
	return fmt.Sprintf("workers=%d timeout=%s spacing=%s", p.Workers, p.RequestTimeout, p.HostSpacing)
}
