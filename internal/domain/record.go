package domain

import (
	"strings"
	"time"
)

// RecordKind distinguishes profile URLs from email accounts
type RecordKind string

const (
	RecordProfileURL   RecordKind = "profile_url"
	RecordEmailAccount RecordKind = "email_account"
)

// Source identifies who produced a record: the direct prober or a named tool
type Source string

// SourceDirect marks records produced by the built-in HTTP prober
const SourceDirect Source = "direct"

const toolSourcePrefix = "tool:"

// ToolSource returns the source identifier for an external tool
func ToolSource(name string) Source {
	return Source(toolSourcePrefix + name)
}

// IsDirect reports whether the source is the built-in prober
func (s Source) IsDirect() bool {
	return s == SourceDirect
}

// IsTool reports whether the source is an external tool
func (s Source) IsTool() bool {
	return strings.HasPrefix(string(s), toolSourcePrefix)
}

// ToolName returns the tool name for tool sources, empty otherwise
func (s Source) ToolName() string {
	if !s.IsTool() {
		return ""
	}
	return strings.TrimPrefix(string(s), toolSourcePrefix)
}

// IdentityRecord is one piece of evidence that the username exists on a platform
type IdentityRecord struct {
	Platform      string     `json:"platform" yaml:"platform"`
	URL           string     `json:"url,omitempty" yaml:"url,omitempty"`
	Email         string     `json:"email,omitempty" yaml:"email,omitempty"`
	Kind          RecordKind `json:"kind" yaml:"kind"`
	Source        Source     `json:"source" yaml:"source"`
	FoundAt       time.Time  `json:"found_at" yaml:"found_at"`
	StatusCode    *int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	ContentLength *int64     `json:"content_length,omitempty" yaml:"content_length,omitempty"`
	Verified      *bool      `json:"verified,omitempty" yaml:"verified,omitempty"`
	EvidencePath  string     `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Title         string     `json:"title,omitempty" yaml:"title,omitempty"`
	Services      []string   `json:"services,omitempty" yaml:"services,omitempty"`

	// FoundBy stays nil until a duplicate from another source merges in
	FoundBy []Source `json:"found_by,omitempty" yaml:"found_by,omitempty"`
}

// NewProfileRecord creates a profile_url record stamped with the current time
func NewProfileRecord(platform, url string, source Source) *IdentityRecord {
	return &IdentityRecord{
		Platform: platform,
		URL:      url,
		Kind:     RecordProfileURL,
		Source:   source,
		FoundAt:  time.Now(),
	}
}

// NewEmailRecord creates an email_account record stamped with the current time
func NewEmailRecord(platform, email string, source Source) *IdentityRecord {
	return &IdentityRecord{
		Platform: platform,
		Email:    email,
		Kind:     RecordEmailAccount,
		Source:   source,
		FoundAt:  time.Now(),
	}
}

// Target returns the URL or the email address, depending on kind
func (r *IdentityRecord) Target() string {
	if r.Kind == RecordEmailAccount {
		return r.Email
	}
	return r.URL
}

// SetStatus records the HTTP status that confirmed the record
func (r *IdentityRecord) SetStatus(code int) {
	r.StatusCode = &code
}

// SetContentLength records the size of the confirming response body
func (r *IdentityRecord) SetContentLength(n int64) {
	r.ContentLength = &n
}

// SetVerified marks the record as confirmed by a structured API
func (r *IdentityRecord) SetVerified(v bool) {
	r.Verified = &v
}

// IsVerified reports whether the record was confirmed by a structured API
func (r *IdentityRecord) IsVerified() bool {
	return r.Verified != nil && *r.Verified
}

// AddSource records that another source reported the same identity.
// The first different source seeds FoundBy with the record's own source;
// reports from the record's own source leave it unchanged.
func (r *IdentityRecord) AddSource(s Source) {
	if r.FoundBy == nil {
		if s == r.Source {
			return
		}
		r.FoundBy = []Source{r.Source}
	}
	for _, existing := range r.FoundBy {
		if existing == s {
			return
		}
	}
	r.FoundBy = append(r.FoundBy, s)
}

// Sources returns every source that reported this record
func (r *IdentityRecord) Sources() []Source {
	if r.FoundBy == nil {
		return []Source{r.Source}
	}
	out := make([]Source, len(r.FoundBy))
	copy(out, r.FoundBy)
	return out
}
