package domain

// FailureReason classifies why a probe produced no verdict
type FailureReason string

const (
	FailureTimeout          FailureReason = "timeout"
	FailureConnectionError  FailureReason = "connection_error"
	FailureNonSuccessStatus FailureReason = "non_success_status"
	FailureValidationFailed FailureReason = "validation_failed"
)

// FailureRecord keeps an unsuccessful probe for the report
type FailureRecord struct {
	Platform   string        `json:"platform" yaml:"platform"`
	Target     string        `json:"target" yaml:"target"`
	Reason     FailureReason `json:"reason" yaml:"reason"`
	StatusCode *int          `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Detail     string        `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// NewFailure creates a failure record without a status code
func NewFailure(platform, target string, reason FailureReason, detail string) *FailureRecord {
	return &FailureRecord{
		Platform: platform,
		Target:   target,
		Reason:   reason,
		Detail:   detail,
	}
}

// NewStatusFailure creates a failure record that carries the HTTP status
func NewStatusFailure(platform, target string, reason FailureReason, status int) *FailureRecord {
	return &FailureRecord{
		Platform:   platform,
		Target:     target,
		Reason:     reason,
		StatusCode: &status,
	}
}
