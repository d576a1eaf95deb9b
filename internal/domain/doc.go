// Package domain defines the core types of a username investigation.
//
// # Core Types
//
// PlatformProbe describes a single existence check: which platform, which URL,
// and which classification strategy (ProbeKind) applies to the response.
//
// IdentityRecord is one piece of evidence that the username exists somewhere:
// a profile URL found by a direct probe or reported by an external tool, or an
// email account reported by an email-oriented tool. Records carry provenance
// (Source, FoundBy) so the final report can show which sources agreed.
//
// FailureRecord keeps probes that could not be classified cleanly (timeouts,
// unexpected status codes, signature mismatches) for traceability.
//
// Investigation is the aggregate root handed to report writers once a run
// completes.
//
// # Design Principles
//
// - No network, process or storage dependencies
// - Typed string enumerations that serialize cleanly to JSON and YAML
package domain
