// Package probe checks whether a username exists on a single platform.
//
// A Prober issues one HTTP request per PlatformProbe, waiting on the shared
// per-host limiter first, and hands the response to a Classifier. The
// Classifier is a pure function of the probe and the response: it applies
// the status, auth-wall, soft-404, length and content-signature filters in
// that order, then the kind-specific checks.
package probe
