// Package adapter wraps external username and email discovery tools.
//
// Each adapter runs one program through the shared process runner, reads
// what it printed or wrote, and turns it into identity records tagged with
// the tool's source. Adapters never fail a scan: a missing executable, a
// timeout or unreadable output yields an empty batch and a warning.
//
// Registry runs every registered adapter concurrently and hands the
// batches back ordered by adapter name.
package adapter
