// Package repository defines the evidence store interface.
//
// Every investigation writes its merged records, their provenance and the
// failed probes to a small database inside the investigation directory, so
// the evidence can be queried with ordinary SQL tooling after the run.
// The implementation lives in the sqlite subpackage.
package repository
