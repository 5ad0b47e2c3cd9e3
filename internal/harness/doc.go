// Package harness runs YAML scenarios against the time index verifier.
//
// A scenario mints genesis cells into a fresh ledger, then submits each
// step as a transaction. Every step is verified, compared against its
// expected verdict, and committed only when accepted. Assertions then
// inspect the live cells that remain.
//
// The trace (one event per step) is deterministic for a given scenario and
// is compared against golden files with RunWithGolden.
package harness
