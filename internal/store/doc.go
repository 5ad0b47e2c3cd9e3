// Package store provides the SQLite-backed live-cell set that plays the
// ledger in scenarios and CLI runs.
//
// The time index validator never touches the store: the ledger owns
// persistence, and the store is that ledger. It keeps every cell ever
// created together with the logical seq of the transaction that created it
// and, once spent, the seq that consumed it.
//
// # Patterns
//
//   - Logical time only: seq INTEGER orders transactions, never timestamps.
//   - Deterministic reads: list queries ORDER BY created_seq, tx_hash, out_index.
//   - Atomic commits: a transaction's inputs are consumed and its outputs
//     created inside one SQL transaction; a dead input aborts the commit.
//   - Transaction bodies are journaled as canonical JSON.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
