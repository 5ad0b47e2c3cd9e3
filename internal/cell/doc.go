// Package cell defines the ledger data model the time index validator runs
// against: 32-byte hashes, out-points, scripts, cell outputs and
// transactions, together with their canonical byte serializations.
//
// A cell is consumed by naming its OutPoint as a transaction input and is
// produced as one of the transaction's outputs. Type scripts attached to
// cells are identified by their type hash, the blake2b-256 digest of the
// script serialization.
package cell
