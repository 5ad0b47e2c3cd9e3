// Package timeindex validates state transitions of a time index cell: a
// single long-lived ledger record whose 2-byte payload cycles a counter
// through 0..Modulus-1.
//
// Validate is invoked once per transaction that creates or consumes a record
// of the executing type script. It reads everything it needs through a
// ScriptContext and either returns nil (accept) or a *Error whose Kind maps
// to a stable failure code. There is no state between invocations; the
// create-or-update decision is reconstructed by scanning the transaction's
// consumed inputs for the executing type hash.
//
// Control flow:
//
//	Classify ──► PathCreate: RequireSingle(output) ► BindOnCreate ► DecodeRecord ► CheckCreate
//	         └─► PathUpdate: RequireSingle(input, output) ► VerifyOnUpdate ► DecodeRecord ×2 ► CheckUpdate
//
// The package performs no I/O, holds no mutable package state and logs
// nothing; identical transactions always produce identical verdicts.
package timeindex
