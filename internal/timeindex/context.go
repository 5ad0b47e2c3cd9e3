package timeindex

import "github.com/roach88/timeindex/internal/cell"

// ScriptContext is the view of the executing script and its transaction that
// the host environment supplies. Implementations must be deterministic
// functions of the transaction snapshot.
type ScriptContext interface {
	// CurrentIdentityTag returns the args of the executing type script.
	CurrentIdentityTag() []byte

	// CurrentTypeHash returns the type hash of the executing type script.
	CurrentTypeHash() cell.Hash

	// CountMatching counts entries on side whose type hash equals typeHash.
	// Entries without a type script never match.
	CountMatching(side cell.Side, typeHash cell.Hash) int

	// LocateMatching returns the position of the first matching entry on side.
	LocateMatching(side cell.Side, typeHash cell.Hash) (int, bool)

	// LoadPayload returns the data of the entry at index on side.
	// It fails with ErrIndexOutOfBound or ErrNotFound.
	LoadPayload(index int, side cell.Side) ([]byte, error)

	// LoadEntryIdentityTag returns the args of the type script of the entry
	// at index on side; ok is false when the entry has no type script.
	LoadEntryIdentityTag(index int, side cell.Side) (tag []byte, ok bool, err error)

	// FirstConsumedInputReference returns the serialized out-point of input 0.
	FirstConsumedInputReference() ([]byte, error)
}
