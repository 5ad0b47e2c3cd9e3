package timeindex

import (
	"github.com/roach88/timeindex/internal/cell"
)

var testCodeHash = cell.Hash{0x74, 0x69}

// entry is one cell on a side of a fake transaction.
type entry struct {
	script  *cell.Script
	data    []byte
	hideTag bool // reports no type script even though the hash matches
}

// fakeContext is an in-memory ScriptContext.
type fakeContext struct {
	script      cell.Script
	inputs      []entry
	outputs     []entry
	firstRef    []byte
	firstRefErr error
	payloadErr  error
}

func scriptFor(tag []byte) *cell.Script {
	return &cell.Script{CodeHash: testCodeHash, HashType: cell.HashTypeType, Args: tag}
}

func record(tag []byte, index uint8) entry {
	return entry{script: scriptFor(tag), data: []byte{index, Modulus}}
}

func plain() entry { return entry{} }

func newFake(tag []byte) *fakeContext {
	return &fakeContext{script: *scriptFor(tag)}
}

func (f *fakeContext) side(s cell.Side) []entry {
	if s == cell.SideInput {
		return f.inputs
	}
	return f.outputs
}

func (f *fakeContext) CurrentIdentityTag() []byte { return f.script.Args }

func (f *fakeContext) CurrentTypeHash() cell.Hash { return f.script.Hash() }

func (f *fakeContext) CountMatching(side cell.Side, typeHash cell.Hash) int {
	n := 0
	for _, e := range f.side(side) {
		if e.script != nil && e.script.Hash() == typeHash {
			n++
		}
	}
	return n
}

func (f *fakeContext) LocateMatching(side cell.Side, typeHash cell.Hash) (int, bool) {
	for i, e := range f.side(side) {
		if e.script != nil && e.script.Hash() == typeHash {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeContext) LoadPayload(index int, side cell.Side) ([]byte, error) {
	if f.payloadErr != nil {
		return nil, f.payloadErr
	}
	entries := f.side(side)
	if index < 0 || index >= len(entries) {
		return nil, ErrIndexOutOfBound
	}
	return entries[index].data, nil
}

func (f *fakeContext) LoadEntryIdentityTag(index int, side cell.Side) ([]byte, bool, error) {
	entries := f.side(side)
	if index < 0 || index >= len(entries) {
		return nil, false, ErrIndexOutOfBound
	}
	e := entries[index]
	if e.script == nil || e.hideTag {
		return nil, false, nil
	}
	return e.script.Args, true, nil
}

func (f *fakeContext) FirstConsumedInputReference() ([]byte, error) {
	if f.firstRefErr != nil {
		return nil, f.firstRefErr
	}
	if len(f.inputs) == 0 {
		return nil, ErrIndexOutOfBound
	}
	return f.firstRef, nil
}

// creation builds a well-formed create transaction bound to ref.
func creation(ref []byte) *fakeContext {
	f := newFake(ref)
	f.firstRef = ref
	f.inputs = []entry{plain()}
	f.outputs = []entry{record(ref, 0)}
	return f
}

// advance builds a well-formed update transaction from index in to out.
func advance(tag []byte, in, out uint8) *fakeContext {
	f := newFake(tag)
	f.firstRef = []byte("unrelated")
	f.inputs = []entry{record(tag, in)}
	f.outputs = []entry{record(tag, out)}
	return f
}
