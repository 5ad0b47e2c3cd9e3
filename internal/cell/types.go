package cell

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// HashLen is the size of every hash on the ledger.
const HashLen = 32

// Hash is a 32-byte ledger digest.
type Hash [HashLen]byte

// Hex returns the lowercase hex encoding of h.
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

func (h Hash) String() string { return "0x" + h.Hex() }

// IsZero reports whether h is all zero bytes.
func (h Hash) IsZero() bool { return h == Hash{} }

// ParseHash decodes a 64-character hex string, with or without 0x prefix.
func ParseHash(s string) (Hash, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return Hash{}, fmt.Errorf("parse hash: %w", err)
	}
	if len(b) != HashLen {
		return Hash{}, fmt.Errorf("parse hash: want %d bytes, got %d", HashLen, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// DecodeHex decodes hex with an optional 0x prefix. The empty string decodes
// to an empty, non-nil slice.
func DecodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// Side selects which half of a transaction an entry lives on.
type Side uint8

const (
	// SideInput is the consumed side.
	SideInput Side = iota + 1
	// SideOutput is the produced side.
	SideOutput
)

func (s Side) String() string {
	switch s {
	case SideInput:
		return "input"
	case SideOutput:
		return "output"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// OutPoint references one output slot of a committed transaction.
type OutPoint struct {
	TxHash Hash
	Index  uint32
}

func (o OutPoint) String() string { return fmt.Sprintf("%s:%d", o.TxHash, o.Index) }

// HashType says how a script's code hash is resolved by the ledger.
type HashType uint8

const (
	HashTypeData  HashType = 0
	HashTypeType  HashType = 1
	HashTypeData1 HashType = 2
	HashTypeData2 HashType = 4
)

var hashTypeNames = map[HashType]string{
	HashTypeData:  "data",
	HashTypeType:  "type",
	HashTypeData1: "data1",
	HashTypeData2: "data2",
}

func (t HashType) String() string {
	if name, ok := hashTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("hash_type(%d)", uint8(t))
}

// ParseHashType maps a name such as "type" to its HashType.
// The empty string selects HashTypeData.
func ParseHashType(s string) (HashType, error) {
	if s == "" {
		return HashTypeData, nil
	}
	for t, name := range hashTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown hash type %q", s)
}

// Script is a lock or type script reference together with its arguments.
type Script struct {
	CodeHash Hash
	HashType HashType
	Args     []byte
}

// Equal reports whether two scripts serialize identically.
func (s Script) Equal(other Script) bool {
	return s.CodeHash == other.CodeHash && s.HashType == other.HashType && bytes.Equal(s.Args, other.Args)
}

// Output is a cell: capacity, lock, optional type script and data.
type Output struct {
	Capacity uint64
	Lock     Script
	Type     *Script
	Data     []byte
}

// TypeHash returns the type hash of the output's type script, if any.
func (o Output) TypeHash() (Hash, bool) {
	if o.Type == nil {
		return Hash{}, false
	}
	return o.Type.Hash(), true
}

// Transaction consumes Inputs and produces Outputs.
type Transaction struct {
	Inputs  []OutPoint
	Outputs []Output
}

// ResolvedInput pairs a consumed out-point with the live cell it spends.
type ResolvedInput struct {
	OutPoint OutPoint
	Cell     Output
}

// ResolvedTx is a transaction whose inputs have been loaded from the ledger.
// It is an immutable snapshot for the duration of a verification.
type ResolvedTx struct {
	Hash    Hash
	Inputs  []ResolvedInput
	Outputs []Output
}

// Transaction strips the resolved cells, leaving the submitted transaction.
func (r *ResolvedTx) Transaction() Transaction {
	tx := Transaction{
		Inputs:  make([]OutPoint, len(r.Inputs)),
		Outputs: r.Outputs,
	}
	for i, in := range r.Inputs {
		tx.Inputs[i] = in.OutPoint
	}
	return tx
}
