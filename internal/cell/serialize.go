package cell

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/roach88/timeindex/internal/canon"
)

// OutPointLen is the size of a serialized OutPoint.
const OutPointLen = HashLen + 4

// Bytes serializes o as tx_hash || little-endian u32 index. This is the
// reference form a time index record's identity tag is bound to.
func (o OutPoint) Bytes() []byte {
	b := make([]byte, OutPointLen)
	copy(b, o.TxHash[:])
	binary.LittleEndian.PutUint32(b[HashLen:], o.Index)
	return b
}

// DecodeOutPoint is the inverse of OutPoint.Bytes.
func DecodeOutPoint(b []byte) (OutPoint, error) {
	if len(b) != OutPointLen {
		return OutPoint{}, fmt.Errorf("out-point: want %d bytes, got %d", OutPointLen, len(b))
	}
	var o OutPoint
	copy(o.TxHash[:], b[:HashLen])
	o.Index = binary.LittleEndian.Uint32(b[HashLen:])
	return o, nil
}

// Bytes serializes s as code_hash || hash_type || LE u32 len(args) || args.
func (s Script) Bytes() []byte {
	b := make([]byte, 0, HashLen+1+4+len(s.Args))
	b = append(b, s.CodeHash[:]...)
	b = append(b, byte(s.HashType))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s.Args)))
	return append(b, s.Args...)
}

// Hash is the script's type hash.
func (s Script) Hash() Hash {
	return Hash(canon.Sum256(s.Bytes()))
}

// Hash is the transaction hash: a domain-separated digest of the canonical
// JSON form of the transaction.
func (tx Transaction) Hash() (Hash, error) {
	sum, err := canon.Digest(canon.DomainTransaction, tx.Canonical())
	if err != nil {
		return Hash{}, err
	}
	return Hash(sum), nil
}

// Canonical returns tx as a canon-marshalable value.
func (tx Transaction) Canonical() map[string]any {
	inputs := make([]any, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = hex.EncodeToString(in.Bytes())
	}
	outputs := make([]any, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = out.Canonical()
	}
	return map[string]any{
		"inputs":  inputs,
		"outputs": outputs,
	}
}

// Canonical returns o as a canon-marshalable value.
func (o Output) Canonical() map[string]any {
	m := map[string]any{
		"capacity": o.Capacity,
		"lock":     o.Lock.Canonical(),
		"data":     hex.EncodeToString(o.Data),
	}
	if o.Type != nil {
		m["type"] = o.Type.Canonical()
	}
	return m
}

// Canonical returns s as a canon-marshalable value.
func (s Script) Canonical() map[string]any {
	return map[string]any{
		"code_hash": s.CodeHash.Hex(),
		"hash_type": s.HashType.String(),
		"args":      hex.EncodeToString(s.Args),
	}
}
