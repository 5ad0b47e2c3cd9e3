// Package testutil provides deterministic helpers shared by tests and the
// scenario harness: a logical sequence and builders for cells and resolved
// transactions.
package testutil

import (
	"github.com/roach88/timeindex/internal/canon"
	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/timeindex"
)

// AlwaysSuccessCodeHash identifies the lock attached to fixture cells.
// Lock scripts are never executed by the verifier.
var AlwaysSuccessCodeHash = cell.Hash(canon.Sum256([]byte("always_success")))

// AlwaysSuccessLock returns the fixture lock script.
func AlwaysSuccessLock() cell.Script {
	return cell.Script{CodeHash: AlwaysSuccessCodeHash, HashType: cell.HashTypeData}
}

// OutPoint returns an out-point whose tx hash is seed repeated.
func OutPoint(seed byte, index uint32) cell.OutPoint {
	var h cell.Hash
	for i := range h {
		h[i] = seed
	}
	return cell.OutPoint{TxHash: h, Index: index}
}

// TypeScript returns a time index type script bound to args.
func TypeScript(codeHash cell.Hash, args []byte) *cell.Script {
	return &cell.Script{CodeHash: codeHash, HashType: cell.HashTypeType, Args: args}
}

// PlainCell is a cell with no type script and no data.
func PlainCell(capacity uint64) cell.Output {
	return cell.Output{Capacity: capacity, Lock: AlwaysSuccessLock(), Data: []byte{}}
}

// RecordCell is a cell carrying typ and the payload [index, Modulus].
func RecordCell(typ *cell.Script, index uint8) cell.Output {
	return cell.Output{
		Capacity: 500,
		Lock:     AlwaysSuccessLock(),
		Type:     typ,
		Data:     []byte{index, timeindex.Modulus},
	}
}

// TxBuilder assembles resolved transactions.
type TxBuilder struct {
	inputs  []cell.ResolvedInput
	outputs []cell.Output
}

// NewTx starts an empty transaction.
func NewTx() *TxBuilder {
	return &TxBuilder{}
}

// Input consumes live cell c at op.
func (b *TxBuilder) Input(op cell.OutPoint, c cell.Output) *TxBuilder {
	b.inputs = append(b.inputs, cell.ResolvedInput{OutPoint: op, Cell: c})
	return b
}

// Output produces c.
func (b *TxBuilder) Output(c cell.Output) *TxBuilder {
	b.outputs = append(b.outputs, c)
	return b
}

// Build computes the transaction hash and returns the resolved transaction.
// It panics if the transaction cannot be hashed, which only happens for
// values canon rejects.
func (b *TxBuilder) Build() *cell.ResolvedTx {
	rtx := &cell.ResolvedTx{Inputs: b.inputs, Outputs: b.outputs}
	h, err := rtx.Transaction().Hash()
	if err != nil {
		panic(err)
	}
	rtx.Hash = h
	return rtx
}
