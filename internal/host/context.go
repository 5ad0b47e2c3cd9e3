package host

import (
	"fmt"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/timeindex"
)

// TxContext implements timeindex.ScriptContext for one executing type
// script over a resolved transaction.
type TxContext struct {
	tx       *cell.ResolvedTx
	script   cell.Script
	typeHash cell.Hash
}

var _ timeindex.ScriptContext = (*TxContext)(nil)

// NewTxContext binds script to rtx. The type hash is computed once.
func NewTxContext(rtx *cell.ResolvedTx, script cell.Script) *TxContext {
	return &TxContext{tx: rtx, script: script, typeHash: script.Hash()}
}

func (c *TxContext) CurrentIdentityTag() []byte { return c.script.Args }

func (c *TxContext) CurrentTypeHash() cell.Hash { return c.typeHash }

func (c *TxContext) CountMatching(side cell.Side, typeHash cell.Hash) int {
	n := 0
	for i := 0; i < c.size(side); i++ {
		if h, ok := c.output(side, i).TypeHash(); ok && h == typeHash {
			n++
		}
	}
	return n
}

func (c *TxContext) LocateMatching(side cell.Side, typeHash cell.Hash) (int, bool) {
	for i := 0; i < c.size(side); i++ {
		if h, ok := c.output(side, i).TypeHash(); ok && h == typeHash {
			return i, true
		}
	}
	return 0, false
}

func (c *TxContext) LoadPayload(index int, side cell.Side) ([]byte, error) {
	if err := c.bound(index, side); err != nil {
		return nil, err
	}
	return c.output(side, index).Data, nil
}

func (c *TxContext) LoadEntryIdentityTag(index int, side cell.Side) ([]byte, bool, error) {
	if err := c.bound(index, side); err != nil {
		return nil, false, err
	}
	typ := c.output(side, index).Type
	if typ == nil {
		return nil, false, nil
	}
	return typ.Args, true, nil
}

func (c *TxContext) FirstConsumedInputReference() ([]byte, error) {
	if len(c.tx.Inputs) == 0 {
		return nil, fmt.Errorf("input 0: %w", timeindex.ErrIndexOutOfBound)
	}
	return c.tx.Inputs[0].OutPoint.Bytes(), nil
}

func (c *TxContext) size(side cell.Side) int {
	if side == cell.SideInput {
		return len(c.tx.Inputs)
	}
	return len(c.tx.Outputs)
}

func (c *TxContext) output(side cell.Side, i int) cell.Output {
	if side == cell.SideInput {
		return c.tx.Inputs[i].Cell
	}
	return c.tx.Outputs[i]
}

func (c *TxContext) bound(index int, side cell.Side) error {
	if index < 0 || index >= c.size(side) {
		return fmt.Errorf("%s %d: %w", side, index, timeindex.ErrIndexOutOfBound)
	}
	return nil
}
