package host

import (
	"fmt"

	"github.com/roach88/timeindex/internal/canon"
	"github.com/roach88/timeindex/internal/cell"
)

// DefaultCodeHash identifies the time index type script when no other code
// hash is configured.
var DefaultCodeHash = cell.Hash(canon.Sum256([]byte("time_index_state_type_script")))

// Group is every entry of a transaction carrying one type script.
type Group struct {
	Script  cell.Script
	Hash    cell.Hash
	Inputs  []int
	Outputs []int
}

// Location names the entry a failure is attributed to: the first input if
// the group consumes anything, otherwise the first output.
func (g Group) Location() string {
	if len(g.Inputs) > 0 {
		return fmt.Sprintf("input_type_script(%d)", g.Inputs[0])
	}
	if len(g.Outputs) > 0 {
		return fmt.Sprintf("output_type_script(%d)", g.Outputs[0])
	}
	return "type_script"
}

// Groups collects the type script groups of rtx whose code hash is codeHash,
// ordered by first appearance scanning inputs then outputs.
func Groups(rtx *cell.ResolvedTx, codeHash cell.Hash) []Group {
	var groups []Group
	index := make(map[cell.Hash]int)

	add := func(side cell.Side, pos int, out cell.Output) {
		if out.Type == nil || out.Type.CodeHash != codeHash {
			return
		}
		h := out.Type.Hash()
		gi, ok := index[h]
		if !ok {
			gi = len(groups)
			index[h] = gi
			groups = append(groups, Group{Script: *out.Type, Hash: h})
		}
		if side == cell.SideInput {
			groups[gi].Inputs = append(groups[gi].Inputs, pos)
		} else {
			groups[gi].Outputs = append(groups[gi].Outputs, pos)
		}
	}

	for i, in := range rtx.Inputs {
		add(cell.SideInput, i, in.Cell)
	}
	for i, out := range rtx.Outputs {
		add(cell.SideOutput, i, out)
	}
	return groups
}
