package timeindex

import "github.com/roach88/timeindex/internal/cell"

// RequireSingle fails unless exactly one entry on side carries typeHash.
// The failure kind is KindInvalidInput or KindInvalidOutput by side.
func RequireSingle(ctx ScriptContext, side cell.Side, typeHash cell.Hash) error {
	n := ctx.CountMatching(side, typeHash)
	if n == 1 {
		return nil
	}
	kind := KindInvalidOutput
	if side == cell.SideInput {
		kind = KindInvalidInput
	}
	return newError(kind, ReasonCardinality, "%d matching %s records, want 1", n, side)
}
