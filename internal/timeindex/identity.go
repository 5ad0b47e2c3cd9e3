package timeindex

import (
	"bytes"

	"github.com/roach88/timeindex/internal/cell"
)

// BindOnCreate requires the executing script's identity tag to equal the
// serialized reference of the transaction's first consumed input.
func BindOnCreate(ctx ScriptContext) error {
	ref, err := ctx.FirstConsumedInputReference()
	if err != nil {
		return hostError("load first input reference", err)
	}
	if !bytes.Equal(ref, ctx.CurrentIdentityTag()) {
		return newError(KindInvalidArgument, ReasonIdentityMismatch,
			"identity tag does not match first input reference")
	}
	return nil
}

// VerifyOnUpdate requires a non-empty identity tag that is byte-for-byte
// equal to the tag carried by the consumed record.
//
// The tag is only compared with the consumed instance; it is never re-derived
// from the reference consumed at creation.
func VerifyOnUpdate(ctx ScriptContext) error {
	tag := ctx.CurrentIdentityTag()
	if len(tag) == 0 {
		return newError(KindInvalidArgument, ReasonEmptyIdentity, "identity tag is empty")
	}
	pos, ok := ctx.LocateMatching(cell.SideInput, ctx.CurrentTypeHash())
	if !ok {
		return newError(KindRecordNotFound, ReasonNoMatchingInput, "no consumed record of this type")
	}
	inputTag, ok, err := ctx.LoadEntryIdentityTag(pos, cell.SideInput)
	if err != nil {
		return hostError("load input identity tag", err)
	}
	if !ok {
		return newError(KindRecordNotFound, ReasonMissingTypeTag, "consumed record at input %d has no type script", pos)
	}
	if !bytes.Equal(inputTag, tag) {
		return newError(KindInvalidArgument, ReasonIdentityMismatch,
			"identity tag differs from consumed record at input %d", pos)
	}
	return nil
}
