package timeindex

import "github.com/roach88/timeindex/internal/cell"

// Classify decides create versus update: it is an update exactly when some
// consumed input carries the executing type hash.
func Classify(ctx ScriptContext) Path {
	if _, found := ctx.LocateMatching(cell.SideInput, ctx.CurrentTypeHash()); found {
		return PathUpdate
	}
	return PathCreate
}

// Validate checks the transition proposed by the transaction behind ctx.
// It returns nil on acceptance and an *Error otherwise. The first failing
// check rejects the transaction.
func Validate(ctx ScriptContext) error {
	switch Classify(ctx) {
	case PathUpdate:
		return validateUpdate(ctx)
	default:
		return validateCreate(ctx)
	}
}

func validateCreate(ctx ScriptContext) error {
	typeHash := ctx.CurrentTypeHash()
	if err := RequireSingle(ctx, cell.SideOutput, typeHash); err != nil {
		return err
	}
	if err := BindOnCreate(ctx); err != nil {
		return err
	}
	out, err := loadRecord(ctx, cell.SideOutput, typeHash)
	if err != nil {
		return err
	}
	return CheckCreate(out)
}

func validateUpdate(ctx ScriptContext) error {
	typeHash := ctx.CurrentTypeHash()
	if err := RequireSingle(ctx, cell.SideInput, typeHash); err != nil {
		return err
	}
	if err := RequireSingle(ctx, cell.SideOutput, typeHash); err != nil {
		return err
	}
	if err := VerifyOnUpdate(ctx); err != nil {
		return err
	}
	in, err := loadRecord(ctx, cell.SideInput, typeHash)
	if err != nil {
		return err
	}
	out, err := loadRecord(ctx, cell.SideOutput, typeHash)
	if err != nil {
		return err
	}
	return CheckUpdate(in, out)
}

// loadRecord locates the single matching entry on side and decodes its payload.
func loadRecord(ctx ScriptContext, side cell.Side, typeHash cell.Hash) (Record, error) {
	pos, ok := ctx.LocateMatching(side, typeHash)
	if !ok {
		return Record{}, newError(KindRecordNotFound, ReasonNoMatchingEntry, "no %s record of this type", side)
	}
	data, err := ctx.LoadPayload(pos, side)
	if err != nil {
		return Record{}, hostError("load "+side.String()+" payload", err)
	}
	return DecodeRecord(data)
}
