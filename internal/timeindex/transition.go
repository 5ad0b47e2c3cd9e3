package timeindex

// Path is the classified kind of invocation.
type Path uint8

const (
	// PathCreate: no record of this type is consumed; one is being minted.
	PathCreate Path = iota + 1
	// PathUpdate: a record of this type is consumed and must be advanced.
	PathUpdate
)

func (p Path) String() string {
	switch p {
	case PathCreate:
		return "create"
	case PathUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Next returns the successor of index in the cycle.
func Next(index uint8) uint8 {
	if index == Modulus-1 {
		return 0
	}
	return index + 1
}

// CheckCreate enforces that a freshly created record starts at 0.
func CheckCreate(out Record) error {
	if out.Index != 0 {
		return newError(KindInvalidTransition, ReasonNonZeroStart,
			"created record starts at %d, want 0", out.Index)
	}
	return nil
}

// CheckUpdate enforces out.Index == in.Index+1, wrapping Modulus-1 to 0.
func CheckUpdate(in, out Record) error {
	if want := Next(in.Index); out.Index != want {
		return newError(KindInvalidTransition, ReasonBadAdvance,
			"index moved %d -> %d, want %d", in.Index, out.Index, want)
	}
	return nil
}
