package harness

import (
	"context"
	"fmt"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/store"
	"github.com/roach88/timeindex/internal/timeindex"
)

// AssertionContext is what assertions may inspect.
type AssertionContext struct {
	Ctx      context.Context
	Store    *store.Store
	CodeHash cell.Hash
	// BaseSeq is the ledger head before the scenario ran. Cells created
	// at or below it belong to earlier runs.
	BaseSeq int64
	Points   map[string]cell.OutPoint
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertLiveRecord:
		return assertLiveRecord(a, actx)
	case AssertLiveCount:
		return assertLiveCount(a, actx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertLiveRecord checks that the named cell is unspent and decodes to a
// record at the expected index.
func assertLiveRecord(a Assertion, actx *AssertionContext) error {
	want := fmt.Sprintf("%s live at index %d", a.Cell, derefInt(a.Index))

	op, ok := actx.Points[a.Cell]
	if !ok {
		return &AssertionError{Type: a.Type, Expected: want, Actual: "cell never created"}
	}
	lc, err := actx.Store.LiveCell(actx.Ctx, op)
	if err != nil {
		return &AssertionError{Type: a.Type, Expected: want, Actual: err.Error()}
	}
	rec, err := timeindex.DecodeRecord(lc.Output.Data)
	if err != nil {
		return &AssertionError{Type: a.Type, Expected: want, Actual: err.Error()}
	}
	if int(rec.Index) != derefInt(a.Index) {
		return &AssertionError{Type: a.Type, Expected: want, Actual: fmt.Sprintf("index %d", rec.Index)}
	}
	return nil
}

// assertLiveCount checks the number of unspent time index cells created
// by this run.
func assertLiveCount(a Assertion, actx *AssertionContext) error {
	live, err := actx.Store.LiveByCodeHash(actx.Ctx, actx.CodeHash)
	if err != nil {
		return err
	}
	n := 0
	for _, lc := range live {
		if lc.CreatedSeq > actx.BaseSeq {
			n++
		}
	}
	if n != derefInt(a.Count) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d live cells", derefInt(a.Count)),
			Actual:   fmt.Sprintf("%d live cells", n),
		}
	}
	return nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
