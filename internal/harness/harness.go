package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/host"
	"github.com/roach88/timeindex/internal/store"
	"github.com/roach88/timeindex/internal/testutil"
	"github.com/roach88/timeindex/internal/timeindex"
)

const defaultCapacity = 1000

// Options configures a scenario run.
type Options struct {
	// CodeHash identifies time index type scripts. Zero selects
	// host.DefaultCodeHash.
	CodeHash cell.Hash

	// Store is the ledger to run against. Nil opens a fresh in-memory
	// store that is closed when the run ends.
	Store *store.Store

	// Logger receives verifier and step logs. Nil discards.
	Logger *slog.Logger
}

// Harness executes one scenario.
type Harness struct {
	store    *store.Store
	verifier *host.Verifier
	seq      *testutil.Sequence
	logger   *slog.Logger

	// points maps every cell name to the out-point it was created at,
	// whether or not it is still live.
	points map[string]cell.OutPoint
}

// Run executes a scenario in a fresh in-memory ledger.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithOptions(context.Background(), scenario, Options{})
}

// RunWithOptions executes a scenario and returns the result.
//
// A returned error means the scenario could not be executed (a store
// failure or a step spending a cell that is not live); unmet expectations
// are reported in Result.Errors instead.
func RunWithOptions(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	if opts.CodeHash.IsZero() {
		opts.CodeHash = host.DefaultCodeHash
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	st := opts.Store
	if st == nil {
		var err error
		st, err = store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
	}

	h := &Harness{
		store:    st,
		verifier: host.NewVerifier(opts.CodeHash, host.WithLogger(opts.Logger)),
		seq:      testutil.NewSequence(),
		logger:   opts.Logger,
		points:   make(map[string]cell.OutPoint),
	}

	base, err := st.HeadSeq(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.executeGenesis(ctx, scenario.Cells); err != nil {
		return nil, fmt.Errorf("failed to execute genesis: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
		}
	}

	actx := &AssertionContext{
		Ctx:      ctx,
		Store:    st,
		CodeHash: h.verifier.CodeHash(),
		BaseSeq:  base,
		Points:   h.points,
	}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// executeGenesis mints each cell in its own genesis transaction so that
// later cells can bind to the out-points of earlier ones.
func (h *Harness) executeGenesis(ctx context.Context, cells []CellSpec) error {
	for i, cs := range cells {
		out, err := h.buildCell(cs)
		if err != nil {
			return fmt.Errorf("cells[%d]: %w", i, err)
		}
		points, err := h.store.Genesis(ctx, []cell.Output{out})
		if err != nil {
			return fmt.Errorf("cells[%d]: %w", i, err)
		}
		if cs.Name != "" {
			h.points[cs.Name] = points[0]
		}
	}
	return nil
}

func (h *Harness) executeStep(ctx context.Context, step Step, result *Result) error {
	tx := cell.Transaction{}
	for _, name := range step.Inputs {
		op, ok := h.points[name]
		if !ok {
			return fmt.Errorf("unknown input cell %q", name)
		}
		tx.Inputs = append(tx.Inputs, op)
	}
	for j, cs := range step.Outputs {
		out, err := h.buildCell(cs)
		if err != nil {
			return fmt.Errorf("outputs[%d]: %w", j, err)
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	rtx, err := h.store.Resolve(ctx, tx)
	if err != nil {
		return err
	}

	report, verr := h.verifier.Verify(rtx)
	ev := TraceEvent{
		Seq:     h.seq.Next(),
		Step:    step.Name,
		Verdict: VerdictAccept,
		Paths:   report.Paths(),
		TxHash:  rtx.Hash,
	}
	if verr != nil {
		ev.Verdict = VerdictReject
		kind := timeindex.KindOf(verr)
		ev.Kind = kind.String()
		ev.Code = kind.Code()
		if se, ok := host.AsScriptError(verr); ok {
			ev.Location = se.Location
		}
	}
	result.AddEvent(ev)

	h.logger.Debug("step verified",
		"seq", ev.Seq,
		"step", step.Name,
		"verdict", ev.Verdict,
		"kind", ev.Kind,
	)

	if got := verdictOf(ev); got != step.Expect {
		msg := fmt.Sprintf("step %q: expected %s, got %s", step.Name, step.Expect, got)
		if verr != nil {
			msg += fmt.Sprintf(" (%v)", verr)
		}
		result.AddError(msg)
	}

	if verr != nil {
		return nil
	}
	created, err := h.store.Commit(ctx, rtx)
	if err != nil {
		return err
	}
	for j, cs := range step.Outputs {
		if cs.Name != "" {
			h.points[cs.Name] = created[j]
		}
	}
	return nil
}

// verdictOf renders an event in the vocabulary of Step.Expect.
func verdictOf(ev TraceEvent) string {
	if ev.Verdict == VerdictAccept {
		return ExpectAccept
	}
	return ev.Kind
}

func (h *Harness) buildCell(cs CellSpec) (cell.Output, error) {
	out := cell.Output{
		Capacity: cs.Capacity,
		Lock:     testutil.AlwaysSuccessLock(),
		Data:     []byte{},
	}
	if out.Capacity == 0 {
		out.Capacity = defaultCapacity
	}

	if cs.Lock != "" {
		args, err := cell.DecodeHex(cs.Lock)
		if err != nil {
			return cell.Output{}, fmt.Errorf("lock: %w", err)
		}
		out.Lock.Args = args
	}

	switch {
	case cs.Index != nil:
		// Not NewRecord: scenarios may carry out-of-range indices.
		out.Data = []byte{uint8(*cs.Index), timeindex.Modulus}
	case cs.Data != nil:
		data, err := cell.DecodeHex(*cs.Data)
		if err != nil {
			return cell.Output{}, fmt.Errorf("data: %w", err)
		}
		out.Data = data
	}

	if cs.Type != nil {
		typ, err := h.buildType(*cs.Type)
		if err != nil {
			return cell.Output{}, err
		}
		out.Type = typ
	}
	return out, nil
}

func (h *Harness) buildType(ts TypeSpec) (*cell.Script, error) {
	typ := testutil.TypeScript(h.verifier.CodeHash(), []byte{})

	if ts.CodeHash != "" {
		code, err := cell.ParseHash(ts.CodeHash)
		if err != nil {
			return nil, fmt.Errorf("type.code_hash: %w", err)
		}
		typ.CodeHash = code
	}
	if ts.HashType != "" {
		ht, err := cell.ParseHashType(ts.HashType)
		if err != nil {
			return nil, fmt.Errorf("type.hash_type: %w", err)
		}
		typ.HashType = ht
	}

	switch {
	case ts.ArgsFrom != "":
		op, ok := h.points[ts.ArgsFrom]
		if !ok {
			return nil, fmt.Errorf("type.args_from: unknown cell %q", ts.ArgsFrom)
		}
		typ.Args = op.Bytes()
	case ts.Args != nil:
		args, err := cell.DecodeHex(*ts.Args)
		if err != nil {
			return nil, fmt.Errorf("type.args: %w", err)
		}
		typ.Args = args
	}
	return typ, nil
}
