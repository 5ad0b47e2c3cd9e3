package host

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/timeindex"
)

// ScriptError is a validator rejection attributed to one script group.
type ScriptError struct {
	Location string
	TypeHash cell.Hash
	Err      error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Location, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// Code is the failure code of the underlying rejection.
func (e *ScriptError) Code() int { return timeindex.KindOf(e.Err).Code() }

// AsScriptError extracts a *ScriptError from err.
func AsScriptError(err error) (*ScriptError, bool) {
	var se *ScriptError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// GroupResult records how one group was classified and judged.
type GroupResult struct {
	Location string
	TypeHash cell.Hash
	Path     timeindex.Path
	Err      error
}

// Report is the outcome of verifying one transaction.
type Report struct {
	TxHash cell.Hash
	Groups []GroupResult
}

// Accepted reports whether every group accepted.
func (r *Report) Accepted() bool {
	for _, g := range r.Groups {
		if g.Err != nil {
			return false
		}
	}
	return true
}

// Paths lists the classified path of each group in order.
func (r *Report) Paths() []string {
	out := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		out[i] = g.Path.String()
	}
	return out
}

// Verifier runs the time index validator over transactions.
type Verifier struct {
	codeHash cell.Hash
	logger   *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVerifier returns a Verifier for the time index script at codeHash.
func NewVerifier(codeHash cell.Hash, opts ...Option) *Verifier {
	v := &Verifier{
		codeHash: codeHash,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CodeHash returns the code hash this verifier executes.
func (v *Verifier) CodeHash() cell.Hash { return v.codeHash }

// Verify validates every time index group in rtx. Groups are judged in
// order and verification stops at the first rejection, which is returned
// as a *ScriptError alongside the partial report.
func (v *Verifier) Verify(rtx *cell.ResolvedTx) (*Report, error) {
	report := &Report{TxHash: rtx.Hash}
	for _, g := range Groups(rtx, v.codeHash) {
		ctx := NewTxContext(rtx, g.Script)
		res := GroupResult{
			Location: g.Location(),
			TypeHash: g.Hash,
			Path:     timeindex.Classify(ctx),
		}
		v.logger.Debug("verifying script group",
			"tx", rtx.Hash.Hex(),
			"type_hash", g.Hash.Hex(),
			"path", res.Path.String(),
			"inputs", len(g.Inputs),
			"outputs", len(g.Outputs),
		)

		res.Err = timeindex.Validate(ctx)
		report.Groups = append(report.Groups, res)
		if res.Err != nil {
			v.logger.Info("transaction rejected",
				"tx", rtx.Hash.Hex(),
				"location", res.Location,
				"kind", timeindex.KindOf(res.Err).String(),
				"code", timeindex.KindOf(res.Err).Code(),
			)
			return report, &ScriptError{Location: res.Location, TypeHash: g.Hash, Err: res.Err}
		}
	}
	v.logger.Info("transaction accepted", "tx", rtx.Hash.Hex(), "groups", len(report.Groups))
	return report, nil
}
