package harness

import "github.com/roach88/timeindex/internal/cell"

// Verdicts recorded in the trace.
const (
	VerdictAccept = "accept"
	VerdictReject = "reject"
)

// TraceEvent is the outcome of one step.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Step    string `json:"step"`
	Verdict string `json:"verdict"`

	// Paths lists the classified path of each verified script group.
	Paths []string `json:"paths"`

	// Set on rejection only.
	Kind     string `json:"kind,omitempty"`
	Code     int    `json:"code,omitempty"`
	Location string `json:"location,omitempty"`

	// TxHash depends on the exact genesis encoding and is left out of
	// golden snapshots.
	TxHash cell.Hash `json:"-"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step met its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends a step outcome to the trace.
func (r *Result) AddEvent(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
