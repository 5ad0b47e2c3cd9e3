package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/timeindex/internal/harness"
	"github.com/roach88/timeindex/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// NewTraceID overrides trace id generation (for testing).
	// If nil, a UUIDv7 is used.
	NewTraceID func() string
}

// StepResult is one step in the run output.
type StepResult struct {
	Seq      int64    `json:"seq"`
	Step     string   `json:"step"`
	Verdict  string   `json:"verdict"`
	Paths    []string `json:"paths"`
	Kind     string   `json:"kind,omitempty"`
	Code     int      `json:"code,omitempty"`
	Location string   `json:"location,omitempty"`
	TxHash   string   `json:"tx_hash"`
}

// RunResult is the data payload of the run command.
type RunResult struct {
	Scenario string       `json:"scenario"`
	Pass     bool         `json:"pass"`
	Steps    []StepResult `json:"steps"`
	Errors   []string     `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run one scenario against a ledger",
		Long: `Run a scenario and print the verdict of every step.

Genesis cells are minted, then each step is verified and committed when
accepted. The ledger is in memory unless --db (or store.path in the config
file) names a SQLite database, in which case the committed transactions
persist.

Exit codes:
  0 - Every step met its expectation and every assertion held
  1 - The scenario ran but failed
  2 - Command error (unreadable scenario, store failure, etc.)

Example:
  timeindex run testdata/scenarios/full_cycle.yaml
  timeindex run --db ./ledger.db --format json clock.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides store.path)")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	formatter.TraceID = opts.traceID()
	logger := opts.logger(cmd.ErrOrStderr()).With("trace_id", formatter.TraceID)
	cfg := opts.settings()

	codeHash, err := cfg.ParsedCodeHash()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		formatter.Error(CodeLoadFailed, err.Error(), path)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	logger.Info("opening store", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error(CodeStoreFailed, err.Error(), dbPath)
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing store", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	result, err := harness.RunWithOptions(ctx, scenario, harness.Options{
		CodeHash: codeHash,
		Store:    st,
		Logger:   logger,
	})
	if err != nil {
		formatter.Error(CodeRunFailed, err.Error(), scenario.Name)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := toRunResult(scenario.Name, result)
	logger.Info("scenario finished", "name", scenario.Name, "pass", out.Pass)

	if formatter.JSON() {
		if out.Pass {
			return formatter.Success(out)
		}
		if err := formatter.Failure(CodeScenarioFailed, failureMessage(out), out); err != nil {
			return err
		}
		return NewExitError(ExitFailure, failureMessage(out))
	}

	printRunText(cmd, out)
	if !out.Pass {
		return NewExitError(ExitFailure, failureMessage(out))
	}
	return nil
}

func (o *RunOptions) traceID() string {
	if o.NewTraceID != nil {
		return o.NewTraceID()
	}
	return uuid.Must(uuid.NewV7()).String()
}

func toRunResult(name string, result *harness.Result) RunResult {
	out := RunResult{
		Scenario: name,
		Pass:     result.Pass,
		Steps:    make([]StepResult, len(result.Trace)),
		Errors:   result.Errors,
	}
	for i, ev := range result.Trace {
		out.Steps[i] = StepResult{
			Seq:      ev.Seq,
			Step:     ev.Step,
			Verdict:  ev.Verdict,
			Paths:    ev.Paths,
			Kind:     ev.Kind,
			Code:     ev.Code,
			Location: ev.Location,
			TxHash:   ev.TxHash.String(),
		}
	}
	return out
}

func failureMessage(out RunResult) string {
	return fmt.Sprintf("scenario %s failed: %d error(s)", out.Scenario, len(out.Errors))
}

func printRunText(cmd *cobra.Command, out RunResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Scenario: %s\n", out.Scenario)
	for _, s := range out.Steps {
		paths := strings.Join(s.Paths, ",")
		if s.Verdict == harness.VerdictAccept {
			fmt.Fprintf(w, "  [%d] %s: accept [%s] %s\n", s.Seq, s.Step, paths, s.TxHash)
			continue
		}
		fmt.Fprintf(w, "  [%d] %s: reject %s (code %d) at %s [%s]\n",
			s.Seq, s.Step, s.Kind, s.Code, s.Location, paths)
	}
	for _, e := range out.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	if out.Pass {
		fmt.Fprintln(w, "✓ PASS")
	} else {
		fmt.Fprintln(w, "✗ FAIL")
	}
}
