package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/timeindex/internal/harness"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Check scenario files without running them",
		Long: `Check scenario files against the scenario schema and resolve every
cell reference, without touching a ledger.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		fv := FileValidation{Path: path, Valid: true}
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Name = scenario.Name
		}
		result.Files = append(result.Files, fv)
	}

	invalid := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			invalid++
		}
	}

	if formatter.JSON() {
		if result.Valid {
			return formatter.Success(result)
		}
		msg := fmt.Sprintf("%d of %d scenario(s) invalid", invalid, len(result.Files))
		if err := formatter.Failure(CodeValidationFailed, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	w := cmd.OutOrStdout()
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s (%s)\n", fv.Path, fv.Name)
		} else {
			fmt.Fprintf(w, "✗ %s\n  %s\n", fv.Path, fv.Error)
		}
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) invalid", invalid, len(result.Files)))
	}
	return nil
}
