package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/parsurf/internal/sweep"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Circuits int    `json:"circuits,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sweep.yaml>",
		Short: "Validate a sweep file without generating circuits",
		Long: `Check a YAML sweep file against the sweep schema and report how many
circuits it would generate. Nothing is built or written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := sweep.LoadConfig(path)
	if err != nil {
		if !sweep.IsConfigError(err) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		if formatter.isJSON() {
			_ = formatter.Error(ErrCodeInvalidSweep, err.Error(), ValidationResult{Valid: false, Error: err.Error()})
			return formatter.reported(ExitFailure, ErrCodeInvalidSweep, err)
		}
		fmt.Fprintln(formatter.Out, "✗ Sweep invalid")
		fmt.Fprintf(formatter.Out, "  %s: %s\n", ErrCodeInvalidSweep, err)
		return formatter.reported(ExitFailure, ErrCodeInvalidSweep, err)
	}

	params, err := sweep.Expand(cfg)
	if err != nil {
		return formatter.Fail(ExitFailure, errorCode(err), err)
	}
	formatter.Debugf("%d bases, %d noises, %d diameters, %d round factors",
		len(cfg.Bases), len(cfg.Noises), len(cfg.Diams), len(cfg.RoundFactors))

	return formatter.Success(ValidationResult{Valid: true, Circuits: len(params)},
		fmt.Sprintf("✓ Sweep valid: %d circuits\n", len(params)))
}
