package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/parsurf/internal/experiment"
	"github.com/roach88/parsurf/internal/pauli"
)

// CircuitOptions holds flags for the circuit command.
type CircuitOptions struct {
	*RootOptions
	Family   string
	Basis    string
	Diam     int
	Rounds   int
	Noise    float64
	Feedback bool
}

// CircuitResult is the JSON payload of the circuit command.
type CircuitResult struct {
	Name        string         `json:"name"`
	Metadata    map[string]any `json:"metadata"`
	ContentHash string         `json:"content_hash"`
	Circuit     string         `json:"circuit"`
}

// NewCircuitCommand creates the circuit command.
func NewCircuitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CircuitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "Print one memory experiment circuit",
		Long: `Build one memory experiment and print it in Stim's circuit format.

Example:
  parsurf circuit --family pentagonal_sharp --basis X --diam 3 --rounds 9 --noise 0.001
  parsurf circuit --family chao --basis Z --diam 5 --rounds 15 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Family, "family", "pentagonal_sharp", "circuit family")
	cmd.Flags().StringVar(&opts.Basis, "basis", pauli.X.String(), "memory basis (X|Z)")
	cmd.Flags().IntVar(&opts.Diam, "diam", 3, "code distance")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", 0, "measurement rounds (default 3*diam)")
	cmd.Flags().Float64Var(&opts.Noise, "noise", 0, "uniform noise strength")
	cmd.Flags().BoolVar(&opts.Feedback, "feedback", false, "use classically controlled corrections (pentagonal only)")

	return cmd
}

func runCircuit(opts *CircuitOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	rounds := opts.Rounds
	if rounds == 0 {
		rounds = 3 * opts.Diam
	}
	p, err := parseParams(opts.Family, opts.Basis, opts.Diam, rounds, opts.Noise, opts.Feedback)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}

	task, err := experiment.NewTask(p)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeBuildFailed, err)
	}
	formatter.Debugf("built %s: %d qubits, %d detectors",
		task.Metadata.Name(), task.Metadata.Qubits, task.Circuit.NumDetectors())

	return formatter.Success(CircuitResult{
		Name:        task.Metadata.FileName(),
		Metadata:    task.Metadata.Object(),
		ContentHash: task.Hash(),
		Circuit:     task.Text(),
	}, task.Text())
}
