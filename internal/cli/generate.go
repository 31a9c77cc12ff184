package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/parsurf/internal/metrics"
	"github.com/roach88/parsurf/internal/store"
	"github.com/roach88/parsurf/internal/sweep"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	SweepFlags
	OutDir   string
	Workers  int
	Database string
	Metrics  string

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.IDGenerator
}

// GenerateResult is the JSON payload of the generate command.
type GenerateResult struct {
	OutDir   string   `json:"out_dir"`
	Written  []string `json:"written"`
	Inserted int      `json:"inserted"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write circuit files for a parameter sweep",
		Long: `Write one .stim file per point of a parameter sweep.

The sweep is the product of bases, noise strengths, diameters, round factors
and families, with rounds = round factor * diameter. It is given either as
flags or as a YAML sweep file. File names list the circuit's metadata as
sorted key=value pairs, e.g. b=X,c=chao,d=3,p=0.001,q=25,r=9.stim.

Example:
  parsurf generate --out-dir out --basis X Z --noise 0.001 --diam 3 5 --round-factors 3
  parsurf generate --config sweep.yaml --db catalog.db --metrics parsurf.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML sweep file")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "output directory (overrides the sweep file)")
	cmd.Flags().StringSliceVar(&opts.Bases, "basis", nil, "memory bases")
	cmd.Flags().Float64SliceVar(&opts.Noises, "noise", nil, "noise strengths")
	cmd.Flags().IntSliceVar(&opts.Diams, "diam", nil, "code distances")
	cmd.Flags().IntSliceVar(&opts.RoundFactors, "round-factors", nil, "rounds per unit of distance")
	cmd.Flags().StringSliceVar(&opts.Families, "family", nil, fmt.Sprintf("families (default %s)", strings.Join(sweep.DefaultFamilies, ",")))
	cmd.Flags().BoolVar(&opts.Feedback, "feedback", false, "use classically controlled corrections where supported")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "parallel workers (default GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record generated circuits in this SQLite catalog")
	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "write Prometheus metrics to this textfile")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadSweep(opts.SweepFlags)
	if err != nil {
		if sweep.IsConfigError(err) {
			return formatter.Fail(ExitFailure, ErrCodeInvalidSweep, err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	if outDir == "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, errors.New("--out-dir is required unless the sweep file sets out_dir"))
	}
	workers := opts.Workers
	if workers == 0 {
		workers = cfg.Workers
	}

	logger, err := opts.logger()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	defer logger.Sync() //nolint:errcheck

	runnerOpts := []sweep.Option{sweep.WithWorkers(workers), sweep.WithLogger(logger)}

	if opts.Database != "" {
		storeOpts := []store.Option{store.WithLogger(logger)}
		if opts.IDs != nil {
			storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
		}
		st, err := store.Open(opts.Database, storeOpts...)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
		}
		defer st.Close()
		runnerOpts = append(runnerOpts, sweep.WithStore(st))
	}

	var recorder *metrics.Recorder
	if opts.Metrics != "" {
		recorder = metrics.New()
		runnerOpts = append(runnerOpts, sweep.WithMetrics(recorder))
	}

	// Stop scheduling new circuits on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := sweep.NewRunner(outDir, runnerOpts...).Run(ctx, cfg)
	if err != nil {
		logger.Error("sweep failed", zap.Error(err))
		if sweep.IsWriteError(err) {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		return formatter.Fail(ExitFailure, ErrCodeBuildFailed, err)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(opts.Metrics); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeMetrics, err)
		}
	}

	out := GenerateResult{OutDir: outDir, Written: make([]string, len(results))}
	var text strings.Builder
	for i, res := range results {
		out.Written[i] = res.Path
		if res.Inserted {
			out.Inserted++
		}
		fmt.Fprintf(&text, "wrote %s\n", res.Path)
	}
	return formatter.Success(out, text.String())
}
