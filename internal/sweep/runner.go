package sweep

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/parsurf/internal/experiment"
	"github.com/roach88/parsurf/internal/metrics"
	"github.com/roach88/parsurf/internal/store"
)

// WriteError reports a circuit file or output directory that could not be
// written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return "write " + e.Path + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError returns true if err is a WriteError.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

// Result describes one written circuit file.
type Result struct {
	Params      experiment.Params
	Name        string
	Path        string
	ContentHash string
	Qubits      int
	Detectors   int

	// Inserted is false when the catalog already held this exact circuit.
	Inserted bool
}

// Runner generates the circuits of a sweep.
type Runner struct {
	outDir  string
	workers int
	store   *store.Store
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of circuits built at once. Zero or less
// uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithStore records every written circuit in the catalog.
func WithStore(s *store.Store) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// WithMetrics records generation counters and timings.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a runner writing into outDir.
func NewRunner(outDir string, opts ...Option) *Runner {
	r := &Runner{outDir: outDir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Run expands c and writes every circuit. Results are in expansion order.
// The first failure cancels the remaining work; files already written stay
// on disk.
func (r *Runner) Run(ctx context.Context, c *Config) ([]Result, error) {
	params, err := Expand(c)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, &WriteError{Path: r.outDir, Err: err}
	}

	var runID string
	if r.store != nil {
		run, err := r.store.BeginRun(ctx, c.Object(), r.outDir)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	r.logger.Info("sweep started",
		zap.Int("circuits", len(params)),
		zap.Int("workers", r.workers),
		zap.String("out_dir", r.outDir))

	results := make([]Result, len(params))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, p := range params {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.generate(gctx, runID, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("sweep finished", zap.Int("circuits", len(results)))
	return results, nil
}

// generate builds, writes and records a single circuit.
func (r *Runner) generate(ctx context.Context, runID string, p experiment.Params) (Result, error) {
	start := time.Now()
	task, err := experiment.NewTask(p)
	if err != nil {
		return Result{}, err
	}
	text := task.Text()
	name := task.Metadata.FileName()
	path := filepath.Join(r.outDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return Result{}, &WriteError{Path: path, Err: err}
	}
	elapsed := time.Since(start)

	res := Result{
		Params:      p,
		Name:        name,
		Path:        path,
		ContentHash: task.Hash(),
		Qubits:      task.Metadata.Qubits,
		Detectors:   task.Circuit.NumDetectors(),
		Inserted:    true,
	}

	if r.metrics != nil {
		r.metrics.RecordCircuit(string(p.Family), res.Qubits, elapsed)
	}
	if r.store != nil {
		res.Inserted, err = r.store.WriteCircuit(ctx, store.Circuit{
			Name:        name,
			ContentHash: res.ContentHash,
			RunID:       runID,
			Family:      string(p.Family),
			Basis:       p.Basis.String(),
			Diam:        p.Diam,
			Rounds:      p.Rounds,
			Noise:       p.Noise,
			Feedback:    p.Feedback,
			Qubits:      res.Qubits,
			Detectors:   res.Detectors,
			Path:        path,
		}, task.Metadata.Object())
		if err != nil {
			return Result{}, err
		}
	}

	r.logger.Debug("wrote circuit",
		zap.String("path", path),
		zap.Duration("elapsed", elapsed))
	return res, nil
}
