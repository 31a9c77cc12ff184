package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/parsurf/internal/store"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Database string
	Family   string
	Basis    string
	Diam     int
	Run      string
}

// CatalogEntry is one circuit as reported by the catalog command.
type CatalogEntry struct {
	Name        string  `json:"name"`
	Family      string  `json:"family"`
	Basis       string  `json:"basis"`
	Diam        int     `json:"diam"`
	Rounds      int     `json:"rounds"`
	Noise       float64 `json:"noise"`
	Feedback    bool    `json:"feedback"`
	Qubits      int     `json:"qubits"`
	Detectors   int     `json:"detectors"`
	ContentHash string  `json:"content_hash"`
	RunID       string  `json:"run_id"`
	Path        string  `json:"path"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List circuits recorded by generate --db",
		Long: `List the circuits recorded in a catalog database, ordered by file name.

Example:
  parsurf catalog --db catalog.db
  parsurf catalog --db catalog.db --family chao --diam 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Family, "family", "", "only this family")
	cmd.Flags().StringVar(&opts.Basis, "basis", "", "only this basis")
	cmd.Flags().IntVar(&opts.Diam, "diam", 0, "only this distance")
	cmd.Flags().StringVar(&opts.Run, "run", "", "only circuits written by this run")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	logger, err := opts.logger()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	st, err := store.Open(opts.Database, store.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	defer st.Close()

	circuits, err := st.ListCircuits(context.Background(), store.Filter{
		Family: opts.Family,
		Basis:  opts.Basis,
		Diam:   opts.Diam,
		RunID:  opts.Run,
	})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}

	entries := make([]CatalogEntry, len(circuits))
	var text strings.Builder
	for i, c := range circuits {
		entries[i] = CatalogEntry{
			Name:        c.Name,
			Family:      c.Family,
			Basis:       c.Basis,
			Diam:        c.Diam,
			Rounds:      c.Rounds,
			Noise:       c.Noise,
			Feedback:    c.Feedback,
			Qubits:      c.Qubits,
			Detectors:   c.Detectors,
			ContentHash: c.ContentHash,
			RunID:       c.RunID,
			Path:        c.Path,
		}
		fmt.Fprintf(&text, "%s\t%s\t%d detectors\n", c.Name, shortHash(c.ContentHash), c.Detectors)
	}
	if len(entries) == 0 {
		text.WriteString("no circuits\n")
	}
	return formatter.Success(entries, text.String())
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
