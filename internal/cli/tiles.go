package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/layout"
)

// TilesOptions holds flags for the tiles command.
type TilesOptions struct {
	*RootOptions
	Diam int
	Flip bool
}

// TileInfo is one check region as reported by the tiles command.
type TileInfo struct {
	Basis   string   `json:"basis"`
	Center  [2]int   `json:"center"`
	Data    [][2]int `json:"data"`
	Measure [][2]int `json:"measure"`
}

// NewTilesCommand creates the tiles command.
func NewTilesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TilesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List the check regions of a surface code patch",
		Long: `List every check region of a rotated surface code patch with its basis,
data qubits and measurement qubits.

Example:
  parsurf tiles --diam 3
  parsurf tiles --diam 5 --flip --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTiles(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Diam, "diam", 3, "code distance")
	cmd.Flags().BoolVar(&opts.Flip, "flip", false, "swap which boundaries are X and Z")

	return cmd
}

func runTiles(opts *TilesOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if opts.Diam < 2 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, errors.Errorf("diam must be at least 2, got %d", opts.Diam))
	}

	tiles := layout.SurfaceCodeTiles(opts.Diam, opts.Flip)
	infos := make([]TileInfo, len(tiles))
	var text strings.Builder
	for i, t := range tiles {
		infos[i] = TileInfo{
			Basis:   t.Basis.String(),
			Center:  pair(t.Center),
			Data:    pairs(t.DataSet()),
			Measure: pairs(t.MeasureSet()),
		}
		fmt.Fprintf(&text, "%s %s data=%s measure=%s\n",
			t.Basis, t.Center, joinCoords(t.DataSet()), joinCoords(t.MeasureSet()))
	}
	formatter.Debugf("%d tiles, %d data qubits", len(tiles), len(layout.DataQubits(tiles)))
	return formatter.Success(infos, text.String())
}

func pair(c coord.Coord) [2]int {
	return [2]int{c.X, c.Y}
}

func pairs(cs []coord.Coord) [][2]int {
	out := make([][2]int, len(cs))
	for i, c := range cs {
		out[i] = pair(c)
	}
	return out
}

func joinCoords(cs []coord.Coord) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%d,%d", c.X, c.Y)
	}
	return strings.Join(parts, " ")
}
