package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/tracediff/internal/config"
	"github.com/pstuifzand/tracediff/internal/render"
)

var footprintsOut string

var footprintsCmd = &cobra.Command{
	Use:   "footprints <board.svg>",
	Short: "Write the stroked footprints of one board export",
	Long: `Extract the trace layer of a board export, stroke every path and
write the resulting polygons to <out>/<name>.svg. Each footprint is listed
with its area, which helps when tuning the stroke width.

Examples:
  tracediff footprints rev1.svg
  tracediff footprints -o /tmp/fp --set geometry.stroke_width=0.8 rev1.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFootprints(cmd.OutOrStdout(), GetConfig(), args[0], footprintsOut)
	},
}

func init() {
	footprintsCmd.Flags().StringVarP(&footprintsOut, "out", "o", "tmp", "directory for the footprint SVG")
	rootCmd.AddCommand(footprintsCmd)
}

func runFootprints(w io.Writer, c *config.Config, path, outDir string) error {
	reg, err := loadRegistry("footprints", path, c)
	if err != nil {
		return err
	}

	palette, err := c.Palette()
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := render.NewRenderer(palette, c.Canvas()).Dump(name, reg)
	written, err := render.WriteFiles(outDir, []*render.Document{doc})
	if err != nil {
		return err
	}

	for _, e := range reg.Entries() {
		fmt.Fprintf(w, "%s\t%d polygon(s)\tarea %.3f\n", e.ID, len(e.Footprint), e.Footprint.Area())
	}
	fmt.Fprintf(w, "\n%d footprint(s) written to %s\n", reg.Len(), written[0])
	return nil
}
