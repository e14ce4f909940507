package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/tracediff/internal/config"
	"github.com/pstuifzand/tracediff/internal/diff"
	"github.com/pstuifzand/tracediff/internal/render"
	"github.com/pstuifzand/tracediff/internal/report"
	"github.com/pstuifzand/tracediff/internal/svgdoc"
	"github.com/pstuifzand/tracediff/internal/trace"
)

type compareOptions struct {
	oldPath  string
	newPath  string
	outDir   string
	format   string
	verbose  bool
	noRender bool
}

var (
	compareOpts compareOptions
	layer       string
	workers     int
	arcPolicy   string
)

var compareCmd = &cobra.Command{
	Use:   "compare <old.svg> <new.svg>",
	Short: "Compare the trace layers of two board exports",
	Long: `Compare the trace layer of an old and a new board export.

New paths are classified against old ones:
  duplicate   same footprint in both revisions
  touching    small overlap, treated as an intended connection
  conflict    overlap larger than the touching threshold

Paths of the new revision without a duplicate or conflict are listed as
added; the same check run the other way round lists removed paths. Unless
--no-render is given, one overlay SVG per conflicting path is written to the
output directory together with old.svg, new.svg, added.svg and removed.svg.

Examples:
  tracediff compare rev1.svg rev2.svg
  tracediff compare --format json --no-render rev1.svg rev2.svg
  tracediff compare --layer "Bottom Traces" --workers 4 rev1.svg rev2.svg`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetConfig()
		if err := applyCompareFlags(cmd, c); err != nil {
			return err
		}
		opts := compareOpts
		opts.oldPath, opts.newPath = args[0], args[1]
		return runCompare(cmd.Context(), cmd.OutOrStdout(), c, opts)
	},
}

func init() {
	f := compareCmd.Flags()
	f.StringVarP(&compareOpts.outDir, "out", "o", "tmp", "directory for overlay SVGs")
	f.StringVarP(&compareOpts.format, "format", "f", "text", "output format: text, json, yaml, spew")
	f.BoolVarP(&compareOpts.verbose, "verbose", "v", false, "show touching and duplicate pairs and overlap areas")
	f.BoolVar(&compareOpts.noRender, "no-render", false, "do not write overlay SVGs")
	f.StringVar(&layer, "layer", "", "inkscape label of the trace layer (overrides config)")
	f.IntVar(&workers, "workers", 0, "goroutines used for classification (overrides config)")
	f.StringVar(&arcPolicy, "arc-policy", "", "abort or skip paths containing arcs (overrides config)")
	rootCmd.AddCommand(compareCmd)
}

// applyCompareFlags copies explicitly set flags onto the configuration.
func applyCompareFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("layer") {
		if err := c.Set("document.layer", layer); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if err := c.Set("classify.workers", strconv.Itoa(workers)); err != nil {
			return err
		}
	}
	if flags.Changed("arc-policy") {
		if err := c.Set("geometry.arc_policy", arcPolicy); err != nil {
			return err
		}
	}
	return c.Validate()
}

// loadRegistry reads one board export into a footprint registry.
func loadRegistry(label, path string, c *config.Config) (*trace.Registry, error) {
	specs, err := svgdoc.LoadLayer(path, c.Document.Layer)
	if err != nil {
		return nil, err
	}
	return trace.BuildRegistry(label, specs, c.TraceOptions())
}

func runCompare(ctx context.Context, w io.Writer, c *config.Config, opts compareOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	oldReg, err := loadRegistry("old", opts.oldPath, c)
	if err != nil {
		return err
	}
	newReg, err := loadRegistry("new", opts.newPath, c)
	if err != nil {
		return err
	}

	r, err := diff.Compare(ctx, oldReg, newReg, c.DiffOptions())
	if err != nil {
		return fmt.Errorf("failed to compare: %w", err)
	}

	summary := report.NewSummary(r, opts.oldPath, opts.newPath)
	if !opts.noRender {
		paths, err := writeOverlays(opts.outDir, c, r)
		if err != nil {
			return err
		}
		summary.Overlays = paths
	}

	return report.Write(w, format, r, summary, opts.verbose)
}

func writeOverlays(dir string, c *config.Config, r *diff.Report) ([]string, error) {
	palette, err := c.Palette()
	if err != nil {
		return nil, err
	}
	renderer := render.NewRenderer(palette, c.Canvas())
	// Summary documents go first so they keep their fixed names when a
	// conflicting id clashes with one of them.
	docs := renderer.SummaryDocuments(r)
	docs = append(docs, renderer.ConflictOverlays(r.Forward, r.New, r.Old)...)
	return render.WriteFiles(dir, docs)
}
