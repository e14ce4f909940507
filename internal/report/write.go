package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"github.com/pstuifzand/tracediff/internal/diff"
)

// Format selects an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatSpew Format = "spew"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatSpew}

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Write renders the report in the given format.
func Write(w io.Writer, f Format, r *diff.Report, s *Summary, verbose bool) error {
	switch f {
	case FormatText, "":
		return Text(w, r, s, verbose)
	case FormatJSON:
		return JSON(w, s)
	case FormatYAML:
		return YAML(w, s)
	case FormatSpew:
		return Dump(w, s)
	}
	return fmt.Errorf("unknown format %q", f)
}

// Text prints the styled console listing. Colours are only emitted when w
// is a terminal.
func Text(w io.Writer, r *diff.Report, s *Summary, verbose bool) error {
	st := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(st.header.Render(fmt.Sprintf("=== Trace Diff: %s → %s ===", s.Old, s.New)))
	b.WriteString("\n\n")
	for _, line := range diff.BuildDiffLines(r, verbose) {
		b.WriteString(strings.Repeat("  ", line.Indent))
		b.WriteString(st.forType(line.Type).Render(line.Content))
		b.WriteString("\n")
	}
	if len(s.Overlays) > 0 {
		b.WriteString("\n")
		b.WriteString(st.dim.Render(fmt.Sprintf("Wrote %d overlay(s)", len(s.Overlays))))
		b.WriteString("\n")
		if verbose {
			for _, p := range s.Overlays {
				b.WriteString("  " + st.dim.Render(p) + "\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes the summary as indented JSON.
func JSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// YAML writes the summary as a YAML document.
func YAML(w io.Writer, s *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump writes a Go-syntax dump of the summary for debugging.
func Dump(w io.Writer, s *Summary) error {
	dumpConfig.Fdump(w, s)
	return nil
}
