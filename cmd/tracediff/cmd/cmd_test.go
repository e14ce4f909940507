package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pstuifzand/tracediff/internal/config"
	"github.com/pstuifzand/tracediff/internal/logging"
	"github.com/pstuifzand/tracediff/internal/report"
	"github.com/pstuifzand/tracediff/internal/svgdoc"
	"github.com/pstuifzand/tracediff/internal/trace"
)

const oldBoard = `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g id="g1" inkscape:label="Top Traces">
    <path id="trace_keep" d="M 0,0 L 10,0"/>
    <path id="trace_cross" d="M 15,0.5 L 25,0.5"/>
    <path id="trace_gone" d="M 0,50 L 10,50"/>
  </g>
</svg>`

const newBoard = `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g id="g1" inkscape:label="Top Traces">
    <path id="trace_keep" d="M 0,0 L 10,0"/>
    <path id="trace_short" d="M 15,0 L 25,0"/>
    <path id="trace_new" d="M 0,80 L 10,80"/>
  </g>
</svg>`

func writeBoards(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.svg")
	newPath := filepath.Join(dir, "new.svg")
	if err := os.WriteFile(oldPath, []byte(oldBoard), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(newPath, []byte(newBoard), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return oldPath, newPath
}

func decodeSummary(t *testing.T, buf *bytes.Buffer) report.Summary {
	t.Helper()
	var s report.Summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("Output is not a JSON summary: %v\n%s", err, buf.String())
	}
	return s
}

func TestRunCompareJSON(t *testing.T) {
	oldPath, newPath := writeBoards(t)
	outDir := filepath.Join(t.TempDir(), "overlays")

	var buf bytes.Buffer
	err := runCompare(context.Background(), &buf, config.Default(), compareOptions{
		oldPath: oldPath,
		newPath: newPath,
		outDir:  outDir,
		format:  "json",
	})
	if err != nil {
		t.Fatalf("runCompare failed: %v", err)
	}

	s := decodeSummary(t, &buf)
	if !slices.Equal(s.Added, []string{"trace_new"}) {
		t.Errorf("Expected added [trace_new], got %v", s.Added)
	}
	if !slices.Equal(s.Removed, []string{"trace_gone"}) {
		t.Errorf("Expected removed [trace_gone], got %v", s.Removed)
	}
	if want := []report.Pair{{New: "trace_keep", Old: "trace_keep"}}; !slices.Equal(s.Duplicates, want) {
		t.Errorf("Expected duplicates %v, got %v", want, s.Duplicates)
	}
	if len(s.Conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %v", s.Conflicts)
	}
	if s.Conflicts[0].New != "trace_short" || s.Conflicts[0].Old != "trace_cross" {
		t.Errorf("Expected trace_short conflicting with trace_cross, got %+v", s.Conflicts[0])
	}

	for _, name := range []string{"trace_short.svg", "old.svg", "new.svg", "added.svg", "removed.svg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}
	if len(s.Overlays) != 5 {
		t.Errorf("Expected 5 overlays, got %v", s.Overlays)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "trace_short.svg"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `id="trace_short-diff-trace_cross-overlap[0]"`) {
		t.Errorf("Conflict overlay should index its overlap regions:\n%s", data)
	}
}

func TestRunCompareReversedTraceIsDuplicate(t *testing.T) {
	dir := t.TempDir()
	board := func(d string) string {
		return `<svg xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:label="Top Traces"><path id="h" d="` + d + `"/></g>
</svg>`
	}
	oldPath := filepath.Join(dir, "old.svg")
	newPath := filepath.Join(dir, "new.svg")
	if err := os.WriteFile(oldPath, []byte(board("M 0,0 L 10,0 L 10,10")), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(newPath, []byte(board("M 10,10 L 10,0 L 0,0")), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var buf bytes.Buffer
	err := runCompare(context.Background(), &buf, config.Default(), compareOptions{
		oldPath: oldPath, newPath: newPath, noRender: true, format: "json",
	})
	if err != nil {
		t.Fatalf("runCompare failed: %v", err)
	}
	s := decodeSummary(t, &buf)
	if want := []report.Pair{{New: "h", Old: "h"}}; !slices.Equal(s.Duplicates, want) {
		t.Errorf("Expected duplicates %v, got %v", want, s.Duplicates)
	}
	if len(s.Added) != 0 || len(s.Removed) != 0 || len(s.Conflicts) != 0 {
		t.Errorf("Expected no changes, got %+v", s)
	}
}

func TestRunCompareConflictNamedLikeSummary(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "a.svg")
	newPath := filepath.Join(dir, "b.svg")
	oldDoc := `<svg xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:label="Top Traces"><path id="trace_cross" d="M 15,0.5 L 25,0.5"/></g>
</svg>`
	newDoc := `<svg xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:label="Top Traces"><path id="old" d="M 15,0 L 25,0"/></g>
</svg>`
	if err := os.WriteFile(oldPath, []byte(oldDoc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(newPath, []byte(newDoc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	outDir := filepath.Join(dir, "out")
	var buf bytes.Buffer
	err := runCompare(context.Background(), &buf, config.Default(), compareOptions{
		oldPath: oldPath, newPath: newPath, outDir: outDir, format: "json",
	})
	if err != nil {
		t.Fatalf("runCompare failed: %v", err)
	}
	s := decodeSummary(t, &buf)
	var names []string
	for _, p := range s.Overlays {
		names = append(names, filepath.Base(p))
	}
	want := []string{"old.svg", "new.svg", "added.svg", "removed.svg", "old-1.svg"}
	if !slices.Equal(names, want) {
		t.Errorf("Expected overlays %v, got %v", want, names)
	}
}

func TestRunCompareNoRender(t *testing.T) {
	oldPath, newPath := writeBoards(t)
	outDir := filepath.Join(t.TempDir(), "overlays")

	var buf bytes.Buffer
	err := runCompare(context.Background(), &buf, config.Default(), compareOptions{
		oldPath:  oldPath,
		newPath:  newPath,
		outDir:   outDir,
		format:   "text",
		noRender: true,
	})
	if err != nil {
		t.Fatalf("runCompare failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Added:\n  trace_new\n") {
		t.Errorf("Unexpected text report:\n%s", buf.String())
	}
	if _, err := os.Stat(outDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("No overlay directory should be created, got %v", err)
	}
}

func TestRunCompareMissingLayer(t *testing.T) {
	oldPath, newPath := writeBoards(t)
	c := config.Default()
	c.Document.Layer = "Top Trace"

	err := runCompare(context.Background(), &bytes.Buffer{}, c, compareOptions{
		oldPath: oldPath, newPath: newPath, noRender: true,
	})
	if !errors.Is(err, svgdoc.ErrMissingLayer) {
		t.Fatalf("Expected ErrMissingLayer, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "Top Traces"?`) {
		t.Errorf("Error should suggest the layer, got %q", err.Error())
	}
}

func TestRunCompareArcPolicy(t *testing.T) {
	dir := t.TempDir()
	arcBoard := `<svg xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:label="Top Traces">
    <path id="trace_arc" d="M 0,0 A 5,5 0 0 1 10,0"/>
    <path id="trace_line" d="M 0,20 L 10,20"/>
  </g>
</svg>`
	path := filepath.Join(dir, "arc.svg")
	if err := os.WriteFile(path, []byte(arcBoard), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	c := config.Default()
	err := runCompare(context.Background(), &bytes.Buffer{}, c, compareOptions{
		oldPath: path, newPath: path, noRender: true,
	})
	if !errors.Is(err, trace.ErrUnsupportedArc) {
		t.Fatalf("Expected ErrUnsupportedArc, got %v", err)
	}

	if err := c.Set("geometry.arc_policy", "skip"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var buf bytes.Buffer
	err = runCompare(context.Background(), &buf, c, compareOptions{
		oldPath: path, newPath: path, noRender: true, format: "json",
	})
	if err != nil {
		t.Fatalf("runCompare failed: %v", err)
	}
	s := decodeSummary(t, &buf)
	if want := []report.Pair{{New: "trace_line", Old: "trace_line"}}; !slices.Equal(s.Duplicates, want) {
		t.Errorf("Expected duplicates %v, got %v", want, s.Duplicates)
	}
}

func TestRunCompareBadFormat(t *testing.T) {
	err := runCompare(context.Background(), &bytes.Buffer{}, config.Default(), compareOptions{format: "xml"})
	if err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestRunFootprints(t *testing.T) {
	oldPath, _ := writeBoards(t)
	outDir := t.TempDir()

	var buf bytes.Buffer
	if err := runFootprints(&buf, config.Default(), oldPath, outDir); err != nil {
		t.Fatalf("runFootprints failed: %v", err)
	}
	for _, want := range []string{"trace_keep\t1 polygon(s)", "3 footprint(s) written to"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Missing %q in:\n%s", want, buf.String())
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "old.svg")); err != nil {
		t.Errorf("Expected old.svg to be written: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	c, err := loadConfig(path, []string{"classify.workers=3", "document.layer = Zones"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if c.Classify.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", c.Classify.Workers)
	}
	if c.Document.Layer != "Zones" {
		t.Errorf("Expected layer 'Zones', got '%s'", c.Document.Layer)
	}

	if _, err := loadConfig(path, []string{"classify.workers"}); err == nil {
		t.Error("Expected an error for an override without a value")
	}
	if _, err := loadConfig(path, []string{"classify.workers=0"}); err == nil {
		t.Error("Expected an error for an override that fails validation")
	}
}

func TestPrintConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := printConfig(&buf, config.Default(), false); err != nil {
		t.Fatalf("printConfig failed: %v", err)
	}
	for _, want := range []string{"[geometry]", "stroke_width = 1.25"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Missing %q in:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := printConfig(&buf, config.Default(), true); err != nil {
		t.Fatalf("printConfig failed: %v", err)
	}
	if !strings.Contains(buf.String(), "classify.workers = 1\n") {
		t.Errorf("Missing classify.workers in:\n%s", buf.String())
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { logging.SetLogger(nil) })
	if err := setupLogging("debug"); err != nil {
		t.Errorf("setupLogging(debug) failed: %v", err)
	}
	if err := setupLogging("loud"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
	if err := setupLogging("warn"); err != nil {
		t.Errorf("setupLogging(warn) failed: %v", err)
	}
}
