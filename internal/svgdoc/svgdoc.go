// Package svgdoc reads trace layers out of Inkscape SVG documents.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tracediff/internal/logging"
	"github.com/pstuifzand/tracediff/internal/trace"
)

// InkscapeNamespace is the namespace of the inkscape:label attribute.
const InkscapeNamespace = "http://www.inkscape.org/namespaces/inkscape"

// DefaultLayer is the layer holding copper traces in exported boards.
const DefaultLayer = "Top Traces"

// ErrMissingLayer is returned when no group carries the wanted label.
var ErrMissingLayer = errors.New("layer not found")

// LayerError describes a failed layer lookup.
type LayerError struct {
	Label       string
	Suggestions []string
}

func (e *LayerError) Error() string {
	msg := fmt.Sprintf("layer %q not found", e.Label)
	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		msg += " (did you mean " + strings.Join(quoted, ", ") + "?)"
	}
	return msg
}

func (e *LayerError) Unwrap() error { return ErrMissingLayer }

// Element is a node of a parsed document. Character data is dropped.
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Element
}

// Attr returns the value of the unqualified attribute local.
func (e *Element) Attr(local string) string {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Label returns the inkscape:label attribute.
func (e *Element) Label() string {
	for _, a := range e.Attrs {
		if a.Name.Local == "label" && (a.Name.Space == InkscapeNamespace || a.Name.Space == "inkscape") {
			return a.Value
		}
	}
	return ""
}

// Walk visits e and its descendants in document order. Returning false
// from fn skips the children of that element.
func (e *Element) Walk(fn func(*Element) bool) {
	stack := []*Element{e}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Parse reads an XML document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse document: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("failed to parse document: no root element")
	}
	return root, nil
}

// FindLayer returns the first group, in document order, whose
// inkscape:label equals label.
func FindLayer(root *Element, label string) (*Element, error) {
	var found *Element
	var labels []string
	root.Walk(func(e *Element) bool {
		if found != nil {
			return false
		}
		if e.Name.Local != "g" {
			return true
		}
		l := e.Label()
		if l == label {
			found = e
			return false
		}
		if l != "" {
			labels = append(labels, l)
		}
		return true
	})
	if found == nil {
		return nil, &LayerError{Label: label, Suggestions: suggest(label, labels)}
	}
	logging.Logger().Info("found group", "label", label, "id", found.Attr("id"))
	return found, nil
}

// suggest ranks the known labels that fuzzily match wanted.
func suggest(wanted string, labels []string) []string {
	best := make(map[string]int)
	add := func(target string, dist int) {
		if d, ok := best[target]; !ok || dist < d {
			best[target] = dist
		}
	}
	for _, r := range fuzzy.RankFindFold(wanted, labels) {
		add(r.Target, r.Distance)
	}
	for _, l := range labels {
		if fuzzy.MatchFold(l, wanted) {
			add(l, fuzzy.LevenshteinDistance(strings.ToLower(l), strings.ToLower(wanted)))
		}
	}
	out := make([]string, 0, len(best))
	for l := range best {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if best[out[i]] != best[out[j]] {
			return best[out[i]] < best[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Paths returns the <path> descendants of layer in document order. Paths
// without an id are named "path<n>" after their position in the layer.
func Paths(layer *Element) ([]trace.PathSpec, error) {
	var specs []trace.PathSpec
	var err error
	n := 0
	layer.Walk(func(e *Element) bool {
		if err != nil {
			return false
		}
		if e.Name.Local != "path" {
			return true
		}
		id := e.Attr("id")
		if id == "" {
			id = fmt.Sprintf("path%d", n)
			logging.Logger().Warn("path has no id", "assigned", id)
		}
		n++
		logging.Logger().Debug("parsing path", "id", id)
		cmds, perr := ParsePathData(e.Attr("d"))
		if perr != nil {
			err = &trace.PathError{ID: id, Err: perr}
			return false
		}
		specs = append(specs, trace.PathSpec{ID: id, Commands: cmds})
		return false
	})
	if err != nil {
		return nil, err
	}
	return specs, nil
}

// ReadLayer parses r and returns the paths of the named layer.
func ReadLayer(r io.Reader, label string) ([]trace.PathSpec, error) {
	root, err := Parse(r)
	if err != nil {
		return nil, err
	}
	layer, err := FindLayer(root, label)
	if err != nil {
		return nil, err
	}
	return Paths(layer)
}

// LoadLayer opens path and returns the paths of the named layer.
func LoadLayer(path, label string) ([]trace.PathSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	specs, err := ReadLayer(f, label)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return specs, nil
}
