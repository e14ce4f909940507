package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/logging"
)

const svgNamespace = "http://www.w3.org/2000/svg"

type svgRoot struct {
	XMLName xml.Name  `xml:"svg"`
	Xmlns   string    `xml:"xmlns,attr"`
	Width   string    `xml:"width,attr,omitempty"`
	Height  string    `xml:"height,attr,omitempty"`
	ViewBox string    `xml:"viewBox,attr,omitempty"`
	Paths   []svgPath `xml:"path"`
}

type svgPath struct {
	ID       string `xml:"id,attr"`
	Style    string `xml:"style,attr"`
	FillRule string `xml:"fill-rule,attr,omitempty"`
	D        string `xml:"d,attr"`
}

// Encode writes doc as an indented SVG document.
func Encode(w io.Writer, doc *Document) error {
	root := svgRoot{
		Xmlns:   svgNamespace,
		Width:   doc.Canvas.Width,
		Height:  doc.Canvas.Height,
		ViewBox: doc.Canvas.ViewBox,
		Paths:   make([]svgPath, 0, len(doc.Shapes)),
	}
	for _, s := range doc.Shapes {
		p := svgPath{ID: s.ID, Style: s.Style, D: PathData(s.Polygon)}
		if len(s.Polygon.Holes) > 0 {
			p.FillRule = "evenodd"
		}
		root.Paths = append(root.Paths, p)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode %s: %w", doc.Name, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// PathData returns SVG path data for p: one closed subpath for the exterior
// followed by one per hole.
func PathData(p geometry.Polygon) string {
	var b strings.Builder
	writeRing(&b, p.Exterior)
	for _, h := range p.Holes {
		b.WriteByte(' ')
		writeRing(&b, h)
	}
	return b.String()
}

func writeRing(b *strings.Builder, r geometry.Ring) {
	for i, pt := range r {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatCoord(pt.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(pt.Y))
	}
	if len(r) > 0 {
		b.WriteString(" Z")
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteFiles writes each document to dir/<name>.svg, creating dir when
// needed, and returns the written paths. Names are claimed in document
// order: a document whose file name is already taken, ignoring case, gets
// the first free "<name>-<n>.svg" instead, so no document overwrites
// another from the same call.
func WriteFiles(dir string, docs []*Document) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	used := make(map[string]bool, len(docs))
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := claimFileName(FileName(doc.Name), used)
		if name != FileName(doc.Name) {
			logging.Logger().Warn("overlay file name already used, renamed", "name", doc.Name, "file", name)
		}
		path := filepath.Join(dir, name)
		if err := writeFile(path, doc); err != nil {
			return paths, err
		}
		logging.Logger().Debug("wrote overlay", "path", path, "shapes", len(doc.Shapes))
		paths = append(paths, path)
	}
	return paths, nil
}

func claimFileName(name string, used map[string]bool) string {
	base := strings.TrimSuffix(name, ".svg")
	for n := 1; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s-%d.svg", base, n)
	}
	used[strings.ToLower(name)] = true
	return name
}

func writeFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FileName maps a document name to a file name that stays inside the
// output directory.
func FileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.', r == '[', r == ']':
			return r
		}
		return '_'
	}, name)
	if clean == "" || strings.Trim(clean, ".") == "" {
		clean = "_" + clean
	}
	return clean + ".svg"
}
