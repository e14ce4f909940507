// Package render turns comparison results into overlay documents: flat
// lists of labelled, styled polygons that the svg writer serialises.
package render

import (
	"fmt"

	"github.com/pstuifzand/tracediff/internal/diff"
	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/trace"
)

// Canvas is the page geometry copied onto every written document.
type Canvas struct {
	Width   string
	Height  string
	ViewBox string
}

// DefaultCanvas matches the board outline the tool was first used on.
func DefaultCanvas() Canvas {
	return Canvas{
		Width:   "2222.5mm",
		Height:  "2470.1499mm",
		ViewBox: "0 0 2222.5 2470.1499",
	}
}

// Shape is one labelled polygon.
type Shape struct {
	ID      string
	Polygon geometry.Polygon
	Style   string
}

// Document is an ordered list of shapes written to "<Name>.svg".
type Document struct {
	Name   string
	Canvas Canvas
	Shapes []Shape
}

// Append flattens g under id and adds every part with the given style.
func (d *Document) Append(id string, g geometry.Geometry, style string) {
	for _, l := range Flatten(id, g) {
		d.Shapes = append(d.Shapes, Shape{ID: l.ID, Polygon: l.Polygon, Style: style})
	}
}

// Renderer builds documents with a fixed palette and canvas.
type Renderer struct {
	Palette Palette
	Canvas  Canvas
}

// NewRenderer returns a renderer with the given palette and canvas.
func NewRenderer(p Palette, c Canvas) *Renderer {
	return &Renderer{Palette: p, Canvas: c}
}

func (r *Renderer) document(name string) *Document {
	return &Document{Name: name, Canvas: r.Canvas}
}

// ConflictOverlays returns one document per new id with at least one
// conflict. Each holds the new footprint, then per conflicting old id the
// old footprint and the overlap regions, always indexed as
// "<new>-diff-<old>-overlap[i]".
func (r *Renderer) ConflictOverlays(res *diff.ComparisonResult, newReg, oldReg *trace.Registry) []*Document {
	var docs []*Document
	for _, newID := range res.ConflictIDs() {
		fp, ok := newReg.Footprint(newID)
		if !ok {
			continue
		}
		doc := r.document(newID)
		doc.Append(newID, fp, FillStyle(r.Palette.New))
		for _, rel := range res.ConflictsFor(newID) {
			prefix := newID + "-diff-" + rel.OldID
			if old, ok := oldReg.Footprint(rel.OldID); ok {
				doc.Append(prefix+"-original", old, FillStyle(r.Palette.Conflict))
			}
			for i, o := range rel.Overlaps {
				doc.Append(fmt.Sprintf("%s-overlap[%d]", prefix, i), o, FillStyle(r.Palette.Overlap))
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// Dump draws every footprint of reg in the outline colour.
func (r *Renderer) Dump(name string, reg *trace.Registry) *Document {
	doc := r.document(name)
	r.appendRegistry(doc, reg, FillStyle(r.Palette.Outline))
	return doc
}

// AddedOverlay draws the old registry as context and the added new ids on
// top.
func (r *Renderer) AddedOverlay(report *diff.Report) *Document {
	doc := r.document("added")
	r.appendRegistry(doc, report.Old, FillStyle(r.Palette.Neutral))
	r.appendRegistry(doc, report.New.Subset("added", report.Added), FillStyle(r.Palette.New))
	return doc
}

// RemovedOverlay draws the new registry as context and the removed old ids
// on top.
func (r *Renderer) RemovedOverlay(report *diff.Report) *Document {
	doc := r.document("removed")
	r.appendRegistry(doc, report.New, FillStyle(r.Palette.Neutral))
	r.appendRegistry(doc, report.Old.Subset("removed", report.Removed), FillStyle(r.Palette.Conflict))
	return doc
}

// SummaryDocuments returns old, new, added and removed in that order.
func (r *Renderer) SummaryDocuments(report *diff.Report) []*Document {
	return []*Document{
		r.Dump("old", report.Old),
		r.Dump("new", report.New),
		r.AddedOverlay(report),
		r.RemovedOverlay(report),
	}
}

// appendRegistry adds every footprint of reg in registry order.
func (r *Renderer) appendRegistry(doc *Document, reg *trace.Registry, style string) {
	for _, e := range reg.Entries() {
		doc.Append(e.ID, e.Footprint, style)
	}
}
