package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the fill colours used by overlay documents.
type Palette struct {
	New      colorful.Color // new footprint under review, added paths
	Conflict colorful.Color // conflicting old footprint, removed paths
	Overlap  colorful.Color // overlap regions
	Neutral  colorful.Color // background context in added/removed overlays
	Outline  colorful.Color // plain footprint dumps
}

// DefaultPalette returns the standard overlay colours.
func DefaultPalette() Palette {
	p, _ := NewPalette("#008800", "#ff0000", "#ff8800", "#aaaaaa", "#000000")
	return p
}

// NewPalette parses each colour with ParseColor.
func NewPalette(newFill, conflict, overlap, neutral, outline string) (Palette, error) {
	var p Palette
	for _, f := range []struct {
		name string
		src  string
		dst  *colorful.Color
	}{
		{"new", newFill, &p.New},
		{"conflict", conflict, &p.Conflict},
		{"overlap", overlap, &p.Overlap},
		{"neutral", neutral, &p.Neutral},
		{"outline", outline, &p.Outline},
	} {
		c, err := ParseColor(f.src)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid %s colour: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// ParseColor handles multiple color formats: #RRGGBB, #RGB, or rgb(r,g,b)
func ParseColor(colorStr string) (colorful.Color, error) {
	colorStr = strings.TrimSpace(colorStr)

	// Handle hex colors
	if strings.HasPrefix(colorStr, "#") {
		hexColor := strings.TrimPrefix(colorStr, "#")

		// Handle short form (#RGB)
		if len(hexColor) == 3 {
			hexColor = string(hexColor[0]) + string(hexColor[0]) +
				string(hexColor[1]) + string(hexColor[1]) +
				string(hexColor[2]) + string(hexColor[2])
		}
		if len(hexColor) != 6 {
			return colorful.Color{}, fmt.Errorf("bad hex colour %q", colorStr)
		}
		return colorful.Hex("#" + hexColor)
	}

	// Handle rgb(r,g,b) format
	if strings.HasPrefix(colorStr, "rgb(") && strings.HasSuffix(colorStr, ")") {
		innerStr := strings.TrimSuffix(strings.TrimPrefix(colorStr, "rgb("), ")")
		parts := strings.Split(innerStr, ",")
		if len(parts) != 3 {
			return colorful.Color{}, fmt.Errorf("bad rgb colour %q", colorStr)
		}
		var rgb [3]float64
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || v < 0 || v > 255 {
				return colorful.Color{}, fmt.Errorf("bad rgb colour %q", colorStr)
			}
			rgb[i] = float64(v) / 255
		}
		return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
	}

	return colorful.Color{}, fmt.Errorf("unsupported colour %q", colorStr)
}

// FillStyle is the style attribute for a filled, unstroked shape.
func FillStyle(c colorful.Color) string {
	return "fill:" + c.Clamped().Hex() + ";stroke:none"
}
