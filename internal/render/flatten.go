package render

import (
	"fmt"

	"github.com/pstuifzand/tracediff/internal/geometry"
)

// Labeled is a single polygon with its composite identifier.
type Labeled struct {
	ID      string
	Polygon geometry.Polygon
}

// Flatten splits g into single polygons. A container with more than one
// member gives each member the id "{id}[i]", applied again at every level
// of nesting; a container with exactly one member passes its id through.
// Output follows member order.
func Flatten(id string, g geometry.Geometry) []Labeled {
	type item struct {
		id string
		g  geometry.Geometry
	}
	var out []Labeled
	stack := []item{{id, g}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var members []geometry.Geometry
		switch v := it.g.(type) {
		case geometry.Polygon:
			if !v.Empty() {
				out = append(out, Labeled{ID: it.id, Polygon: v})
			}
			continue
		case geometry.MultiPolygon:
			for _, p := range v {
				members = append(members, p)
			}
		case geometry.Collection:
			members = v
		default:
			continue
		}

		if len(members) == 1 {
			stack = append(stack, item{it.id, members[0]})
			continue
		}
		// Push in reverse so members pop in order.
		for i := len(members) - 1; i >= 0; i-- {
			stack = append(stack, item{fmt.Sprintf("%s[%d]", it.id, i), members[i]})
		}
	}
	return out
}
