package svgdoc

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/trace"
)

// ErrPathSyntax reports malformed path data.
var ErrPathSyntax = errors.New("invalid path data")

// number of arguments consumed by one repetition of each command
var argCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

type pathScanner struct {
	d   string
	pos int
}

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.d) {
		switch s.d[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) done() bool {
	s.skipSeparators()
	return s.pos >= len(s.d)
}

// command returns the next command letter, or 0 when the next token is a
// number.
func (s *pathScanner) command() byte {
	s.skipSeparators()
	if s.pos >= len(s.d) {
		return 0
	}
	c := s.d[s.pos]
	if _, ok := argCounts[upper(c)]; ok && isLetter(c) {
		s.pos++
		return c
	}
	return 0
}

// number scans one SVG number: sign, digits, at most one dot, optional
// exponent. "1.5.5" yields 1.5 then .5; "1-2" yields 1 then -2.
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if s.pos < len(s.d) && (s.d[s.pos] == '+' || s.d[s.pos] == '-') {
		s.pos++
	}
	digits := 0
	for s.pos < len(s.d) && isDigit(s.d[s.pos]) {
		s.pos++
		digits++
	}
	if s.pos < len(s.d) && s.d[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.d) && isDigit(s.d[s.pos]) {
			s.pos++
			digits++
		}
	}
	if digits == 0 {
		s.pos = start
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrPathSyntax, start)
	}
	if s.pos < len(s.d) && (s.d[s.pos] == 'e' || s.d[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.pos < len(s.d) && (s.d[s.pos] == '+' || s.d[s.pos] == '-') {
			s.pos++
		}
		exp := 0
		for s.pos < len(s.d) && isDigit(s.d[s.pos]) {
			s.pos++
			exp++
		}
		if exp == 0 {
			s.pos = mark
		}
	}
	v, err := strconv.ParseFloat(s.d[start:s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPathSyntax, err)
	}
	return v, nil
}

// flag scans an arc flag, which may be written without a separator.
func (s *pathScanner) flag() (bool, error) {
	s.skipSeparators()
	if s.pos < len(s.d) {
		switch s.d[s.pos] {
		case '0':
			s.pos++
			return false, nil
		case '1':
			s.pos++
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: expected flag at offset %d", ErrPathSyntax, s.pos)
}

// ParsePathData converts SVG path data into absolute commands. H and V
// become lines, S and T are expanded with their reflected control point, and
// quadratic curves are raised to cubics. Arcs are kept as ArcTo.
func ParsePathData(d string) ([]trace.Command, error) {
	var (
		cmds       []trace.Command
		s          = &pathScanner{d: d}
		cur, start geometry.Point
		lastCtrl   geometry.Point // second control of the previous cubic or the quad control
		lastKind   byte           // 'C' or 'Q' when lastCtrl is valid
		op         byte
	)

	for !s.done() {
		c := s.command()
		switch {
		case c != 0:
			op = c
		case op == 0:
			return nil, fmt.Errorf("%w: path must start with a command", ErrPathSyntax)
		case upper(op) == 'Z':
			return nil, fmt.Errorf("%w: unexpected number after closepath at offset %d", ErrPathSyntax, s.pos)
		}

		rel := !isUpper(op)
		kind := upper(op)
		if len(cmds) == 0 && kind != 'M' {
			return nil, fmt.Errorf("%w: path must start with moveto", ErrPathSyntax)
		}

		args := make([]float64, argCounts[kind])
		var large, sweep bool
		for i := range args {
			var err error
			if kind == 'A' && (i == 3 || i == 4) {
				var f bool
				f, err = s.flag()
				if i == 3 {
					large = f
				} else {
					sweep = f
				}
			} else {
				args[i], err = s.number()
			}
			if err != nil {
				return nil, fmt.Errorf("command %c: %w", op, err)
			}
		}

		pt := func(x, y float64) geometry.Point {
			if rel {
				return geometry.Pt(cur.X+x, cur.Y+y)
			}
			return geometry.Pt(x, y)
		}

		nextKind := byte(0)
		switch kind {
		case 'M':
			cur = pt(args[0], args[1])
			start = cur
			cmds = append(cmds, trace.MoveTo{Point: cur})
			// Further pairs are implicit lineto commands.
			if rel {
				op = 'l'
			} else {
				op = 'L'
			}
		case 'L':
			cur = pt(args[0], args[1])
			cmds = append(cmds, trace.LineTo{Point: cur})
		case 'H':
			x := args[0]
			if rel {
				x += cur.X
			}
			cur = geometry.Pt(x, cur.Y)
			cmds = append(cmds, trace.LineTo{Point: cur})
		case 'V':
			y := args[0]
			if rel {
				y += cur.Y
			}
			cur = geometry.Pt(cur.X, y)
			cmds = append(cmds, trace.LineTo{Point: cur})
		case 'C':
			c1, c2, end := pt(args[0], args[1]), pt(args[2], args[3]), pt(args[4], args[5])
			cmds = append(cmds, trace.CubicTo{Control1: c1, Control2: c2, Point: end})
			cur, lastCtrl, nextKind = end, c2, 'C'
		case 'S':
			c1 := cur
			if lastKind == 'C' {
				c1 = reflect(lastCtrl, cur)
			}
			c2, end := pt(args[0], args[1]), pt(args[2], args[3])
			cmds = append(cmds, trace.CubicTo{Control1: c1, Control2: c2, Point: end})
			cur, lastCtrl, nextKind = end, c2, 'C'
		case 'Q':
			ctrl, end := pt(args[0], args[1]), pt(args[2], args[3])
			c1, c2 := trace.RaiseQuad(cur, ctrl, end)
			cmds = append(cmds, trace.CubicTo{Control1: c1, Control2: c2, Point: end})
			cur, lastCtrl, nextKind = end, ctrl, 'Q'
		case 'T':
			ctrl := cur
			if lastKind == 'Q' {
				ctrl = reflect(lastCtrl, cur)
			}
			end := pt(args[0], args[1])
			c1, c2 := trace.RaiseQuad(cur, ctrl, end)
			cmds = append(cmds, trace.CubicTo{Control1: c1, Control2: c2, Point: end})
			cur, lastCtrl, nextKind = end, ctrl, 'Q'
		case 'A':
			end := pt(args[5], args[6])
			cmds = append(cmds, trace.ArcTo{
				RX: args[0], RY: args[1], Rotation: args[2],
				LargeArc: large, Sweep: sweep, Point: end,
			})
			cur = end
		case 'Z':
			cmds = append(cmds, trace.ClosePath{Point: start})
			cur = start
		}
		lastKind = nextKind
	}
	return cmds, nil
}

func reflect(p, about geometry.Point) geometry.Point {
	return about.Mul(2).Sub(p)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLetter(c byte) bool { return isUpper(c) || (c >= 'a' && c <= 'z') }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
