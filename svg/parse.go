// Package svg reads seed shapes from SVG files and writes simulations as SVG.
package svg

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/seed"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"
	"gonum.org/v1/gonum/spatial/r2"
)

// Parse extracts the points of every <path> element of an SVG document.
//
// Each subpath becomes a shape. Only the end points of segments are kept, so
// curves are flattened to their end points. A subpath is closed when it ends
// with Z, or when its last point lies within eps of its first one;
// in both cases a duplicate closing point is dropped.
// Subpaths with fewer than two points are discarded.
func Parse(r io.Reader, eps float64) ([]seed.Shape, error) {
	l := xml.NewLexer(parse.NewInput(r))
	var (
		shapes []seed.Shape
		inPath bool
	)
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, fmt.Errorf("svg: %w", l.Err())
			}
			return shapes, nil
		case xml.StartTagToken:
			inPath = localName(l.Text()) == "path"
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			inPath = false
		case xml.AttributeToken:
			if !inPath || localName(l.Text()) != "d" {
				continue
			}
			s, err := ParsePathData(unquote(l.AttrVal()), eps)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, s...)
		}
	}
}

// localName strips the namespace prefix of a tag or attribute name.
func localName(b []byte) string {
	if i := bytes.LastIndexByte(b, ':'); i >= 0 {
		b = b[i+1:]
	}
	return string(b)
}

func unquote(b []byte) []byte {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		return b[1 : len(b)-1]
	}
	return b
}

// number of arguments of each path command
var arity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Z': 0,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7,
}

// ParsePathData extracts the shapes described by the d attribute of an SVG path.
func ParsePathData(d []byte, eps float64) ([]seed.Shape, error) {
	var (
		shapes []seed.Shape
		cur    []r2.Vec
		pos    r2.Vec // current point
		start  r2.Vec // first point of the current subpath
		cmd    byte
	)
	flush := func(closed bool) {
		if n := len(cur); n > 1 && diffgrowth.Dist(cur[n-1], cur[0]) <= eps {
			cur = cur[:n-1]
			closed = true
		}
		if len(cur) > 1 {
			shapes = append(shapes, seed.Shape{Points: cur, Closed: closed})
		}
		cur = nil
	}

	args := make([]float64, 0, 7)
	for i := 0; ; {
		for i < len(d) && (d[i] == ' ' || d[i] == ',' || d[i] == '\t' || d[i] == '\n' || d[i] == '\r') {
			i++
		}
		if i == len(d) {
			break
		}

		c := d[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			if _, ok := arity[c&^0x20]; !ok {
				return nil, fmt.Errorf("svg: unknown path command %q at offset %d", c, i)
			}
			cmd = c
			i++
			if cmd == 'Z' || cmd == 'z' {
				flush(true)
				pos = start
			}
			continue
		}
		if cmd == 0 {
			return nil, fmt.Errorf("svg: path data must start with a command, got %q", c)
		}
		if arity[cmd&^0x20] == 0 {
			return nil, fmt.Errorf("svg: unexpected number after %q at offset %d", cmd, i)
		}

		f, n := strconv.ParseFloat(d[i:])
		if n == 0 {
			return nil, fmt.Errorf("svg: bad number at offset %d", i)
		}
		i += n
		args = append(args, f)
		if len(args) < arity[cmd&^0x20] {
			continue
		}

		rel := cmd >= 'a'
		if cmd&^0x20 == 'M' {
			flush(false)
			pos = point(pos, args[0], args[1], rel)
			start = pos
			cur = append(cur, pos)
			args = args[:0]
			// following pairs are implicit lineto commands
			cmd = cmd - 'M' + 'L'
			continue
		}
		if len(cur) == 0 {
			// drawing right after Z starts from the closing point
			cur = append(cur, pos)
		}
		switch cmd &^ 0x20 {
		case 'H':
			if rel {
				pos.X += args[0]
			} else {
				pos.X = args[0]
			}
		case 'V':
			if rel {
				pos.Y += args[0]
			} else {
				pos.Y = args[0]
			}
		default:
			k := len(args)
			pos = point(pos, args[k-2], args[k-1], rel)
		}
		cur = append(cur, pos)
		args = args[:0]
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("svg: truncated %q command", cmd)
	}
	flush(false)
	return shapes, nil
}

func point(pos r2.Vec, x, y float64, rel bool) r2.Vec {
	if rel {
		return r2.Vec{X: pos.X + x, Y: pos.Y + y}
	}
	return r2.Vec{X: x, Y: y}
}
