package svg

import (
	"bufio"
	"html"
	"io"

	"github.com/jasonwebb/diffgrowth"
	"github.com/tdewolff/parse/v2/strconv"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultStyle is the style of exported paths.
const DefaultStyle = "fill: none; stroke: black; stroke-width: 1"

// Options holds the parameters of the SVG export.
type Options struct {
	Width  float64 // width of the document and its view box
	Height float64 // height of the document and its view box

	// History also exports the captured snapshots of every path,
	// oldest first, before the path itself.
	History bool

	Style string // style attribute of every <path>, DefaultStyle if empty, escaped on export
}

// precision is the maximum number of decimals of exported coordinates.
const precision = 3

// Write exports every path of w as an SVG <path> element.
// Closed paths end with Z.
func Write(out io.Writer, w *diffgrowth.World, opts Options) error {
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}
	style = html.EscapeString(style)

	bw := bufio.NewWriter(out)
	var b []byte
	b = append(b, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`+"\n"...)
	b = append(b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="`...)
	b = strconv.AppendDecimal(b, opts.Width, precision)
	b = append(b, `" height="`...)
	b = strconv.AppendDecimal(b, opts.Height, precision)
	b = append(b, `" viewBox="0 0 `...)
	b = strconv.AppendDecimal(b, opts.Width, precision)
	b = append(b, ' ')
	b = strconv.AppendDecimal(b, opts.Height, precision)
	b = append(b, "\">\n"...)

	for _, p := range w.Paths {
		if opts.History {
			for _, h := range p.History {
				b = appendPath(b, h, p.Closed, style)
			}
		}
		b = appendPath(b, p.Points(), p.Closed, style)

		// flush regularly, worlds can hold many paths
		if len(b) > 1<<16 {
			if _, err := bw.Write(b); err != nil {
				return err
			}
			b = b[:0]
		}
	}
	b = append(b, "</svg>\n"...)
	if _, err := bw.Write(b); err != nil {
		return err
	}
	return bw.Flush()
}

// PathData returns the d attribute of a polyline through pts.
func PathData(pts []r2.Vec, closed bool) string {
	return string(appendPathData(nil, pts, closed))
}

func appendPath(b []byte, pts []r2.Vec, closed bool, style string) []byte {
	if len(pts) == 0 {
		return b
	}
	b = append(b, `<path d="`...)
	b = appendPathData(b, pts, closed)
	b = append(b, `" style="`...)
	b = append(b, style...)
	return append(b, "\"/>\n"...)
}

func appendPathData(b []byte, pts []r2.Vec, closed bool) []byte {
	for i, p := range pts {
		switch i {
		case 0:
			b = append(b, 'M')
		case 1:
			b = append(b, " L"...)
		default:
			b = append(b, ' ')
		}
		b = strconv.AppendDecimal(b, p.X, precision)
		b = append(b, ',')
		b = strconv.AppendDecimal(b, p.Y, precision)
	}
	if closed && len(pts) > 0 {
		b = append(b, " Z"...)
	}
	return b
}
