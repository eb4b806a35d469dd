package geometry

import (
	"strconv"
	"strings"
)

// writeWKT appends g as WKT. EWKT style writes the M tag glued to the
// keyword (POINTM) and leaves Z implicit; ISO style writes " Z ", " M ",
// " ZM " tags.
func writeWKT(b *strings.Builder, g Geometry, ewkt bool) {
	b.WriteString(g.Kind.WKTName())
	spaced := writeDimsTag(b, g, ewkt)
	if g.IsEmpty() {
		if !spaced {
			b.WriteByte(' ')
		}
		b.WriteString("EMPTY")
		return
	}
	writeBody(b, g, ewkt)
}

// writeDimsTag writes the dimension tag and reports whether it ended with a
// space. EWKT spells Z and ZM only when no position carries them.
func writeDimsTag(b *strings.Builder, g Geometry, ewkt bool) bool {
	if ewkt {
		if g.Dims == XYM {
			b.WriteByte('M')
			return false
		}
		if !g.Dims.HasZ() || g.hasPositions() {
			return false
		}
	}
	if g.Dims == XY {
		return false
	}
	b.WriteByte(' ')
	b.WriteString(g.Dims.String())
	b.WriteByte(' ')
	return true
}

func writeBody(b *strings.Builder, g Geometry, ewkt bool) {
	switch g.Kind {
	case KindPoint:
		b.WriteByte('(')
		writeCoord(b, g.Coords[0])
		b.WriteByte(')')
		return
	case KindLineString, KindCircularString:
		writeCoordList(b, g.Coords)
		return
	}

	rule := memberRules[g.Kind]
	b.WriteByte('(')
	for i, child := range g.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		switch {
		case g.Kind == KindMultiPoint && child.IsEmpty():
			b.WriteString("EMPTY")
		case g.Kind == KindMultiPoint:
			// MULTIPOINT(1 2,3 4)
			writeCoord(b, child.Coords[0])
		case rule.bare && child.Kind == rule.implied:
			if child.IsEmpty() {
				b.WriteString("EMPTY")
			} else {
				writeBody(b, child, ewkt)
			}
		default:
			writeWKT(b, child, ewkt)
		}
	}
	b.WriteByte(')')
}

func writeCoordList(b *strings.Builder, coords []Coord) {
	b.WriteByte('(')
	for i, c := range coords {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCoord(b, c)
	}
	b.WriteByte(')')
}

func writeCoord(b *strings.Builder, c Coord) {
	for i, v := range c {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatOrdinate(v))
	}
}

// formatOrdinate prints the shortest text that parses back to v.
func formatOrdinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
