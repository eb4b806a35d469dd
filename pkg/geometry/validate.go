package geometry

import (
	"errors"
	"fmt"
)

// validationError is a structural failure detected after a member has been
// read; the format-specific parser attaches position and excerpt.
type validationError struct {
	code ErrorCode
	msg  string
}

func invalid(code ErrorCode, format string, args ...any) *validationError {
	return &validationError{code: code, msg: fmt.Sprintf(format, args...)}
}

// checkStructure validates a geometry built outside the parsers against
// the shape they produce: a concrete kind, positions only on points and
// simple curves, permitted member kinds, one coordinate layout throughout,
// closed rings and minimum point counts.
func checkStructure(g Geometry, dims Dims) *validationError {
	info, ok := kinds[g.Kind]
	if !ok || g.Kind == KindGeometry {
		return invalid(CodeUnknownKind, "%s is not a concrete geometry kind", g.Kind)
	}
	if g.Dims != dims {
		return invalid(CodeMixedDimensions, "%s member has %s dimensions inside a %s geometry", info.name, dimsLabel(g.Dims), dimsLabel(dims))
	}
	for _, c := range g.Coords {
		if len(c) != dims.Size() {
			return invalid(CodeMixedDimensions, "%s position has %d ordinates, want %d", info.name, len(c), dims.Size())
		}
	}

	switch g.Kind {
	case KindPoint:
		if len(g.Children) > 0 || len(g.Coords) > 1 {
			return invalid(CodeSyntax, "%s must hold at most one position and no members", info.name)
		}
		return nil
	case KindLineString, KindCircularString:
		if len(g.Children) > 0 {
			return invalid(CodeSyntax, "%s must not hold members", info.name)
		}
		if g.IsEmpty() {
			return nil
		}
		return checkCurve(g.Kind, g.Coords)
	}

	if len(g.Coords) > 0 {
		return invalid(CodeSyntax, "%s must hold its positions in members", info.name)
	}
	rule := memberRules[g.Kind]
	for _, child := range g.Children {
		if !rule.permits(child.Kind) {
			return invalid(CodeUnsupportedKind, "%s cannot contain %s", info.name, child.Kind)
		}
		if err := checkStructure(child, dims); err != nil {
			return err
		}
		if isRingOwner(g.Kind) {
			if err := checkRing(g.Kind, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r memberRule) permits(k Kind) bool {
	if k == r.implied {
		return true
	}
	for _, t := range r.tagged {
		if t == k {
			return true
		}
	}
	return false
}

// checkCurve validates point counts of simple curves.
func checkCurve(kind Kind, coords []Coord) *validationError {
	switch kind {
	case KindLineString:
		if len(coords) < 2 {
			return invalid(CodeTooFewPoints, "%s must have at least 2 points, got %d", kind, len(coords))
		}
	case KindCircularString:
		if len(coords) < 3 || len(coords)%2 == 0 {
			return invalid(CodeTooFewPoints, "%s must have an odd number of points, at least 3, got %d", kind, len(coords))
		}
	}
	return nil
}

// checkRing validates one ring of a polygon-family owner. Rings must be
// closed; they are never repaired.
func checkRing(owner Kind, ring Geometry) *validationError {
	if ring.IsEmpty() {
		return nil
	}
	first, last, ok := endpoints(ring)
	if !ok {
		return invalid(CodeTooFewPoints, "%s ring has no points", owner)
	}
	if !first.Equal(last) {
		return invalid(CodeUnclosedRing, "%s ring is not closed: first point %v differs from last point %v", owner, []float64(first), []float64(last))
	}
	if ring.Kind == KindLineString && len(ring.Coords) < 4 {
		return invalid(CodeTooFewPoints, "%s ring must have at least 4 points, got %d", owner, len(ring.Coords))
	}
	if owner == KindTriangle && len(ring.Coords) != 4 {
		return invalid(CodeTooFewPoints, "%s ring must have exactly 4 points, got %d", owner, len(ring.Coords))
	}
	return nil
}

// endpoints returns the first and last position of a curve, following
// compound curve members.
func endpoints(g Geometry) (Coord, Coord, bool) {
	if len(g.Coords) > 0 {
		return g.Coords[0], g.Coords[len(g.Coords)-1], true
	}
	if len(g.Children) == 0 {
		return nil, nil, false
	}
	first, _, ok := endpoints(g.Children[0])
	if !ok {
		return nil, nil, false
	}
	_, last, ok := endpoints(g.Children[len(g.Children)-1])
	return first, last, ok
}

// checkGeography applies the ellipsoidal family rules: only the GeoJSON
// kinds are allowed and positions must be valid longitude/latitude pairs.
// g must already pass checkStructure.
func checkGeography(g Geometry) *validationError {
	if g.HasExtendedKind() {
		return invalid(CodeUnsupportedKind, "geography does not support %s", firstExtended(g))
	}
	var bad *validationError
	_ = g.walkCoords(func(c Coord) error {
		lon, lat := c[0], c[1]
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			bad = invalid(CodeOutOfBounds, "coordinate (%v %v) is out of range [-180 -90, 180 90] for geography", lon, lat)
			return errStop
		}
		return nil
	})
	return bad
}

func firstExtended(g Geometry) Kind {
	if g.Kind.IsExtended() {
		return g.Kind
	}
	for _, c := range g.Children {
		if c.HasExtendedKind() {
			return firstExtended(c)
		}
	}
	return g.Kind
}

var errStop = errors.New("stop")
