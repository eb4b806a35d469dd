package geometry

import (
	"strconv"
	"strings"
)

// memberRule describes the members a composite kind may contain: members
// written without a keyword get the implied kind, keyword-tagged members
// must be one of tagged.
type memberRule struct {
	implied Kind
	bare    bool // implied members may be written without a keyword
	tagged  []Kind
}

var memberRules = map[Kind]memberRule{
	KindPolygon:            {implied: KindLineString, bare: true},
	KindTriangle:           {implied: KindLineString, bare: true},
	KindMultiPoint:         {implied: KindPoint, bare: true},
	KindMultiLineString:    {implied: KindLineString, bare: true},
	KindMultiPolygon:       {implied: KindPolygon, bare: true},
	KindGeometryCollection: {tagged: allKinds()},
	KindCompoundCurve:      {implied: KindLineString, bare: true, tagged: []Kind{KindLineString, KindCircularString}},
	KindCurvePolygon:       {implied: KindLineString, bare: true, tagged: []Kind{KindLineString, KindCircularString, KindCompoundCurve}},
	KindMultiCurve:         {implied: KindLineString, bare: true, tagged: []Kind{KindLineString, KindCircularString, KindCompoundCurve}},
	KindMultiSurface:       {implied: KindPolygon, bare: true, tagged: []Kind{KindPolygon, KindCurvePolygon}},
	KindPolyhedralSurface:  {implied: KindPolygon, bare: true},
	KindTIN:                {implied: KindTriangle, bare: true},
}

func allKinds() []Kind {
	return []Kind{
		KindPoint, KindLineString, KindPolygon, KindMultiPoint, KindMultiLineString,
		KindMultiPolygon, KindGeometryCollection, KindCircularString, KindCompoundCurve,
		KindCurvePolygon, KindMultiCurve, KindMultiSurface, KindPolyhedralSurface,
		KindTriangle, KindTIN,
	}
}

// isRingOwner reports whether the direct members of k are closed rings.
func isRingOwner(k Kind) bool {
	return k == KindPolygon || k == KindTriangle || k == KindCurvePolygon
}

// ParseWKT parses WKT or EWKT text. An SRID=<n>; prefix sets the SRID;
// without it the SRID is unspecified.
func ParseWKT(text string) (Geometry, error) {
	p := &wktParser{src: text}
	srid, err := p.parseSRIDPrefix()
	if err != nil {
		return Geometry{}, err
	}
	g, err := p.parseTagged(nil)
	if err != nil {
		return Geometry{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Geometry{}, p.errorf(CodeSyntax, "unexpected trailing input")
	}
	g.setDims(p.dims)
	g.SRID = srid
	return g, nil
}

type wktParser struct {
	src     string
	pos     int
	dims    Dims
	dimsSet bool
}

func (p *wktParser) eof() bool { return p.pos >= len(p.src) }

func (p *wktParser) errorf(code ErrorCode, format string, args ...any) *ParseError {
	return newParseError(code, p.src, p.pos, format, args...)
}

func (p *wktParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *wktParser) peek() byte {
	p.skipSpace()
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *wktParser) expect(c byte) error {
	if p.peek() != c {
		if p.eof() {
			return p.errorf(CodeTruncated, "expected %q, got end of input", c)
		}
		return p.errorf(CodeSyntax, "expected %q", c)
	}
	p.pos++
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// word reads an upper-cased keyword. It returns "" when the next token is
// not a keyword.
func (p *wktParser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	return strings.ToUpper(p.src[start:p.pos])
}

func (p *wktParser) parseSRIDPrefix() (SRID, error) {
	p.skipSpace()
	if len(p.src)-p.pos < 5 || !strings.EqualFold(p.src[p.pos:p.pos+5], "SRID=") {
		return SRID{}, nil
	}
	p.pos += 5
	semi := strings.IndexByte(p.src[p.pos:], ';')
	if semi < 0 {
		return SRID{}, p.errorf(CodeTruncated, "SRID prefix is not terminated by ';'")
	}
	raw := strings.TrimSpace(p.src[p.pos : p.pos+semi])
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return SRID{}, p.errorf(CodeInvalidSRID, "invalid SRID %q", raw)
	}
	p.pos += semi + 1
	return NewSRID(id), nil
}

// claimDims records the dimensionality of the geometry being parsed and
// rejects a conflicting one.
func (p *wktParser) claimDims(d Dims) error {
	if !p.dimsSet {
		p.dims, p.dimsSet = d, true
		return nil
	}
	if p.dims != d {
		return p.errorf(CodeMixedDimensions, "mixed coordinate dimensions %s and %s", dimsLabel(p.dims), dimsLabel(d))
	}
	return nil
}

func dimsLabel(d Dims) string {
	if d == XY {
		return "XY"
	}
	return "XY" + d.String()
}

// parseKeyword reads a kind keyword with its optional dimension tag, in
// either the EWKT (POINTM) or ISO (POINT M) spelling.
func (p *wktParser) parseKeyword() (Kind, error) {
	start := p.pos
	w := p.word()
	if w == "" {
		if p.eof() {
			return 0, p.errorf(CodeTruncated, "expected geometry keyword, got end of input")
		}
		return 0, p.errorf(CodeSyntax, "expected geometry keyword")
	}
	if k, ok := kindFromWKT(w); ok {
		return k, p.parseDimsTag()
	}
	for _, suffix := range []struct {
		tag  string
		dims Dims
	}{{"ZM", XYZM}, {"Z", XYZ}, {"M", XYM}} {
		if base, found := strings.CutSuffix(w, suffix.tag); found {
			if k, ok := kindFromWKT(base); ok {
				return k, p.claimDims(suffix.dims)
			}
		}
	}
	p.pos = start
	p.skipSpace()
	return 0, p.errorf(CodeUnknownKind, "unknown geometry kind %q", w)
}

// parseDimsTag consumes a standalone Z, M or ZM tag if present.
func (p *wktParser) parseDimsTag() error {
	save := p.pos
	switch p.word() {
	case "Z":
		return p.claimDims(XYZ)
	case "M":
		return p.claimDims(XYM)
	case "ZM":
		return p.claimDims(XYZM)
	default:
		p.pos = save
		return nil
	}
}

// parseEmpty consumes the EMPTY keyword if present.
func (p *wktParser) parseEmpty() bool {
	save := p.pos
	if p.word() == "EMPTY" {
		return true
	}
	p.pos = save
	return false
}

// parseTagged parses a keyword-prefixed geometry. A nil allowed list
// accepts every kind.
func (p *wktParser) parseTagged(allowed []Kind) (Geometry, error) {
	p.skipSpace()
	start := p.pos
	kind, err := p.parseKeyword()
	if err != nil {
		return Geometry{}, err
	}
	if allowed != nil && !containsKind(allowed, kind) {
		p.pos = start
		return Geometry{}, p.errorf(CodeUnsupportedKind, "%s is not allowed here", kind)
	}
	if p.parseEmpty() {
		return Geometry{Kind: kind}, nil
	}
	return p.parseBody(kind)
}

func containsKind(list []Kind, k Kind) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}

// parseBody parses the parenthesized text following a kind keyword.
func (p *wktParser) parseBody(kind Kind) (Geometry, error) {
	start := p.pos
	g := Geometry{Kind: kind}
	switch kind {
	case KindPoint:
		if err := p.expect('('); err != nil {
			return g, err
		}
		c, err := p.parseCoord()
		if err != nil {
			return g, err
		}
		if err := p.expect(')'); err != nil {
			return g, err
		}
		g.Coords = []Coord{c}
		return g, nil

	case KindLineString, KindCircularString:
		coords, err := p.parseCoordList()
		if err != nil {
			return g, err
		}
		g.Coords = coords
		if err := checkCurve(kind, coords); err != nil {
			return g, p.wrapAt(err, start)
		}
		return g, nil
	}

	rule, ok := memberRules[kind]
	if !ok {
		return g, p.errorf(CodeUnknownKind, "unknown geometry kind %s", kind)
	}
	if err := p.expect('('); err != nil {
		return g, err
	}
	for {
		memberStart := p.pos
		child, err := p.parseMember(kind, rule)
		if err != nil {
			return g, err
		}
		if isRingOwner(kind) {
			if err := checkRing(kind, child); err != nil {
				return g, p.wrapAt(err, memberStart)
			}
		}
		g.Children = append(g.Children, child)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return g, err
	}
	return g, nil
}

// parseMember parses one member of a composite kind.
func (p *wktParser) parseMember(owner Kind, rule memberRule) (Geometry, error) {
	c := p.peek()
	switch {
	case c == '(' && rule.bare:
		if owner == KindMultiPoint {
			// MULTIPOINT((1 2),(3 4))
			return p.parseBody(KindPoint)
		}
		return p.parseBody(rule.implied)
	case isNumberStart(c) && owner == KindMultiPoint:
		// MULTIPOINT(1 2,3 4)
		coord, err := p.parseCoord()
		if err != nil {
			return Geometry{}, err
		}
		return Geometry{Kind: KindPoint, Coords: []Coord{coord}}, nil
	case isLetter(c):
		if rule.bare && p.parseEmpty() {
			return Geometry{Kind: rule.implied}, nil
		}
		if len(rule.tagged) == 0 {
			return Geometry{}, p.errorf(CodeSyntax, "%s members must not carry a keyword", owner)
		}
		return p.parseTagged(rule.tagged)
	case c == 0:
		return Geometry{}, p.errorf(CodeTruncated, "unexpected end of input in %s", owner)
	default:
		return Geometry{}, p.errorf(CodeSyntax, "unexpected %q in %s", c, owner)
	}
}

func (p *wktParser) parseCoordList() ([]Coord, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var coords []Coord
	for {
		c, err := p.parseCoord()
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return coords, nil
}

func (p *wktParser) parseCoord() (Coord, error) {
	var c Coord
	for {
		p.skipSpace()
		if p.eof() || !isNumberStart(p.src[p.pos]) {
			break
		}
		f, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		c = append(c, f)
	}
	if len(c) == 0 {
		if p.eof() {
			return nil, p.errorf(CodeTruncated, "expected coordinate, got end of input")
		}
		return nil, p.errorf(CodeSyntax, "expected coordinate")
	}
	d, ok := dimsForSize(len(c))
	if p.dimsSet && p.dims.Size() == len(c) {
		return c, nil
	}
	if !ok {
		return nil, p.errorf(CodeSyntax, "coordinate has %d ordinates", len(c))
	}
	if err := p.claimDims(d); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *wktParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	tok := p.src[start:p.pos]
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf(CodeSyntax, "invalid number %q", tok)
	}
	return f, nil
}

// wrapAt turns a validation failure into a ParseError positioned at offset.
func (p *wktParser) wrapAt(err *validationError, offset int) *ParseError {
	return newParseError(err.code, p.src, offset, "%s", err.msg)
}
