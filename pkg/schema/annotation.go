package schema

import (
	"fmt"
	"strings"
)

// ParseAnnotation parses a native type annotation such as
// "@db.VarChar(255)", "Decimal(10, 2)" or "@db.Geometry(Point, 4326)".
// Arguments are returned raw; the catalog interprets them.
func ParseAnnotation(s string) (*NativeAnnotation, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	if i := strings.IndexByte(s, '.'); i >= 0 && (strings.IndexByte(s, '(') < 0 || i < strings.IndexByte(s, '(')) {
		s = s[i+1:]
	}

	name, rest, hasArgs := strings.Cut(s, "(")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("native type annotation %q has no type name", s)
	}
	if !hasArgs {
		return &NativeAnnotation{Name: name}, nil
	}

	inner, ok := strings.CutSuffix(strings.TrimSpace(rest), ")")
	if !ok || strings.ContainsAny(inner, "()") {
		return nil, fmt.Errorf("native type annotation %q has unbalanced parentheses", s)
	}
	if strings.TrimSpace(inner) == "" {
		return &NativeAnnotation{Name: name}, nil
	}

	parts := strings.Split(inner, ",")
	args := make([]string, len(parts))
	for i, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p == "" {
			return nil, fmt.Errorf("native type annotation %q has an empty argument", s)
		}
		args[i] = p
	}
	return &NativeAnnotation{Name: name, Args: args}, nil
}
