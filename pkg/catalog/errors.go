package catalog

import (
	"errors"
	"fmt"

	"github.com/nnnkkk7/typebridge/pkg/types"
)

// ErrNotFound is returned by Lookup for an unknown connector or type name.
var ErrNotFound = errors.New("native type not found")

// ParameterError reports a native type argument that violates its bound.
// It is raised while loading a schema, before any query runs.
type ParameterError struct {
	Connector types.Connector
	Type      string
	Param     string
	Value     string
	Bound     string
}

// Error implements the error interface.
func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s native type %s: %s = %s, expected %s", e.Connector, e.Type, e.Param, e.Value, e.Bound)
}

// Is reports whether target is a ParameterError for the same parameter.
// A target with an empty Param matches any ParameterError.
func (e *ParameterError) Is(target error) bool {
	var pe *ParameterError
	if !errors.As(target, &pe) {
		return false
	}
	return pe.Param == "" || pe.Param == e.Param
}

// ErrParameter matches any ParameterError.
var ErrParameter = &ParameterError{}
