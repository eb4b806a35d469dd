// Package schema checks field declarations against the native type catalog
// when a schema is loaded, before any query runs.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/geometry"
	"github.com/nnnkkk7/typebridge/pkg/types"
)

// ErrIncompatible is returned when a native type cannot annotate a field
// of the declared logical type.
var ErrIncompatible = errors.New("native type is incompatible with field type")

// ErrNoDefault is returned for an unannotated field whose logical type the
// connector cannot store.
var ErrNoDefault = errors.New("connector has no native type for field type")

// NativeAnnotation is a native type as written in schema source, with its
// arguments still raw.
type NativeAnnotation struct {
	Name string
	Args []string
}

func (a NativeAnnotation) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(a.Args, ", "))
}

// FieldDescriptor is one field declaration handed over by the schema
// parser.
type FieldDescriptor struct {
	Model  string
	Name   string
	Type   types.LogicalType
	Native *NativeAnnotation
}

// Field is a validated field.
type Field struct {
	Descriptor FieldDescriptor
	Native     catalog.NativeType
	// Defaulted is set when Native came from the connector's default for
	// the logical type rather than an annotation.
	Defaulted bool
}

// Format is the text form spatial values of the field render to.
func (f Field) Format() geometry.Format {
	if f.Descriptor.Type == types.TypeGeoJSON {
		return geometry.FormatGeoJSON
	}
	return geometry.FormatEWKT
}

// FieldError locates a validation failure.
type FieldError struct {
	Model string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Model, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validator resolves field declarations for one connector.
type Validator struct {
	Connector types.Connector
}

// ValidateField resolves fd's annotation, or the connector default when it
// has none, and checks it against fd's logical type.
func (v Validator) ValidateField(fd FieldDescriptor) (Field, error) {
	fail := func(err error) (Field, error) {
		return Field{}, &FieldError{Model: fd.Model, Field: fd.Name, Err: err}
	}

	if fd.Native == nil {
		nt, ok := catalog.Default(v.Connector, fd.Type)
		if !ok {
			return fail(fmt.Errorf("%w: %s on %s", ErrNoDefault, fd.Type, v.Connector))
		}
		return Field{Descriptor: fd, Native: nt, Defaulted: true}, nil
	}

	spec, err := catalog.Lookup(v.Connector, fd.Native.Name)
	if err != nil {
		return fail(err)
	}
	if !spec.Accepts(fd.Type) {
		return fail(fmt.Errorf("%w: %s %s cannot annotate a %s field", ErrIncompatible, v.Connector, spec.Name, fd.Type))
	}
	nt, err := catalog.Resolve(v.Connector, fd.Native.Name, fd.Native.Args)
	if err != nil {
		return fail(err)
	}
	return Field{Descriptor: fd, Native: nt.WithLogical(fd.Type)}, nil
}

// ValidateModel validates every field and reports all failures together.
// The returned slice holds the fields that validated, in order.
func (v Validator) ValidateModel(fields []FieldDescriptor) ([]Field, error) {
	out := make([]Field, 0, len(fields))
	var errs []error
	for _, fd := range fields {
		f, err := v.ValidateField(fd)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, f)
	}
	return out, errors.Join(errs...)
}
