package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSON is a parsed JSON document. Numbers are kept as json.Number so no
// precision is lost between the driver and the engine.
type JSON struct {
	V any
}

// Kind implements Value.
func (JSON) Kind() Kind { return KindJSON }

// String returns compact JSON text with object keys in sorted order.
func (v JSON) String() string {
	b, err := json.Marshal(v.V)
	if err != nil {
		return fmt.Sprintf("%v", v.V)
	}
	return string(b)
}

// ParseJSON parses exactly one JSON document.
func ParseJSON(data []byte) (JSON, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return JSON{}, fmt.Errorf("invalid json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return JSON{}, errors.New("invalid json: trailing data after document")
	}
	return JSON{V: v}, nil
}

// MustJSON is like ParseJSON but panics on error.
func MustJSON(s string) JSON {
	v, err := ParseJSON([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}
