package atlas

import (
	"errors"
	"fmt"
)

// ErrMissingLoader is returned by Load when no TextureLoader is supplied.
var ErrMissingLoader = errors.New("atlas: texture loader is required")

// ErrTruncated is returned in strict mode when the input ends inside a page
// header or region block.
var ErrTruncated = errors.New("atlas: descriptor ends mid-record")

// errEndOfInput marks the end of the line stream. It never escapes Load.
var errEndOfInput = errors.New("end of input")

// MalformedLineError reports a field line without a ':' separator.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("atlas: line %d: invalid line: %q", e.Line, e.Text)
}

// UnknownEnumValueError reports a format or filter token that matches no
// known value. Matching is case-sensitive.
type UnknownEnumValueError struct {
	Kind  string
	Value string
	Line  int
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("atlas: line %d: unknown %s %q", e.Line, e.Kind, e.Value)
}

// NumericParseError reports a token that should be an integer or boolean
// but is not.
type NumericParseError struct {
	Value string
	Line  int
	Err   error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("atlas: line %d: invalid value %q: %v", e.Line, e.Value, e.Err)
}

func (e *NumericParseError) Unwrap() error { return e.Err }
