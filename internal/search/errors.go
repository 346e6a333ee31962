package search

import (
	"fmt"
	"reflect"
)

// UnknownTypeError is returned for a search type with no resolver method.
type UnknownTypeError struct {
	Type SearchType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown search type %q", e.Type)
}

// ArgError reports an argument that does not fit a method's contract.
type ArgError struct {
	Method Method
	Index  int
	Want   string
	Got    any
}

func (e *ArgError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: argument %d: want %s, got nothing", e.Method, e.Index, e.Want)
	}
	return fmt.Sprintf("%s: argument %d: want %s, got %s", e.Method, e.Index, e.Want, reflect.TypeOf(e.Got))
}

// PanicError wraps a value recovered from a panicking resolver, factory or
// liveness accessor.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during lookup: %v", e.Value)
}

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
