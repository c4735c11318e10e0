package query

import (
	"encoding/json"
	"fmt"
)

// State is the loading/error part of a query result.
type State struct {
	IsLoading bool
	Err       error
}

// Result is the tri-state view of a cache entry at the moment it is read.
//
// IsLoading is true only while Data is absent, Err is absent and the key is
// not the null key. IsValidating reports whether a fetch for the key is in
// flight, including background refetches of data that is already present.
type Result struct {
	Data         json.RawMessage
	Err          error
	IsLoading    bool
	IsValidating bool
}

// State returns the loading/error part of the result.
func (r Result) State() State {
	return State{IsLoading: r.IsLoading, Err: r.Err}
}

// Typed is a Result whose data has been decoded into T.
type Typed[T any] struct {
	Data      *T
	Err       error
	IsLoading bool
}

// State returns the loading/error part of the result.
func (t Typed[T]) State() State {
	return State{IsLoading: t.IsLoading, Err: t.Err}
}

// Ready reports whether data is available.
func (t Typed[T]) Ready() bool {
	return t.Data != nil
}

// DecodeError is reported when cached data cannot be decoded into the type a
// hook expects.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode converts a raw result into a typed one. A decode failure is reported
// as Err unless the result already carries an error.
func Decode[T any](r Result) Typed[T] {
	t := Typed[T]{Err: r.Err, IsLoading: r.IsLoading}
	if r.Data == nil {
		return t
	}

	var v T
	if err := json.Unmarshal(r.Data, &v); err != nil {
		if t.Err == nil {
			t.Err = &DecodeError{Type: fmt.Sprintf("%T", v), Err: err}
		}
		return t
	}
	t.Data = &v
	return t
}
