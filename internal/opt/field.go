// Package opt provides a tri-state optional value for partial updates,
// distinguishing a field that was omitted from one explicitly sent as null.
package opt

import "encoding/json"

// Field holds one of three states: absent (Set == false), null
// (Set && Null) or a concrete value (Set && !Null).
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Get returns the value and whether a non-null value is present.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set && !f.Null
}

// UnmarshalJSON is only invoked for keys present in the document, which is
// what marks the field as set.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}
