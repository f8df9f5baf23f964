package types

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks whether a JSON field was present, and whether it was null.
// Absent leaves Valid false; an explicit null sets Valid with a nil Value.
type Nullable[T any] struct {
	Valid bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Set builds a present, non-null value.
func Set[T any](value T) Nullable[T] {
	return Nullable[T]{Valid: true, Value: &value}
}

// Null builds a present, explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Valid: true}
}
