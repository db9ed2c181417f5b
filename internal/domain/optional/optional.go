// Package optional models fields of a partial update that may be absent.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is present only when the JSON key was sent with a non-null value.
type Value[T any] struct {
	v       T
	present bool
}

func Of[T any](v T) Value[T] {
	return Value[T]{v: v, present: true}
}

func (o Value[T]) Present() bool { return o.present }

// Get returns the value and whether it was set.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.present
}

// OrElse returns the value or def when absent.
func (o Value[T]) OrElse(def T) T {
	if !o.present {
		return def
	}
	return o.v
}

// Apply writes the value into dst when present.
func (o Value[T]) Apply(dst *T) {
	if o.present {
		*dst = o.v
	}
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Of(v)
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
