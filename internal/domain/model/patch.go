package model

import "encoding/json"

// Patch is a tri-state update field. A JSON key that is absent leaves the
// stored value unchanged, an explicit null clears it, and a value replaces it.
// The three states survive a JSON round trip: UnmarshalJSON only runs when the
// key is present, and omitzero keeps unset fields out of the output.
type Patch[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// PatchValue builds a present patch carrying a value.
func PatchValue[T any](value T) Patch[T] {
	return Patch[T]{Present: true, Valid: true, Value: value}
}

// PatchNull builds a present patch carrying an explicit null.
func PatchNull[T any]() Patch[T] {
	return Patch[T]{Present: true}
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Present = true
	if string(data) == "null" {
		p.Valid = false
		var zero T
		p.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Valid = true
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// IsZero reports whether the field was absent, so that omitzero drops it.
func (p Patch[T]) IsZero() bool {
	return !p.Present
}
