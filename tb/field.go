package tb

import (
	"fmt"

	"github.com/sarchlab/systolictb/signal"
)

// Field is one snapshot value. A field is absent when any bit of the signal
// it was read from was unknown. Absent means "cannot score", never zero.
type Field[T any] struct {
	value T
	valid bool
}

// Known returns a present field.
func Known[T any](v T) Field[T] {
	return Field[T]{value: v, valid: true}
}

// Absent returns a field without value.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.valid
}

// Valid reports whether the field is present.
func (f Field[T]) Valid() bool {
	return f.valid
}

func (f Field[T]) String() string {
	if !f.valid {
		return "x"
	}

	return fmt.Sprint(f.value)
}

// ReadFlag reads a 1-bit signal.
func ReadFlag(port signal.Port, name string) (Field[bool], error) {
	v, err := port.Read(name)
	if err != nil {
		return Absent[bool](), err
	}

	b, ok := v.Bool()
	if !ok {
		return Absent[bool](), nil
	}

	return Known(b), nil
}

// ReadScalar reads a signal as one unsigned integer.
func ReadScalar(port signal.Port, name string) (Field[uint64], error) {
	v, err := port.Read(name)
	if err != nil {
		return Absent[uint64](), err
	}

	x, ok := v.Uint64()
	if !ok {
		return Absent[uint64](), nil
	}

	return Known(x), nil
}

// ReadArray reads a packed array of count elements of width bits each.
func ReadArray(
	port signal.Port,
	name string,
	count, width int,
) (Field[[]uint64], error) {
	v, err := port.Read(name)
	if err != nil {
		return Absent[[]uint64](), err
	}

	values, ok := signal.UnpackArray(v, count, width)
	if !ok {
		return Absent[[]uint64](), nil
	}

	return Known(values), nil
}

// ReadFlags reads count 1-bit lanes packed in one signal.
func ReadFlags(port signal.Port, name string, count int) (Field[[]bool], error) {
	f, err := ReadArray(port, name, count, 1)
	if err != nil {
		return Absent[[]bool](), err
	}

	bits, ok := f.Get()
	if !ok {
		return Absent[[]bool](), nil
	}

	flags := make([]bool, count)
	for i, b := range bits {
		flags[i] = b == 1
	}

	return Known(flags), nil
}
