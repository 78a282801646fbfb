// Package dtype defines the scalar data types supported by the array format
// and the typed fill values substituted for unwritten chunks.
//
// Byte order is an explicit parameter on every scalar conversion; nothing in
// this package assumes the host's endianness.
package dtype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownType is wrapped by errors returned for unrecognized data type
// names, so callers can test with errors.Is.
var ErrUnknownType = errors.New("unknown data type")

// Type is the name of a scalar data type, as it appears in metadata
// documents (e.g. "uint16", "float32", "complex128", "r16").
type Type string

const (
	Bool Type = "bool"

	Int8  Type = "int8"
	Int16 Type = "int16"
	Int32 Type = "int32"
	Int64 Type = "int64"

	Uint8  Type = "uint8"
	Uint16 Type = "uint16"
	Uint32 Type = "uint32"
	Uint64 Type = "uint64"

	Float16 Type = "float16"
	Float32 Type = "float32"
	Float64 Type = "float64"

	Complex64  Type = "complex64"
	Complex128 Type = "complex128"
)

// Parse validates a data type name. Raw bit types ("r8", "r16", ...) are
// accepted for any positive multiple of 8 bits.
func Parse(s string) (Type, error) {
	t := Type(s)
	switch t {
	case Bool,
		Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64,
		Float16, Float32, Float64,
		Complex64, Complex128:
		return t, nil
	}
	if _, ok := rawBits(t); ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// rawBits extracts the bit width from a raw type name ("r24" -> 24).
func rawBits(t Type) (int, bool) {
	s := string(t)
	if len(s) < 2 || s[0] != 'r' {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n <= 0 || n%8 != 0 {
		return 0, false
	}
	return n, true
}

// IsRaw reports whether t is a raw bit type.
func (t Type) IsRaw() bool {
	_, ok := rawBits(t)
	return ok
}

func (t Type) String() string { return string(t) }

// Size returns the number of bytes per element, or 0 for an invalid type.
func (t Type) Size() int {
	switch t {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	}
	if bits, ok := rawBits(t); ok {
		return bits / 8
	}
	return 0
}

// WordSize returns the width of the byte-order-sensitive unit within one
// element. Complex types are pairs of floats, so their word is half the
// element; raw types are opaque bytes.
func (t Type) WordSize() int {
	switch t {
	case Complex64:
		return 4
	case Complex128:
		return 8
	}
	if t.IsRaw() {
		return 1
	}
	return t.Size()
}

// HasEndianness reports whether elements of t have a meaningful byte order.
// Single-byte and raw types do not.
func (t Type) HasEndianness() bool {
	return !t.IsRaw() && t.Size() > 1
}

// Strings accepted as non-finite float literals.
const (
	litNaN    = "NaN"
	litPosInf = "Infinity"
	litNegInf = "-Infinity"
)

func isFloat(t Type) bool {
	return t == Float16 || t == Float32 || t == Float64
}

func isComplex(t Type) bool {
	return t == Complex64 || t == Complex128
}

func isInt(t Type) bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

func isUint(t Type) bool {
	switch t {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// intBits returns the bit width for integer range checks.
func intBits(t Type) int {
	switch t {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32:
		return 32
	default:
		return 64
	}
}

func trimQuotes(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return s, false
}
