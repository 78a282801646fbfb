package dtype

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hupe1980/zarrgo/internal/f16"
)

// TypeMismatchError is returned when a fill value literal does not agree
// with the declared data type (wrong JSON kind, or an out-of-range integer).
type TypeMismatchError struct {
	Type    Type
	Literal string
	cause   error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("fill value %s is not valid for data type %s", e.Literal, e.Type)
}

func (e *TypeMismatchError) Unwrap() error { return e.cause }

func mismatch(t Type, lit []byte, cause error) error {
	return &TypeMismatchError{Type: t, Literal: string(lit), cause: cause}
}

// Value is a typed scalar, most commonly an array's fill value.
// The zero Value is not meaningful; construct via ParseFill or Decode.
type Value struct {
	typ Type

	b   bool
	i   int64
	u   uint64
	f   float64
	c   complex128
	raw []byte
}

// Type returns the value's data type.
func (v Value) Type() Type { return v.typ }

// Interface returns the value as a native Go scalar: bool, int64, uint64,
// float64, complex128, or []byte for raw types. Float16 values are reported
// as the float64 of their rounded binary16 representation.
func (v Value) Interface() any {
	switch {
	case v.typ == Bool:
		return v.b
	case isInt(v.typ):
		return v.i
	case isUint(v.typ):
		return v.u
	case isFloat(v.typ):
		return v.f
	case isComplex(v.typ):
		return v.c
	default:
		return v.raw
	}
}

// ParseFill parses a JSON fill value literal for the given data type.
//
// Accepted forms follow the metadata document format: JSON booleans for
// bool; numbers within range for integers; numbers or the strings "NaN",
// "Infinity" and "-Infinity" for floats; a two-element [re, im] array for
// complex; a byte array of exactly the element size for raw types.
func ParseFill(t Type, lit json.RawMessage) (Value, error) {
	lit = bytes.TrimSpace(lit)
	if len(lit) == 0 || string(lit) == "null" {
		return Value{}, mismatch(t, lit, nil)
	}

	v := Value{typ: t}
	switch {
	case t == Bool:
		if err := json.Unmarshal(lit, &v.b); err != nil {
			return Value{}, mismatch(t, lit, err)
		}

	case isInt(t):
		n, err := parseJSONNumber(lit)
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}
		v.i, err = strconv.ParseInt(n.String(), 10, intBits(t))
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}

	case isUint(t):
		n, err := parseJSONNumber(lit)
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}
		v.u, err = strconv.ParseUint(n.String(), 10, intBits(t))
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}

	case isFloat(t):
		f, err := parseFloatLiteral(lit)
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}
		v.f = f
		if t == Float16 {
			// Round once at parse time so that comparisons against decoded
			// elements see the stored precision.
			v.f = f16.ToFloat64(f16.FromFloat64(f))
		}

	case isComplex(t):
		var parts []json.RawMessage
		if err := json.Unmarshal(lit, &parts); err != nil || len(parts) != 2 {
			return Value{}, mismatch(t, lit, err)
		}
		re, err := parseFloatLiteral(parts[0])
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}
		im, err := parseFloatLiteral(parts[1])
		if err != nil {
			return Value{}, mismatch(t, lit, err)
		}
		v.c = complex(re, im)

	case t.IsRaw():
		var b []byte
		if err := json.Unmarshal(lit, &b); err != nil {
			return Value{}, mismatch(t, lit, err)
		}
		if len(b) != t.Size() {
			return Value{}, mismatch(t, lit, fmt.Errorf("want %d bytes, got %d", t.Size(), len(b)))
		}
		v.raw = b

	default:
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return v, nil
}

func parseJSONNumber(lit json.RawMessage) (json.Number, error) {
	var n json.Number
	if err := json.Unmarshal(lit, &n); err != nil {
		return "", err
	}
	return n, nil
}

func parseFloatLiteral(lit json.RawMessage) (float64, error) {
	if s, ok := trimQuotes(string(bytes.TrimSpace(lit))); ok {
		switch s {
		case litNaN:
			return math.NaN(), nil
		case litPosInf:
			return math.Inf(1), nil
		case litNegInf:
			return math.Inf(-1), nil
		}
		return 0, fmt.Errorf("invalid float literal %q", s)
	}
	var f float64
	if err := json.Unmarshal(lit, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// MarshalJSON renders the value in the metadata document format.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.typ == Bool:
		return json.Marshal(v.b)
	case isInt(v.typ):
		return json.Marshal(v.i)
	case isUint(v.typ):
		return json.Marshal(v.u)
	case isFloat(v.typ):
		return marshalFloat(v.f)
	case isComplex(v.typ):
		re, err := marshalFloat(real(v.c))
		if err != nil {
			return nil, err
		}
		im, err := marshalFloat(imag(v.c))
		if err != nil {
			return nil, err
		}
		return []byte(fmt.Sprintf("[%s,%s]", re, im)), nil
	case v.typ.IsRaw():
		// A JSON array of byte values, not base64.
		ints := make([]int, len(v.raw))
		for i, b := range v.raw {
			ints[i] = int(b)
		}
		return json.Marshal(ints)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, v.typ)
}

func marshalFloat(f float64) ([]byte, error) {
	switch {
	case math.IsNaN(f):
		return []byte(`"` + litNaN + `"`), nil
	case math.IsInf(f, 1):
		return []byte(`"` + litPosInf + `"`), nil
	case math.IsInf(f, -1):
		return []byte(`"` + litNegInf + `"`), nil
	}
	return json.Marshal(f)
}

// Encode renders the scalar as bytes in the given byte order. The returned
// slice has length v.Type().Size().
func (v Value) Encode(order binary.ByteOrder) []byte {
	t := v.typ
	out := make([]byte, t.Size())
	switch {
	case t == Bool:
		if v.b {
			out[0] = 1
		}
	case isInt(t):
		putUint(out, order, uint64(v.i), t.Size())
	case isUint(t):
		putUint(out, order, v.u, t.Size())
	case t == Float16:
		order.PutUint16(out, uint16(f16.FromFloat64(v.f)))
	case t == Float32:
		order.PutUint32(out, math.Float32bits(float32(v.f)))
	case t == Float64:
		order.PutUint64(out, math.Float64bits(v.f))
	case t == Complex64:
		order.PutUint32(out[0:], math.Float32bits(float32(real(v.c))))
		order.PutUint32(out[4:], math.Float32bits(float32(imag(v.c))))
	case t == Complex128:
		order.PutUint64(out[0:], math.Float64bits(real(v.c)))
		order.PutUint64(out[8:], math.Float64bits(imag(v.c)))
	default:
		copy(out, v.raw)
	}
	return out
}

// Decode reads one scalar of type t from b in the given byte order.
func Decode(t Type, b []byte, order binary.ByteOrder) (Value, error) {
	if len(b) != t.Size() {
		return Value{}, fmt.Errorf("decoding %s: want %d bytes, got %d", t, t.Size(), len(b))
	}
	v := Value{typ: t}
	switch {
	case t == Bool:
		v.b = b[0] != 0
	case isInt(t):
		v.i = signExtend(getUint(b, order, t.Size()), t.Size())
	case isUint(t):
		v.u = getUint(b, order, t.Size())
	case t == Float16:
		v.f = f16.ToFloat64(f16.Bits(order.Uint16(b)))
	case t == Float32:
		v.f = float64(math.Float32frombits(order.Uint32(b)))
	case t == Float64:
		v.f = math.Float64frombits(order.Uint64(b))
	case t == Complex64:
		v.c = complex(
			float64(math.Float32frombits(order.Uint32(b[0:]))),
			float64(math.Float32frombits(order.Uint32(b[4:]))),
		)
	case t == Complex128:
		v.c = complex(
			math.Float64frombits(order.Uint64(b[0:])),
			math.Float64frombits(order.Uint64(b[8:])),
		)
	default:
		v.raw = append([]byte(nil), b...)
	}
	return v, nil
}

func putUint(b []byte, order binary.ByteOrder, u uint64, size int) {
	switch size {
	case 1:
		b[0] = byte(u)
	case 2:
		order.PutUint16(b, uint16(u))
	case 4:
		order.PutUint32(b, uint32(u))
	default:
		order.PutUint64(b, u)
	}
}

func getUint(b []byte, order binary.ByteOrder, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}

func signExtend(u uint64, size int) int64 {
	switch size {
	case 1:
		return int64(int8(u))
	case 2:
		return int64(int16(u))
	case 4:
		return int64(int32(u))
	default:
		return int64(u)
	}
}

// DefaultFill returns the zero fill value for a data type, used when a
// metadata builder does not specify one.
func DefaultFill(t Type) Value {
	v := Value{typ: t}
	if t.IsRaw() {
		v.raw = make([]byte, t.Size())
	}
	return v
}
