// Package f16 implements IEEE-754 binary16 (float16) conversion.
//
// Go has no native half-precision type. Arrays with a float16 data type
// store raw binary16 bit-patterns; conversion to and from float32/float64
// happens only at the scalar boundary (fill values, element access).
package f16

import (
	"math"
)

// Bits is a raw IEEE-754 binary16 bit-pattern.
//
// Layout:
//
//	sign: 1 bit
//	exp:  5 bits (bias 15)
//	frac: 10 bits
type Bits uint16

const (
	signMask Bits = 0x8000
	expMask  Bits = 0x7C00
	fracMask Bits = 0x03FF

	f32ExpMask  uint32 = 0x7F800000
	f32FracMask uint32 = 0x007FFFFF
)

// ToFloat32 converts a binary16 bit-pattern to float32.
//
// The conversion is exact: every binary16 value is representable in binary32.
func ToFloat32(h Bits) float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h&expMask) >> 10
	frac := uint32(h & fracMask)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: exponent -14, no implicit leading 1.
		// Normalize the fraction to construct a binary32 normal.
		e := int32(-14)
		m := frac
		for (m & 0x0400) == 0 {
			m <<= 1
			e--
		}
		m &= 0x03FF // strip leading 1
		f32Exp := uint32(int32(127)+e) << 23
		f32Frac := m << 13
		return math.Float32frombits(sign | f32Exp | f32Frac)
	case 0x1F:
		// Inf/NaN
		if frac == 0 {
			return math.Float32frombits(sign | f32ExpMask)
		}
		return math.Float32frombits(sign | f32ExpMask | (frac << 13))
	default:
		f32Exp := uint32(int32(exp)-15+127) << 23
		f32Frac := frac << 13
		return math.Float32frombits(sign | f32Exp | f32Frac)
	}
}

// FromFloat32 converts a float32 value into a binary16 bit-pattern.
//
// Rounding mode: round-to-nearest, ties-to-even. Values beyond the binary16
// range become infinities; values below the subnormal range become zero.
func FromFloat32(f float32) Bits {
	bits := math.Float32bits(f)
	sign := Bits((bits >> 16) & uint32(signMask))
	exp := int32((bits & f32ExpMask) >> 23)
	frac := bits & f32FracMask

	// NaN / Inf
	if exp == 0xFF {
		if frac == 0 {
			return sign | expMask
		}
		// Preserve some payload; ensure the result is a quiet, non-zero NaN.
		payload := Bits(frac >> 13)
		if payload == 0 {
			payload = 1
		}
		payload |= 0x0200
		return sign | expMask | (payload & fracMask)
	}

	// Zero, and float32 subnormals which underflow to zero in binary16.
	if exp == 0 {
		return sign
	}

	// Re-bias exponent from binary32 (127) to binary16 (15).
	e16 := exp - 127 + 15

	if e16 >= 0x1F {
		return sign | expMask
	}

	if e16 <= 0 {
		if e16 < -10 {
			return sign
		}
		// Subnormal result: make the implicit leading 1 explicit
		// and shift down to a 10-bit mantissa with rounding.
		mant := frac | 0x00800000
		shift := uint32(1-e16) + 13
		m := mant >> shift
		remainder := mant & ((uint32(1) << shift) - 1)
		half := uint32(1) << (shift - 1)
		if remainder > half || (remainder == half && (m&1) == 1) {
			m++
		}
		return sign | Bits(m)
	}

	// Normal case: 23-bit fraction -> 10-bit with rounding.
	m := frac >> 13
	remainder := frac & 0x1FFF
	if remainder > 0x1000 || (remainder == 0x1000 && (m&1) == 1) {
		m++
		if m == 0x0400 {
			// Mantissa overflow; carry into exponent.
			m = 0
			e16++
			if e16 >= 0x1F {
				return sign | expMask
			}
		}
	}

	return sign | Bits(uint32(e16)<<10) | Bits(m)
}

// ToFloat64 converts a binary16 bit-pattern to float64.
func ToFloat64(h Bits) float64 {
	return float64(ToFloat32(h))
}

// FromFloat64 converts a float64 value into a binary16 bit-pattern.
//
// The value is narrowed through float32 first; double rounding is not a
// concern because binary32 has more than twice the precision of binary16.
func FromFloat64(f float64) Bits {
	if math.IsNaN(f) {
		return FromFloat32(float32(math.NaN()))
	}
	return FromFloat32(float32(f))
}

// IsNaN reports whether the bit-pattern encodes a NaN.
func (h Bits) IsNaN() bool {
	return h&expMask == expMask && h&fracMask != 0
}
