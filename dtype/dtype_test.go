package dtype

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	valid := []struct {
		name string
		size int
	}{
		{"bool", 1},
		{"int8", 1}, {"int16", 2}, {"int32", 4}, {"int64", 8},
		{"uint8", 1}, {"uint16", 2}, {"uint32", 4}, {"uint64", 8},
		{"float16", 2}, {"float32", 4}, {"float64", 8},
		{"complex64", 8}, {"complex128", 16},
		{"r8", 1}, {"r24", 3},
	}
	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := Parse(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.size, typ.Size())
		})
	}

	invalid := []string{"", "float128", "int", "r", "r7", "r0", "string", "Float32"}
	for _, s := range invalid {
		t.Run("invalid "+s, func(t *testing.T) {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrUnknownType)
		})
	}
}

func TestEndianness(t *testing.T) {
	require.False(t, Bool.HasEndianness())
	require.False(t, Uint8.HasEndianness())
	require.False(t, Type("r32").HasEndianness())
	require.True(t, Uint16.HasEndianness())
	require.True(t, Complex128.HasEndianness())

	require.Equal(t, 4, Complex64.WordSize())
	require.Equal(t, 8, Complex128.WordSize())
	require.Equal(t, 1, Type("r16").WordSize())
	require.Equal(t, 2, Float16.WordSize())
}

func TestParseFill(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		lit  string
		want any
	}{
		{"bool true", Bool, `true`, true},
		{"int8", Int8, `-12`, int64(-12)},
		{"int64 min", Int64, `-9223372036854775808`, int64(math.MinInt64)},
		{"uint16", Uint16, `65535`, uint64(65535)},
		{"float32", Float32, `1.5`, 1.5},
		{"float64 nan", Float64, `"NaN"`, math.NaN()},
		{"float64 inf", Float64, `"Infinity"`, math.Inf(1)},
		{"float64 -inf", Float64, `"-Infinity"`, math.Inf(-1)},
		{"float16 rounds", Float16, `1.0009765625`, 1.0009765625},
		{"complex", Complex128, `[1.5, -2]`, complex(1.5, -2)},
		{"complex nan im", Complex64, `[0, "NaN"]`, complex(0, math.NaN())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseFill(tt.typ, json.RawMessage(tt.lit))
			require.NoError(t, err)
			switch want := tt.want.(type) {
			case float64:
				got := v.Interface().(float64)
				if math.IsNaN(want) {
					require.True(t, math.IsNaN(got))
				} else {
					require.Equal(t, want, got)
				}
			case complex128:
				got := v.Interface().(complex128)
				if math.IsNaN(imag(want)) {
					require.True(t, math.IsNaN(imag(got)))
					require.Equal(t, real(want), real(got))
				} else {
					require.Equal(t, want, got)
				}
			default:
				require.Equal(t, tt.want, v.Interface())
			}
		})
	}

	t.Run("raw", func(t *testing.T) {
		v, err := ParseFill(Type("r24"), json.RawMessage(`[1, 2, 3]`))
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, v.Interface())
	})
}

func TestParseFill_Rejects(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		lit  string
	}{
		{"string for int", Int32, `"5"`},
		{"float for int", Int32, `1.5`},
		{"out of range int8", Int8, `128`},
		{"negative for uint", Uint32, `-1`},
		{"bool for float", Float64, `true`},
		{"bad float string", Float32, `"nan"`},
		{"short complex", Complex64, `[1.0]`},
		{"scalar for complex", Complex128, `3.0`},
		{"null", Float64, `null`},
		{"raw wrong length", Type("r16"), `[1, 2, 3]`},
		{"number for bool", Bool, `1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFill(tt.typ, json.RawMessage(tt.lit))
			var tm *TypeMismatchError
			require.ErrorAs(t, err, &tm)
			require.Equal(t, tt.typ, tm.Type)
		})
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	lits := map[Type]string{
		Bool:       `false`,
		Int16:      `-300`,
		Uint64:     `18446744073709551615`,
		Float32:    `0.25`,
		Float64:    `"NaN"`,
		Complex128: `[1,"Infinity"]`,
	}
	for typ, lit := range lits {
		t.Run(string(typ), func(t *testing.T) {
			v, err := ParseFill(typ, json.RawMessage(lit))
			require.NoError(t, err)
			out, err := json.Marshal(v)
			require.NoError(t, err)
			v2, err := ParseFill(typ, out)
			require.NoError(t, err)
			require.Equal(t, v.Encode(binary.LittleEndian), v2.Encode(binary.LittleEndian))
		})
	}
}

func TestScalarEncodeDecode(t *testing.T) {
	lits := map[Type]string{
		Bool:       `true`,
		Int8:       `-5`,
		Int32:      `-123456`,
		Uint16:     `40000`,
		Float16:    `0.5`,
		Float32:    `3.5`,
		Float64:    `-2.25`,
		Complex64:  `[1.5,2.5]`,
		Complex128: `[-1,"-Infinity"]`,
	}
	orders := map[string]binary.ByteOrder{"little": binary.LittleEndian, "big": binary.BigEndian}

	for typ, lit := range lits {
		for name, order := range orders {
			t.Run(string(typ)+" "+name, func(t *testing.T) {
				v, err := ParseFill(typ, json.RawMessage(lit))
				require.NoError(t, err)
				b := v.Encode(order)
				require.Len(t, b, typ.Size())
				back, err := Decode(typ, b, order)
				require.NoError(t, err)
				require.Equal(t, v.Interface(), back.Interface())
			})
		}
	}

	t.Run("endianness matters", func(t *testing.T) {
		v, err := ParseFill(Uint16, json.RawMessage(`1`))
		require.NoError(t, err)
		require.Equal(t, []byte{1, 0}, v.Encode(binary.LittleEndian))
		require.Equal(t, []byte{0, 1}, v.Encode(binary.BigEndian))
	})

	t.Run("short buffer", func(t *testing.T) {
		_, err := Decode(Float64, []byte{1, 2, 3}, binary.LittleEndian)
		require.Error(t, err)
	})
}

func TestDefaultFill(t *testing.T) {
	require.Equal(t, false, DefaultFill(Bool).Interface())
	require.Equal(t, int64(0), DefaultFill(Int32).Interface())
	require.Equal(t, 0.0, DefaultFill(Float64).Interface())
	require.Equal(t, complex(0, 0), DefaultFill(Complex64).Interface())
	require.Equal(t, []byte{0, 0}, DefaultFill(Type("r16")).Interface())
}
