package clarg

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Custom type that implements TextUnmarshaler
type CustomTextType struct {
	Value string
}

func (c *CustomTextType) UnmarshalText(text []byte) error {
	if string(text) == "error" {
		return errors.New("custom error")
	}
	c.Value = "custom:" + string(text)
	return nil
}

type level int

func ptr[T any](v T) *T {
	return &v
}

// Helper function to create a reflect.Value from any type
func valueFromInterface(v any) reflect.Value {
	return reflect.ValueOf(v).Elem()
}

func TestSetFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		value   string
		want    any
		wantErr bool
	}{
		// String tests
		{"string_basic", ptr(""), "hello", "hello", false},
		{"string_empty", ptr("x"), "", "", false},

		// Integer tests
		{"int_basic", ptr(int(0)), "42", int(42), false},
		{"int_negative", ptr(int(0)), "-42", int(-42), false},
		{"int8_basic", ptr(int8(0)), "127", int8(127), false},
		{"int64_basic", ptr(int64(0)), "9223372036854775807", int64(9223372036854775807), false},
		{"int_overflow", ptr(int8(0)), "128", int8(0), true},
		{"int_invalid", ptr(int(0)), "abc", int(0), true},
		{"int_empty", ptr(int(0)), "", int(0), true},
		{"named_int", ptr(level(0)), "3", level(3), false},

		// Unsigned integer tests
		{"uint_basic", ptr(uint(0)), "42", uint(42), false},
		{"uint8_basic", ptr(uint8(0)), "255", uint8(255), false},
		{"uint64_basic", ptr(uint64(0)), "18446744073709551615", uint64(18446744073709551615), false},
		{"uint_overflow", ptr(uint8(0)), "256", uint8(0), true},
		{"uint_negative", ptr(uint(0)), "-1", uint(0), true},

		// Float tests
		{"float32_basic", ptr(float32(0)), "3.14", float32(3.14), false},
		{"float64_basic", ptr(float64(0)), "-0.5", float64(-0.5), false},
		{"float_overflow", ptr(float32(0)), "3.4028235e+39", float32(0), true},
		{"float_invalid", ptr(float64(0)), "abc", float64(0), true},

		// Complex tests
		{"complex64_basic", ptr(complex64(0)), "1+2i", complex64(1 + 2i), false},
		{"complex_invalid", ptr(complex128(0)), "abc", complex128(0), true},

		// Boolean tests
		{"bool_true", ptr(false), "true", true, false},
		{"bool_no", ptr(true), "no", false, false},
		{"bool_case_insensitive", ptr(false), "TRUE", true, false},
		{"bool_invalid", ptr(false), "maybe", false, true},

		// Slice tests
		{"slice_bytes", ptr([]byte{}), "hello", []byte("hello"), false},

		// Special types
		{"duration", ptr(time.Duration(0)), "1h30m", 90 * time.Minute, false},
		{"duration_invalid", ptr(time.Duration(0)), "90", time.Duration(0), true},
		{"uuid_valid", ptr(uuid.UUID{}), "550e8400-e29b-41d4-a716-446655440000", uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), false},
		{"uuid_invalid", ptr(uuid.UUID{}), "invalid-uuid", uuid.UUID{}, true},
		{"time_rfc3339", ptr(time.Time{}), "2023-01-01T00:00:00Z", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"time_date", ptr(time.Time{}), "2023-01-01", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"time_invalid", ptr(time.Time{}), "invalid-time", time.Time{}, true},

		// Interface tests
		{"interface_empty", ptr(any(nil)), "hello", "hello", false},

		// Pointer tests
		{"pointer_int", ptr((*int)(nil)), "7", ptr(7), false},

		// TextUnmarshaler tests
		{"custom_text_unmarshaler", ptr(CustomTextType{}), "test", CustomTextType{Value: "custom:test"}, false},
		{"custom_text_error", ptr(CustomTextType{}), "error", CustomTextType{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := valueFromInterface(tt.field)
			err := setFieldValue(field, tt.value)

			if tt.wantErr {
				var fe *FormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.value, fe.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, field.Interface())
		})
	}
}

func TestSetFieldValueMessages(t *testing.T) {
	tests := []struct {
		name  string
		field any
		value string
		want  string
	}{
		{"int", ptr(0), "abc", "Must be an integer"},
		{"uint", ptr(uint(0)), "abc", "Must be a non-negative integer"},
		{"float", ptr(0.0), "abc", "Must be a floating-point number"},
		{"int8_overflow", ptr(int8(0)), "128", "Value must be between -128 and 127 (inclusive)"},
		{"uint8_overflow", ptr(uint8(0)), "256", "Value must be between 0 and 255 (inclusive)"},
		{"uuid", ptr(uuid.UUID{}), "nope", "Must be a UUID"},
		{"text_unmarshaler", ptr(CustomTextType{}), "error", "custom error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setFieldValue(valueFromInterface(tt.field), tt.value)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.want, fe.Details)
		})
	}
}

func TestSetFieldValueUnsupported(t *testing.T) {
	err := setFieldValue(valueFromInterface(ptr(map[string]int{})), "a")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Details, ErrUnsupportedType.Error())
}

func TestCanConvert(t *testing.T) {
	supported := []reflect.Type{
		reflect.TypeFor[string](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[uintptr](),
		reflect.TypeFor[bool](),
		reflect.TypeFor[[]byte](),
		reflect.TypeFor[time.Duration](),
		reflect.TypeFor[uuid.UUID](),
		reflect.TypeFor[CustomTextType](),
		reflect.TypeFor[*float64](),
		reflect.TypeFor[any](),
	}
	for _, typ := range supported {
		assert.True(t, canConvert(typ), typ.String())
	}

	unsupported := []reflect.Type{
		reflect.TypeFor[[]int](),
		reflect.TypeFor[map[string]int](),
		reflect.TypeFor[struct{ A int }](),
		reflect.TypeFor[error](),
		reflect.TypeFor[chan int](),
	}
	for _, typ := range unsupported {
		assert.False(t, canConvert(typ), typ.String())
	}
}

func TestTypeBounds(t *testing.T) {
	lo, hi := typeBounds(reflect.TypeFor[int8]())
	assert.Equal(t, int8(-128), lo.Interface())
	assert.Equal(t, int8(127), hi.Interface())

	lo, hi = typeBounds(reflect.TypeFor[uint16]())
	assert.Equal(t, uint16(0), lo.Interface())
	assert.Equal(t, uint16(65535), hi.Interface())

	lo, hi = typeBounds(reflect.TypeFor[int64]())
	assert.Equal(t, int64(-9223372036854775808), lo.Interface())
	assert.Equal(t, int64(9223372036854775807), hi.Interface())

	_, hi = typeBounds(reflect.TypeFor[uint64]())
	assert.Equal(t, uint64(18446744073709551615), hi.Interface())
}
