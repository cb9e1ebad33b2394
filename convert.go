package clarg

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	UUIDType     = reflect.TypeFor[uuid.UUID]()
	TimeType     = reflect.TypeFor[time.Time]()
	DurationType = reflect.TypeFor[time.Duration]()

	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// ErrUnsupportedType is returned when no conversion from text exists for a
// destination type.
var ErrUnsupportedType = errors.New("unsupported destination type")

const (
	mustBeComplex  = "Must be a complex number"
	mustBeBool     = "Must be true or false"
	mustBeDuration = "Must be a duration such as 1h30m"
	mustBeTime     = "Must be a timestamp such as 2006-01-02T15:04:05Z"
	mustBeUUID     = "Must be a UUID"
)

// timeLayouts are tried in order when converting to time.Time.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

///////////////////////////////////////////////////////////////////////////////
// Conversion
///////////////////////////////////////////////////////////////////////////////

// Set field value with type conversion
//
// Currently supports:
//   - string, []byte and empty interfaces (stored as string)
//   - all signed and unsigned integer kinds (with overflow checking)
//   - float32/float64 and complex64/complex128
//   - bool (true/false, 1/0, yes/no, on/off)
//   - time.Duration, time.Time and uuid.UUID
//   - encoding.TextUnmarshaler for custom types
//   - pointers to any of the above
//
// Failures are returned as *FormatError.
func setFieldValue(field reflect.Value, value string) error {
	// Special types first; several of them also satisfy TextUnmarshaler
	// but deserve a friendlier message.
	switch field.Type() {
	case DurationType:
		return setDurationValue(field, value)
	case TimeType:
		return setTimeValue(field, value)
	case UUIDType:
		return setUUIDValue(field, value)
	}

	if field.CanAddr() {
		if unmarshaler, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			if err := unmarshaler.UnmarshalText([]byte(value)); err != nil {
				return asFormatError(value, err)
			}
			return nil
		}
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setIntValue(field, value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return setUintValue(field, value)
	case reflect.Float32, reflect.Float64:
		return setFloatValue(field, value)
	case reflect.Complex64, reflect.Complex128:
		return setComplexValue(field, value)
	case reflect.Bool:
		return setBoolValue(field, value)
	case reflect.Slice:
		return setSliceValue(field, value)
	case reflect.Interface:
		return setInterfaceValue(field, value)
	case reflect.Pointer:
		return setPointerValue(field, value)
	default:
		return formatErrorf(value, "%v: %s", ErrUnsupportedType, field.Type())
	}
}

// canConvert reports whether setFieldValue supports t.
func canConvert(t reflect.Type) bool {
	switch t {
	case DurationType, TimeType, UUIDType:
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	case reflect.Interface:
		return t.NumMethod() == 0
	case reflect.Pointer:
		return canConvert(t.Elem())
	default:
		return false
	}
}

// setIntValue sets integer field values with overflow checking
func setIntValue(field reflect.Value, value string) error {
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return overflowError(field.Type(), value)
		}
		return &FormatError{Value: value, Details: mustBeInt}
	}

	if field.OverflowInt(intValue) {
		return overflowError(field.Type(), value)
	}

	field.SetInt(intValue)
	return nil
}

// setUintValue sets unsigned integer field values with overflow checking
func setUintValue(field reflect.Value, value string) error {
	uintValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return overflowError(field.Type(), value)
		}
		return &FormatError{Value: value, Details: mustBeUint}
	}

	if field.OverflowUint(uintValue) {
		return overflowError(field.Type(), value)
	}

	field.SetUint(uintValue)
	return nil
}

// setFloatValue sets float field values with overflow checking
func setFloatValue(field reflect.Value, value string) error {
	floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return overflowError(field.Type(), value)
		}
		return &FormatError{Value: value, Details: mustBeFloat}
	}

	if field.OverflowFloat(floatValue) {
		return overflowError(field.Type(), value)
	}

	field.SetFloat(floatValue)
	return nil
}

// setComplexValue sets complex field values
func setComplexValue(field reflect.Value, value string) error {
	complexValue, err := strconv.ParseComplex(value, field.Type().Bits())
	if err != nil {
		return &FormatError{Value: value, Details: mustBeComplex}
	}

	if field.OverflowComplex(complexValue) {
		return &FormatError{Value: value, Details: mustBeComplex}
	}

	field.SetComplex(complexValue)
	return nil
}

// setBoolValue sets boolean field values
//
// Many common boolean representations are supported:
//   - "true", "1", "yes", "on" (case insensitive)
//   - "false", "0", "no", "off" (case insensitive)
//   - Standard boolean parsing using strconv.ParseBool
func setBoolValue(field reflect.Value, value string) error {
	switch value {
	case "true", "1", "yes", "on", "True", "TRUE", "YES", "ON":
		field.SetBool(true)
		return nil
	case "false", "0", "no", "off", "False", "FALSE", "NO", "OFF":
		field.SetBool(false)
		return nil
	default:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return &FormatError{Value: value, Details: mustBeBool}
		}
		field.SetBool(boolValue)
		return nil
	}
}

func setDurationValue(field reflect.Value, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return &FormatError{Value: value, Details: mustBeDuration}
	}
	field.SetInt(int64(d))
	return nil
}

func setTimeValue(field reflect.Value, value string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			field.Set(reflect.ValueOf(t))
			return nil
		}
	}
	return &FormatError{Value: value, Details: mustBeTime}
}

func setUUIDValue(field reflect.Value, value string) error {
	id, err := uuid.Parse(value)
	if err != nil {
		return &FormatError{Value: value, Details: mustBeUUID}
	}
	field.Set(reflect.ValueOf(id))
	return nil
}

// setSliceValue sets []byte field values
func setSliceValue(field reflect.Value, value string) error {
	if field.Type().Elem().Kind() != reflect.Uint8 {
		return formatErrorf(value, "%v: %s", ErrUnsupportedType, field.Type())
	}
	field.SetBytes([]byte(value))
	return nil
}

// setInterfaceValue stores the raw text in an empty interface
func setInterfaceValue(field reflect.Value, value string) error {
	if field.NumMethod() != 0 {
		return formatErrorf(value, "%v: %s", ErrUnsupportedType, field.Type())
	}
	field.Set(reflect.ValueOf(value))
	return nil
}

// setPointerValue allocates a new element and converts into it. The field is
// left untouched on failure.
func setPointerValue(field reflect.Value, value string) error {
	elem := reflect.New(field.Type().Elem())
	if err := setFieldValue(elem.Elem(), value); err != nil {
		return err
	}
	field.Set(elem)
	return nil
}

func overflowError(t reflect.Type, value string) *FormatError {
	lo, hi := typeBounds(t)
	return &FormatError{Value: value, Details: rangeMessage(true, true, fmt.Sprint(lo), fmt.Sprint(hi))}
}

// typeBounds returns the smallest and largest values of a numeric type.
// Other types yield zero values.
func typeBounds(t reflect.Type) (lo, hi reflect.Value) {
	lo, hi = reflect.New(t).Elem(), reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		minInt := int64(-1) << (t.Bits() - 1)
		lo.SetInt(minInt)
		hi.SetInt(^minInt)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		hi.SetUint(^uint64(0) >> (64 - t.Bits()))
	case reflect.Float32:
		lo.SetFloat(-math.MaxFloat32)
		hi.SetFloat(math.MaxFloat32)
	case reflect.Float64:
		lo.SetFloat(-math.MaxFloat64)
		hi.SetFloat(math.MaxFloat64)
	}
	return lo, hi
}
