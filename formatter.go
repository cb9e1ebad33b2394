package clarg

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Formatter turns the raw text of one token into a typed value. Failures
// should be *FormatError; anything else is wrapped into one using the
// error text as the details.
type Formatter[T any] func(text string) (T, error)

// Number is the set of types InRange, AtLeast and AtMost accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// format runs f and guarantees a *FormatError that names text on failure.
func (f Formatter[T]) format(text string) (T, error) {
	v, err := f(text)
	if err != nil {
		fe := *asFormatError(text, err)
		if fe.Value == "" {
			fe.Value = text
		}
		return v, &fe
	}
	return v, nil
}

///////////////////////////////////////////////////////////////////////////////
// Plain
///////////////////////////////////////////////////////////////////////////////

// As returns the plain Formatter for T. See setFieldValue for the supported
// types; anything else fails every conversion with ErrUnsupportedType.
func As[T any]() Formatter[T] {
	return func(text string) (T, error) {
		var v T
		if err := setFieldValue(reflect.ValueOf(&v).Elem(), text); err != nil {
			return v, err
		}
		return v, nil
	}
}

// Func adapts fn into a Formatter. Errors that are not *FormatError are
// reported with their text as the details.
func Func[T any](fn func(text string) (T, error)) Formatter[T] {
	return func(text string) (T, error) {
		v, err := fn(text)
		if err != nil {
			return v, asFormatError(text, err)
		}
		return v, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// Range
///////////////////////////////////////////////////////////////////////////////

// InRange accepts values in [minValue, maxValue]. Passing the natural
// extreme of T on either side leaves that side open. It panics if minValue
// is greater than maxValue.
func InRange[T Number](minValue, maxValue T) Formatter[T] {
	return Within(As[T](), minValue, maxValue)
}

// AtLeast accepts values greater than or equal to minValue.
func AtLeast[T Number](minValue T) Formatter[T] {
	_, hi := naturalBounds[T]()
	return InRange(minValue, hi)
}

// AtMost accepts values less than or equal to maxValue.
func AtMost[T Number](maxValue T) Formatter[T] {
	lo, _ := naturalBounds[T]()
	return InRange(lo, maxValue)
}

// Within restricts the values produced by f to [minValue, maxValue].
func Within[T Number](f Formatter[T], minValue, maxValue T) Formatter[T] {
	if minValue > maxValue {
		panic(fmt.Errorf("%w: %v > %v", ErrInvalidBounds, minValue, maxValue))
	}
	lo, hi := naturalBounds[T]()
	details := rangeMessage(minValue != lo, maxValue != hi, fmt.Sprint(minValue), fmt.Sprint(maxValue))

	return func(text string) (T, error) {
		v, err := f.format(text)
		if err != nil {
			return v, err
		}
		if !(v >= minValue && v <= maxValue) {
			return v, &FormatError{Value: text, Details: details}
		}
		return v, nil
	}
}

func naturalBounds[T Number]() (T, T) {
	lo, hi := typeBounds(reflect.TypeFor[T]())
	return lo.Interface().(T), hi.Interface().(T)
}

func rangeMessage(hasMin, hasMax bool, minText, maxText string) string {
	switch {
	case hasMin && hasMax:
		return "Value must be between " + minText + " and " + maxText + " (inclusive)"
	case hasMin:
		return "Value must be greater than or equal to " + minText
	case hasMax:
		return "Value must be less than or equal to " + maxText
	default:
		return ""
	}
}

///////////////////////////////////////////////////////////////////////////////
// Membership
///////////////////////////////////////////////////////////////////////////////

// OneOf accepts only the listed values. The error lists them in the order
// given here.
func OneOf[T comparable](legal ...T) Formatter[T] {
	return Among(As[T](), legal...)
}

// Among restricts the values produced by f to legal.
func Among[T comparable](f Formatter[T], legal ...T) Formatter[T] {
	allowed := NewSet(legal...)
	texts := make([]string, len(legal))
	for i, v := range legal {
		texts[i] = displayValue(v)
	}
	details := legalValuesMessage(texts)

	return func(text string) (T, error) {
		v, err := f.format(text)
		if err != nil {
			return v, err
		}
		if !allowed.Has(v) {
			var zero T
			return zero, &FormatError{Value: text, Details: details}
		}
		return v, nil
	}
}

// Mapped looks the text up in vm. Unknown keys fail with the list of legal
// keys in insertion order. A nil vm yields a nil Formatter, which Bind
// rejects with ErrNilHandler.
func Mapped[T any](vm *ValueMap[T]) Formatter[T] {
	if vm == nil {
		return nil
	}
	keys := vm.Keys()
	texts := make([]string, len(keys))
	for i, k := range keys {
		texts[i] = strconv.Quote(k)
	}
	details := legalValuesMessage(texts)

	return func(text string) (T, error) {
		v, ok := vm.Lookup(text)
		if !ok {
			return v, &FormatError{Value: text, Details: details}
		}
		return v, nil
	}
}

func legalValuesMessage(texts []string) string {
	return "Legal values are " + strings.Join(texts, ", ")
}

// displayValue renders v for an error message; strings are quoted.
func displayValue(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return strconv.Quote(rv.String())
	}
	return fmt.Sprint(v)
}
