package clarg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatDetails(t *testing.T, err error) string {
	t.Helper()
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	return fe.Details
}

func TestRangeFormatters(t *testing.T) {
	tests := []struct {
		name    string
		format  Formatter[int64]
		text    string
		details string
	}{
		{"Both", InRange[int64](-10, 10), "11", "Value must be between -10 and 10 (inclusive)"},
		{"AtLeast", AtLeast[int64](0), "-1", "Value must be greater than or equal to 0"},
		{"AtMost", AtMost[int64](5), "6", "Value must be less than or equal to 5"},
		{"OpenLowerViaInRange", InRange[int64](math.MinInt64, 5), "6", "Value must be less than or equal to 5"},
		{"NotANumber", InRange[int64](0, 1), "x", "Must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.format(tt.text)
			assert.Equal(t, tt.details, formatDetails(t, err))
		})
	}

	t.Run("Inclusive", func(t *testing.T) {
		f := InRange[int64](-10, 10)
		for _, text := range []string{"-10", "0", "10"} {
			_, err := f(text)
			assert.NoError(t, err, text)
		}
	})

	t.Run("Float", func(t *testing.T) {
		f := InRange(-0.5, 0.5)
		v, err := f("0.25")
		require.NoError(t, err)
		assert.Equal(t, 0.25, v)

		_, err = f("0.75")
		assert.Equal(t, "Value must be between -0.5 and 0.5 (inclusive)", formatDetails(t, err))

		_, err = AtLeast(1.5)("1")
		assert.Equal(t, "Value must be greater than or equal to 1.5", formatDetails(t, err))

		for _, text := range []string{"NaN", "nan"} {
			_, err = f(text)
			assert.Equal(t, "Value must be between -0.5 and 0.5 (inclusive)", formatDetails(t, err), text)
		}
	})

	t.Run("Unsigned", func(t *testing.T) {
		_, err := AtMost[uint8](3)("4")
		assert.Equal(t, "Value must be less than or equal to 3", formatDetails(t, err))

		_, err = AtMost[uint8](3)("300")
		assert.Equal(t, "Value must be between 0 and 255 (inclusive)", formatDetails(t, err))
	})

	t.Run("InvalidBounds", func(t *testing.T) {
		assert.PanicsWithError(t, "minimum is greater than maximum: 3 > 1", func() {
			InRange(3, 1)
		})
	})
}

func TestWithin(t *testing.T) {
	f := Within(Bytes(), 1024, 1<<20)

	v, err := f("64KiB")
	require.NoError(t, err)
	assert.Equal(t, uint64(64*1024), v)

	_, err = f("2MiB")
	assert.Equal(t, "Value must be between 1024 and 1048576 (inclusive)", formatDetails(t, err))
}

func TestMembershipFormatters(t *testing.T) {
	t.Run("KeepsCallerOrder", func(t *testing.T) {
		_, err := OneOf(30, 10, 20)("11")
		assert.Equal(t, "Legal values are 30, 10, 20", formatDetails(t, err))
	})

	t.Run("QuotesStrings", func(t *testing.T) {
		_, err := OneOf("b", "a")("c")
		assert.Equal(t, `Legal values are "b", "a"`, formatDetails(t, err))
	})

	t.Run("Among", func(t *testing.T) {
		f := Among(InRange(0, 100), 0, 50, 100)
		v, err := f("50")
		require.NoError(t, err)
		assert.Equal(t, 50, v)

		_, err = f("150")
		assert.Equal(t, "Value must be between 0 and 100 (inclusive)", formatDetails(t, err))

		_, err = f("51")
		assert.Equal(t, "Legal values are 0, 50, 100", formatDetails(t, err))
	})
}

func TestFormatterFormat(t *testing.T) {
	f := Func(func(string) (int, error) { return 0, &FormatError{Details: "nope"} })
	_, err := f.format("abc")

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "abc", fe.Value, "format fills in the offending text")
	assert.EqualError(t, err, `Formatting error for "abc" (nope)`)
}

func TestNaturalBounds(t *testing.T) {
	lo, hi := naturalBounds[int32]()
	assert.Equal(t, int32(math.MinInt32), lo)
	assert.Equal(t, int32(math.MaxInt32), hi)

	flo, fhi := naturalBounds[float64]()
	assert.Equal(t, -math.MaxFloat64, flo)
	assert.Equal(t, math.MaxFloat64, fhi)
}
