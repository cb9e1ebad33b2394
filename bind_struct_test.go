package clarg

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Common struct {
	Verbose bool `arg:"flag:'-v' help:'Verbose'"`
}

type serverOptions struct {
	Common

	Port    int              `arg:"flag:'-p,required' help:'Port' range:'1..65535'"`
	Mode    string           `arg:"flag:'--mode' choices:'fast|safe'"`
	Timeout time.Duration    `arg:"flag:'--timeout'"`
	Ratio   float64          `arg:"flag:'--ratio' range:'..1'"`
	Tags    Set[string]      `arg:"flag:'--tags' sep:','"`
	Hosts   []string         `arg:"flag:'--host'"`
	Levels  map[int]struct{} `arg:"flag:'--level' sep:',' choices:'1|2|3'"`
	Root    string           `arg:"pos:'root,required'"`
	Files   []string         `arg:"pos:'file' help:'Input files'"`

	ignored string
}

func TestBindStruct(t *testing.T) {
	r := newTestRegistry()
	var opts serverOptions
	require.NoError(t, BindStruct(r, &opts))

	err := r.Parse([]string{
		"app", "-v", "-p", "8080", "--mode", "safe", "--timeout", "2s", "--ratio", "0.5",
		"--tags", "a,b,a", "--host", "x", "--host", "y", "--level", "1,3", "/srv", "f1", "f2",
	})
	require.NoError(t, err)

	assert.True(t, opts.Verbose)
	assert.Equal(t, 8080, opts.Port)
	assert.Equal(t, "safe", opts.Mode)
	assert.Equal(t, 2*time.Second, opts.Timeout)
	assert.Equal(t, 0.5, opts.Ratio)
	assert.Equal(t, []string{"a", "b"}, Sorted(opts.Tags))
	assert.Equal(t, []string{"x", "y"}, opts.Hosts)
	assert.Equal(t, map[int]struct{}{1: {}, 3: {}}, opts.Levels)
	assert.Equal(t, "/srv", opts.Root)
	assert.Equal(t, []string{"f1", "f2"}, opts.Files)
	assert.Empty(t, opts.ignored)
}

func TestBindStructErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{
			name: "Range",
			argv: []string{"app", "-p", "0", "/srv"},
			want: `app: Illegal value "0" for command-line argument Port (-p) (Value must be between 1 and 65535 (inclusive))`,
		},
		{
			name: "OpenRange",
			argv: []string{"app", "-p", "1", "--ratio", "1.5", "/srv"},
			want: `app: Illegal value "1.5" for command-line argument --ratio (Value must be less than or equal to 1)`,
		},
		{
			name: "Choices",
			argv: []string{"app", "-p", "1", "--mode", "slow", "/srv"},
			want: `app: Illegal value "slow" for command-line argument --mode (Legal values are "fast", "safe")`,
		},
		{
			name: "ChoicesInSplit",
			argv: []string{"app", "-p", "1", "--level", "1,4", "/srv"},
			want: `app: Illegal value "4" for command-line argument --level (Legal values are 1, 2, 3)`,
		},
		{
			name: "Conversion",
			argv: []string{"app", "-p", "1", "--timeout", "soon", "/srv"},
			want: `app: Illegal value "soon" for command-line argument --timeout (Must be a duration such as 1h30m)`,
		},
		{
			name: "RequiredNamed",
			argv: []string{"app", "/srv"},
			want: "app: Port (-p) not specified.  Use -h for help.",
		},
		{
			name: "RequiredPositional",
			argv: []string{"app", "-p", "1"},
			want: "app: root not specified.  Use -h for help.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			var opts serverOptions
			require.NoError(t, BindStruct(r, &opts))
			assert.EqualError(t, r.Parse(tt.argv), tt.want)
		})
	}
}

func TestBindStructRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	var opts serverOptions
	require.NoError(t, BindStruct(r, &opts))

	var names []string
	for _, b := range r.Bindings() {
		names = append(names, b.FullName())
	}
	want := []string{"Verbose (-v)", "Port (-p)", "--mode", "--timeout", "--ratio", "--tags", "--host", "--level", "root", "Input files"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	files := r.Bindings()[len(want)-1]
	assert.True(t, files.Final)
	assert.Equal(t, ActionAppend, files.Action)
}

type validatedOptions struct {
	Min int `arg:"flag:'--min'"`
	Max int `arg:"flag:'--max'"`
}

var errMinAboveMax = errors.New("--min must not exceed --max")

func (o *validatedOptions) Validate() error {
	if o.Min > o.Max {
		return errMinAboveMax
	}
	return nil
}

func TestBindStructValidatable(t *testing.T) {
	r := newTestRegistry()
	var opts validatedOptions
	require.NoError(t, BindStruct(r, &opts))

	require.NoError(t, r.Parse([]string{"app", "--min", "1", "--max", "2"}))

	err := r.Parse([]string{"app", "--min", "3", "--max", "2"})
	assert.ErrorIs(t, err, ErrIllegalValue)
	assert.ErrorIs(t, err, errMinAboveMax)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.EqualError(t, err, "app: Illegal value on the command-line (Failed to validate: --min must not exceed --max)")
}

func TestBindStructDefinitionErrors(t *testing.T) {
	t.Run("NotAPointer", func(t *testing.T) {
		err := BindStruct(newTestRegistry(), serverOptions{})
		assert.ErrorIs(t, err, ErrInvalidStructDestination)
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := BindStruct(newTestRegistry(), (*serverOptions)(nil))
		assert.ErrorIs(t, err, ErrInvalidStructDestination)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		var dest struct {
			Ch chan int `arg:"flag:'-c'"`
		}
		assert.ErrorIs(t, BindStruct(newTestRegistry(), &dest), ErrUnsupportedType)
	})

	t.Run("RangeOnString", func(t *testing.T) {
		var dest struct {
			S string `arg:"flag:'-s' range:'a..z'"`
		}
		assert.ErrorIs(t, BindStruct(newTestRegistry(), &dest), ErrRangeOnNonNumeric)
	})

	t.Run("InvertedRange", func(t *testing.T) {
		var dest struct {
			N int `arg:"flag:'-n' range:'10..1'"`
		}
		assert.ErrorIs(t, BindStruct(newTestRegistry(), &dest), ErrInvalidBounds)
	})

	t.Run("BadChoice", func(t *testing.T) {
		var dest struct {
			N int `arg:"flag:'-n' choices:'1|two'"`
		}
		assert.ErrorIs(t, BindStruct(newTestRegistry(), &dest), ErrInvalidTagValue)
	})

	t.Run("UnexportedTagged", func(t *testing.T) {
		var dest struct {
			n int `arg:"flag:'-n'"`
		}
		_ = dest.n
		assert.ErrorIs(t, BindStruct(newTestRegistry(), &dest), ErrInvalidStructDestination)
	})

	t.Run("DuplicateFlag", func(t *testing.T) {
		var dest struct {
			A int `arg:"flag:'-n'"`
			B int `arg:"flag:'-n'"`
		}
		assert.ErrorIs(t, BindStruct(newTestRegistry(), &dest), ErrDuplicateFlag)
	})
}

func TestBindStructPlanIsCached(t *testing.T) {
	var a, b serverOptions
	require.NoError(t, BindStruct(newTestRegistry(), &a))

	plans, ok := structPlans.Get(reflect.TypeFor[serverOptions]())
	require.True(t, ok)
	assert.Len(t, plans, 10)

	// A second registry reuses the plan but writes into its own struct.
	r := newTestRegistry()
	require.NoError(t, BindStruct(r, &b))
	require.NoError(t, r.Parse([]string{"app", "-p", "22", "/"}))
	assert.Equal(t, 22, b.Port)
	assert.Zero(t, a.Port)
}
