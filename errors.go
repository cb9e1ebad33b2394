package clarg

import (
	"errors"
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Construction Errors
///////////////////////////////////////////////////////////////////////////////

// Errors returned while an argument definition is being built. These are
// programmer errors and are never produced by Parse.
var (
	ErrEmptyAppName         = errors.New("invocation name must not be empty")
	ErrMalformedFlag        = errors.New("named arguments must begin with a '-'")
	ErrReservedFlag         = errors.New("flag is reserved for the built-in help handler")
	ErrDuplicateFlag        = errors.New("argument already has a handler registered for it")
	ErrPositionalAfterFinal = errors.New("previous positional binding accepts any number of arguments, so no further positional bindings are allowed")
	ErrFinalNamed           = errors.New("only positional bindings can be final")
	ErrNilHandler           = errors.New("binding has no handler")
	ErrNilDestination       = errors.New("binding has no destination")
	ErrDuplicateKey         = errors.New("value map already has a value for key")
	ErrInvalidBounds        = errors.New("minimum is greater than maximum")
	ErrMalformedValueMap    = errors.New("value map source must be a single object of keys to values")
)

///////////////////////////////////////////////////////////////////////////////
// Parse Errors
///////////////////////////////////////////////////////////////////////////////

// Kind classifies an ArgError.
type Kind int

const (
	KindValueMissing Kind = iota + 1
	KindIllegalValue
	KindUnknownArgument
	KindTooManyArguments
	KindRequiredArgumentMissing
)

// Sentinels matched by errors.Is against any *ArgError of the same Kind.
var (
	ErrValueMissing            = errors.New("value missing")
	ErrIllegalValue            = errors.New("illegal value")
	ErrUnknownArgument         = errors.New("unknown argument")
	ErrTooManyArguments        = errors.New("too many arguments")
	ErrRequiredArgumentMissing = errors.New("required argument missing")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValueMissing:
		return ErrValueMissing
	case KindIllegalValue:
		return ErrIllegalValue
	case KindUnknownArgument:
		return ErrUnknownArgument
	case KindTooManyArguments:
		return ErrTooManyArguments
	case KindRequiredArgumentMissing:
		return ErrRequiredArgumentMissing
	default:
		return nil
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ArgError is the user-facing error produced while parsing a command line.
//
// Error() is already formatted for display as "appName: detail", so callers
// can print it verbatim and exit.
type ArgError struct {
	Kind    Kind   // What went wrong
	AppName string // Invocation name (argv[0])
	Arg     string // Display name of the argument, if known
	Value   string // Offending raw text, if any
	Details string // Human-readable reason
	Err     error  // Underlying cause, if the failure came from foreign code
}

// Error implements the error interface
func (e *ArgError) Error() string {
	var msg strings.Builder
	if e.AppName != "" {
		msg.WriteString(e.AppName)
		msg.WriteString(": ")
	}
	msg.WriteString(e.detail())
	return msg.String()
}

func (e *ArgError) detail() string {
	switch e.Kind {
	case KindValueMissing:
		if e.Arg != "" {
			return "Value missing for " + e.Arg
		}
		return "Required value missing on the command-line"

	case KindIllegalValue:
		var msg strings.Builder
		msg.WriteString("Illegal value")
		if e.Value != "" {
			fmt.Fprintf(&msg, " %q", e.Value)
		}
		if e.Arg != "" {
			msg.WriteString(" for command-line argument ")
			msg.WriteString(e.Arg)
		} else {
			msg.WriteString(" on the command-line")
		}
		if e.Details != "" {
			fmt.Fprintf(&msg, " (%s)", e.Details)
		}
		return msg.String()

	case KindUnknownArgument:
		if e.Arg != "" {
			return "Unknown command-line argument " + e.Arg
		}
		return "Unknown command-line argument"

	case KindTooManyArguments:
		return "Too many command-line arguments"

	case KindRequiredArgumentMissing:
		return e.Arg + " not specified.  Use -h for help."

	default:
		if e.Details != "" {
			return e.Details
		}
		return "Error parsing command-line arguments"
	}
}

// Is reports whether target is the sentinel for e's Kind.
func (e *ArgError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Unwrap returns the underlying cause, if any.
func (e *ArgError) Unwrap() error {
	return e.Err
}

// relabel returns a copy of e naming arg. Used when a cursor error raised
// inside a handler leaves the registry, so the binding's display name is
// attached without nesting another error around it.
func (e *ArgError) relabel(arg string) *ArgError {
	c := *e
	c.Arg = arg
	return &c
}

func newValueMissing(appName, arg string) *ArgError {
	return &ArgError{Kind: KindValueMissing, AppName: appName, Arg: arg}
}

func newIllegalValue(appName, arg, value, details string) *ArgError {
	return &ArgError{
		Kind:    KindIllegalValue,
		AppName: appName,
		Arg:     arg,
		Value:   value,
		Details: details,
	}
}

///////////////////////////////////////////////////////////////////////////////
// FormatError
///////////////////////////////////////////////////////////////////////////////

// FormatError is returned by formatters when raw text cannot become a typed
// value. It does not know which argument it belongs to; the registry turns
// it into an IllegalValue ArgError carrying the binding's display name.
type FormatError struct {
	Value   string // Offending text
	Details string // Why it was rejected
}

// Error implements the error interface
func (e *FormatError) Error() string {
	var msg strings.Builder
	msg.WriteString("Formatting error")
	if e.Value != "" {
		fmt.Fprintf(&msg, " for %q", e.Value)
	}
	if e.Details != "" {
		fmt.Fprintf(&msg, " (%s)", e.Details)
	}
	return msg.String()
}

func formatErrorf(value, format string, args ...any) *FormatError {
	return &FormatError{Value: value, Details: fmt.Sprintf(format, args...)}
}

// asFormatError normalises err into a *FormatError for value, keeping an
// existing FormatError untouched.
func asFormatError(value string, err error) *FormatError {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe
	}
	return &FormatError{Value: value, Details: err.Error()}
}
