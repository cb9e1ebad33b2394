package clarg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cursor walks the tokens of one command line. It is created fresh for
// every parse and exposes typed, constraint-checked extraction.
//
// Every extraction that consumes a token and then rejects it puts the token
// back before returning, so Current reports the offending token afterwards.
type Cursor struct {
	appName string
	tokens  []string
	pos     int
}

// NewCursor builds a Cursor from an os.Args shaped slice: argv[0] is the
// invocation name and the remaining elements are the token stream.
func NewCursor(argv []string) (*Cursor, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyAppName
	}
	tokens := make([]string, len(argv)-1)
	copy(tokens, argv[1:])
	return &Cursor{appName: argv[0], tokens: tokens}, nil
}

// AppName returns the invocation name.
func (c *Cursor) AppName() string { return c.appName }

// Len returns the number of tokens in the stream.
func (c *Cursor) Len() int { return len(c.tokens) }

// Position returns the index of the next token to be consumed.
func (c *Cursor) Position() int { return c.pos }

// Remaining returns the number of tokens not yet consumed.
func (c *Cursor) Remaining() int { return len(c.tokens) - c.pos }

// Current returns the next token without consuming it.
func (c *Cursor) Current(label string) (string, error) {
	if c.pos >= len(c.tokens) {
		return "", newValueMissing(c.appName, label)
	}
	return c.tokens[c.pos], nil
}

// Next consumes and returns the next token.
func (c *Cursor) Next(label string) (string, error) {
	if c.pos >= len(c.tokens) {
		return "", newValueMissing(c.appName, label)
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, nil
}

// PutBack steps back over the last consumed token. It does nothing at the
// start of the stream.
func (c *Cursor) PutBack() {
	if c.pos > 0 {
		c.pos--
	}
}

// NextAs consumes one token and converts it with convert. If convert fails
// the token is put back and the failure is returned as an IllegalValue
// *ArgError naming label.
func NextAs[T any](c *Cursor, label string, convert func(label, token string) (T, error)) (T, error) {
	var zero T
	tok, err := c.Next(label)
	if err != nil {
		return zero, err
	}

	v, err := convert(label, tok)
	if err != nil {
		c.PutBack()
		return zero, c.illegal(label, tok, err)
	}
	return v, nil
}

// illegal turns a conversion failure for tok into an *ArgError.
func (c *Cursor) illegal(label, tok string, err error) *ArgError {
	var ae *ArgError
	if errors.As(err, &ae) {
		return ae
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		value := fe.Value
		if value == "" {
			value = tok
		}
		return newIllegalValue(c.appName, label, value, fe.Details)
	}
	e := newIllegalValue(c.appName, label, tok, err.Error())
	e.Err = err
	return e
}

///////////////////////////////////////////////////////////////////////////////
// Numeric extraction
///////////////////////////////////////////////////////////////////////////////

const (
	mustBeInt   = "Must be an integer"
	mustBeUint  = "Must be a non-negative integer"
	mustBeFloat = "Must be a floating-point number"
)

// NextAsInt consumes one token as a base-10 signed integer.
func (c *Cursor) NextAsInt(label string) (int64, error) {
	return NextAs(c, label, func(_, tok string) (int64, error) {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, &FormatError{Value: tok, Details: mustBeInt}
		}
		return v, nil
	})
}

// NextAsUint consumes one token as a base-10 unsigned integer.
func (c *Cursor) NextAsUint(label string) (uint64, error) {
	return NextAs(c, label, func(_, tok string) (uint64, error) {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return 0, &FormatError{Value: tok, Details: mustBeUint}
		}
		return v, nil
	})
}

// NextAsFloat consumes one token as a floating-point number.
func (c *Cursor) NextAsFloat(label string) (float64, error) {
	return NextAs(c, label, func(_, tok string) (float64, error) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, &FormatError{Value: tok, Details: mustBeFloat}
		}
		return v, nil
	})
}

// NextAsIntInRange is NextAsInt restricted to [minValue, maxValue].
// Pass math.MinInt64 or math.MaxInt64 to leave a side open.
func (c *Cursor) NextAsIntInRange(label string, minValue, maxValue int64) (int64, error) {
	v, err := c.NextAsInt(label)
	if err != nil {
		return 0, err
	}
	if v < minValue || v > maxValue {
		c.PutBack()
		details := mustBeInt + boundPhrase(
			minValue != math.MinInt64, maxValue != math.MaxInt64,
			strconv.FormatInt(minValue, 10), strconv.FormatInt(maxValue, 10), "",
		)
		return 0, newIllegalValue(c.appName, label, c.tokens[c.pos], details)
	}
	return v, nil
}

// NextAsUintInRange is NextAsUint restricted to [minValue, maxValue].
// Pass 0 or math.MaxUint64 to leave a side open.
func (c *Cursor) NextAsUintInRange(label string, minValue, maxValue uint64) (uint64, error) {
	v, err := c.NextAsUint(label)
	if err != nil {
		return 0, err
	}
	if v < minValue || v > maxValue {
		c.PutBack()
		details := mustBeInt + boundPhrase(
			minValue != 0, maxValue != math.MaxUint64,
			strconv.FormatUint(minValue, 10), strconv.FormatUint(maxValue, 10), "",
		)
		return 0, newIllegalValue(c.appName, label, c.tokens[c.pos], details)
	}
	return v, nil
}

// NextAsFloatInRange is NextAsFloat restricted to [minValue, maxValue].
// Pass -math.MaxFloat64 or math.MaxFloat64 to leave a side open.
func (c *Cursor) NextAsFloatInRange(label string, minValue, maxValue float64) (float64, error) {
	v, err := c.NextAsFloat(label)
	if err != nil {
		return 0, err
	}
	// NaN compares false against both bounds and must fail.
	if !(v >= minValue && v <= maxValue) {
		c.PutBack()
		details := mustBeFloat + boundPhrase(
			minValue != -math.MaxFloat64, maxValue != math.MaxFloat64,
			strconv.FormatFloat(minValue, 'g', -1, 64), strconv.FormatFloat(maxValue, 'g', -1, 64),
			" inclusive",
		)
		return 0, newIllegalValue(c.appName, label, c.tokens[c.pos], details)
	}
	return v, nil
}

// NextInSet consumes one token that must be one of legal.
func (c *Cursor) NextInSet(label string, legal ...string) (string, error) {
	tok, err := c.Next(label)
	if err != nil {
		return "", err
	}
	for _, l := range legal {
		if tok == l {
			return tok, nil
		}
	}
	c.PutBack()
	details := fmt.Sprintf("Must be one of %s", quoteJoin(legal))
	return "", newIllegalValue(c.appName, label, tok, details)
}

// boundPhrase describes which of the bounds a value violated. hasMin and
// hasMax are false when the bound is the type's natural extreme.
func boundPhrase(hasMin, hasMax bool, minText, maxText, inclusive string) string {
	switch {
	case hasMin && hasMax:
		return " between " + minText + " and " + maxText + inclusive
	case hasMin:
		return " greater than or equal to " + minText
	case hasMax:
		return " less than or equal to " + maxText
	default:
		return ""
	}
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
