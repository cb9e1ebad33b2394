package clarg

import "strings"

const valueIsEmpty = "Value is empty"

// Bind registers an option whose token is converted by format and stored
// in dest.
//
// A named option (arg.Flag set) consumes the token following its flag. A
// positional option uses the token it was dispatched with. When
// arg.Separator is set the token is split on it and every piece is
// converted and stored in turn; an empty token is rejected unless
// arg.AllowEmpty is set. Whatever the failure, the token is put back.
//
// Positional options with an Append or Insert destination and no separator
// are final: they take every remaining positional token.
func Bind[T any](r *Registry, arg Arg, format Formatter[T], dest Destination[T]) error {
	if format == nil {
		return ErrNilHandler
	}
	if dest == nil {
		return ErrNilDestination
	}

	action := dest.Action()
	b := newBinding(arg, action, valueHandler(arg, format, dest))
	if b.IsPositional() && arg.Separator == "" {
		b.Final = action == ActionAppend || action == ActionInsert
	}
	return r.Register(b)
}

// BindFunc registers an option handled entirely by fn. fn may consume any
// number of tokens from the cursor; it should put back whatever it
// consumed before failing. arg.Final is honoured for positional options.
func BindFunc(r *Registry, arg Arg, fn HandlerFunc) error {
	if fn == nil {
		return ErrNilHandler
	}
	b := newBinding(arg, ActionCustom, fn)
	b.Final = arg.Final
	return r.Register(b)
}

// Switch registers a named option that takes no value and sets *p to true
// when present.
func Switch(r *Registry, arg Arg, p *bool) error {
	if p == nil {
		return ErrNilDestination
	}
	if arg.Flag == "" {
		return ErrMalformedFlag
	}
	return r.Register(newBinding(arg, ActionWrite, func(*Cursor, string) error {
		*p = true
		return nil
	}))
}

func valueHandler[T any](arg Arg, format Formatter[T], dest Destination[T]) HandlerFunc {
	store := func(text string) error {
		if arg.Separator == "" {
			v, err := format.format(text)
			if err != nil {
				return err
			}
			dest.Put(v)
			return nil
		}
		return splitAndStore(text, arg.Separator, arg.AllowEmpty, format, dest)
	}

	if arg.Flag == "" {
		return func(c *Cursor, token string) error {
			if err := store(token); err != nil {
				c.PutBack()
				return err
			}
			return nil
		}
	}

	return func(c *Cursor, flag string) error {
		text, err := c.Next(flag)
		if err != nil {
			return err
		}
		if err := store(text); err != nil {
			c.PutBack()
			return err
		}
		return nil
	}
}

// splitAndStore stores each piece as it is converted, so pieces before a
// bad one stay in dest.
func splitAndStore[T any](text, sep string, allowEmpty bool, format Formatter[T], dest Destination[T]) error {
	if text == "" {
		if allowEmpty {
			return nil
		}
		return &FormatError{Details: valueIsEmpty}
	}
	for piece := range strings.SplitSeq(text, sep) {
		v, err := format.format(piece)
		if err != nil {
			return err
		}
		dest.Put(v)
	}
	return nil
}
