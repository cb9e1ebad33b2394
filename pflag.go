package clarg

import (
	"strings"

	"github.com/spf13/pflag"
)

// BindValue registers an option whose token is handed to v.Set. Values
// whose Type ends in "Slice" or "Array" are reported as ActionAppend.
func BindValue(r *Registry, arg Arg, v pflag.Value) error {
	if v == nil {
		return ErrNilDestination
	}
	return r.Register(newBinding(arg, pflagAction(v), setterHandler(arg.Flag == "", v.Set)))
}

// ImportFlagSet registers every flag of fs as a named option spelled
// "--name", plus "-x" when the flag has a shorthand. Values go through
// fs.Set, so fs records them as changed. Flags with a NoOptDefVal (bool
// flags, for instance) consume no token and are set to that value.
func ImportFlagSet(r *Registry, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		set := func(text string) error { return fs.Set(f.Name, text) }

		var handler HandlerFunc
		if f.NoOptDefVal != "" {
			handler = func(*Cursor, string) error {
				if err := set(f.NoOptDefVal); err != nil {
					return &FormatError{Value: f.NoOptDefVal, Details: err.Error()}
				}
				return nil
			}
		} else {
			handler = setterHandler(false, set)
		}

		spellings := []string{"--" + f.Name}
		if f.Shorthand != "" {
			spellings = append(spellings, "-"+f.Shorthand)
		}
		for _, flag := range spellings {
			arg := Arg{Flag: flag, Description: f.Usage}
			if err = r.Register(newBinding(arg, pflagAction(f.Value), handler)); err != nil {
				return
			}
		}
	})
	return err
}

func setterHandler(positional bool, set func(string) error) HandlerFunc {
	apply := func(c *Cursor, text string) error {
		if err := set(text); err != nil {
			c.PutBack()
			return &FormatError{Value: text, Details: err.Error()}
		}
		return nil
	}
	if positional {
		return apply
	}
	return func(c *Cursor, flag string) error {
		text, err := c.Next(flag)
		if err != nil {
			return err
		}
		return apply(c, text)
	}
}

func pflagAction(v pflag.Value) Action {
	t := v.Type()
	if strings.HasSuffix(t, "Slice") || strings.HasSuffix(t, "Array") {
		return ActionAppend
	}
	return ActionWrite
}
