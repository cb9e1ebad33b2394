package clarg

import "fmt"

// Action says what a binding does with the values it produces.
type Action int

const (
	ActionWrite  Action = iota // Overwrite a single value
	ActionAppend               // Append to an ordered list
	ActionInsert               // Insert into a set
	ActionCustom               // Caller-supplied handler
)

// String implements fmt.Stringer
func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "write"
	case ActionAppend:
		return "append"
	case ActionInsert:
		return "insert"
	case ActionCustom:
		return "custom"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// HandlerFunc consumes whatever it needs from c and writes the result into
// its destination. For named bindings token is the flag spelling; for
// positional bindings it is the positional token itself. Both are already
// consumed when the handler runs.
type HandlerFunc func(c *Cursor, token string) error

// Binding is the registered rule for one program option.
type Binding struct {
	Flag        string // Flag spelling; empty for positional bindings
	Description string // Human readable name
	Required    bool   // Must be satisfied at least once per parse
	Final       bool   // Positional only: consumes every remaining positional token
	Action      Action // What the handler does with its values

	handler HandlerFunc
	found   bool
}

// Arg describes an option to Bind, BindFunc and friends.
type Arg struct {
	Flag        string // Flag spelling; empty registers a positional binding
	Description string // Human readable name used in errors
	Required    bool   // Must be satisfied at least once per parse

	// Separator, when non-empty, splits the token and stores each piece.
	Separator string
	// AllowEmpty accepts an empty token when Separator is set.
	AllowEmpty bool
	// Final makes a BindFunc positional binding consume all remaining
	// positional tokens. Bind derives finality from the destination.
	Final bool
}

// IsPositional reports whether b is matched by position rather than flag.
func (b *Binding) IsPositional() bool { return b.Flag == "" }

// Found reports whether b was satisfied during the last parse.
func (b *Binding) Found() bool { return b.found }

// FullName is the display name used in error messages.
func (b *Binding) FullName() string {
	switch {
	case b.Flag != "" && b.Description != "":
		return fmt.Sprintf("%s (%s)", b.Description, b.Flag)
	case b.Description != "":
		return b.Description
	default:
		return b.Flag
	}
}

func newBinding(arg Arg, action Action, handler HandlerFunc) *Binding {
	return &Binding{
		Flag:        arg.Flag,
		Description: arg.Description,
		Required:    arg.Required,
		Action:      action,
		handler:     handler,
	}
}
