package clarg

import (
	"errors"
	"log/slog"
)

// NamedHandler tries to handle a token that starts with FlagMarker. flag is
// the token itself, already consumed from c. It returns false when the
// token is not its business.
type NamedHandler func(c *Cursor, flag string) (bool, error)

// PositionalHandler tries to handle a token that does not start with
// FlagMarker. token is already consumed from c.
type PositionalHandler func(c *Cursor, token string) (bool, error)

// CheckFunc runs after the token stream is exhausted.
type CheckFunc func(appName string) error

// Dispatcher is the parse loop. It classifies each token as named or
// positional and offers it to a chain of handlers, tried in the order they
// were added. The first named handler is the built-in help handler; with no
// other handlers a Dispatcher accepts only -h and --help.
//
// A Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	named      []NamedHandler
	positional []PositionalHandler
	inits      []func()
	checks     []CheckFunc
	showUsage  bool
	logger     *slog.Logger
}

// NewDispatcher returns a Dispatcher with only the help handler installed.
// A nil logger means slog.Default().
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{logger: logger}
	d.named = append(d.named, d.handleHelp)
	return d
}

// AddNamed appends h to the named-token chain.
func (d *Dispatcher) AddNamed(h NamedHandler) { d.named = append(d.named, h) }

// AddPositional appends h to the positional-token chain.
func (d *Dispatcher) AddPositional(h PositionalHandler) {
	d.positional = append(d.positional, h)
}

// OnInit registers fn to run at the start of every Parse.
func (d *Dispatcher) OnInit(fn func()) { d.inits = append(d.inits, fn) }

// OnCheck registers fn to run after the token stream is exhausted.
func (d *Dispatcher) OnCheck(fn CheckFunc) { d.checks = append(d.checks, fn) }

// ShowUsage reports whether the last Parse saw -h or --help.
func (d *Dispatcher) ShowUsage() bool { return d.showUsage }

// Parse runs one pass over argv (os.Args shaped). It stops at the first
// failure; destinations written before the failure keep their values.
func (d *Dispatcher) Parse(argv []string) error {
	c, err := NewCursor(argv)
	if err != nil {
		return err
	}

	d.showUsage = false
	for _, fn := range d.inits {
		fn()
	}
	d.logger.Debug("Parse started.", "app", c.AppName(), "tokens", c.Len())

	for c.Remaining() > 0 {
		tok, _ := c.Next("")
		if isNamed(tok) {
			err = d.dispatchNamed(c, tok)
		} else {
			err = d.dispatchPositional(c, tok)
		}
		if err != nil {
			d.logger.Debug("Parse failed.", "app", c.AppName(), "token", tok, "error", err)
			return err
		}
	}

	for _, check := range d.checks {
		if err := check(c.AppName()); err != nil {
			d.logger.Debug("Parse check failed.", "app", c.AppName(), "error", err)
			return typedCheckError(c.AppName(), err)
		}
	}

	d.logger.Debug("Parse finished.", "app", c.AppName(), "show_usage", d.showUsage)
	return nil
}

func (d *Dispatcher) dispatchNamed(c *Cursor, flag string) error {
	for _, h := range d.named {
		handled, err := h(c, flag)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return &ArgError{Kind: KindUnknownArgument, AppName: c.AppName(), Arg: flag}
}

func (d *Dispatcher) dispatchPositional(c *Cursor, token string) error {
	for _, h := range d.positional {
		handled, err := h(c, token)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return &ArgError{Kind: KindTooManyArguments, AppName: c.AppName()}
}

func (d *Dispatcher) handleHelp(_ *Cursor, flag string) (bool, error) {
	if flag == HelpFlagShort || flag == HelpFlagLong {
		d.showUsage = true
		return true, nil
	}
	return false, nil
}

// typedCheckError keeps ArgErrors as they are and wraps anything else so
// that every failure leaving Parse is an *ArgError.
func typedCheckError(appName string, err error) error {
	var ae *ArgError
	if errors.As(err, &ae) {
		return err
	}
	e := newIllegalValue(appName, "", "", err.Error())
	e.Err = err
	return e
}

func isNamed(tok string) bool {
	return tok != "" && tok[0] == FlagMarker
}
