package clarg

import (
	"errors"
	"fmt"
	"log/slog"
)

// Registry owns the bindings of one argument definition and drives the
// Dispatcher with them.
//
// Bindings are registered once, before any Parse. Every Parse resets the
// found state of all bindings, so a Registry can parse many command lines
// in sequence. It must not be used from several goroutines at once.
type Registry struct {
	*Dispatcher

	named      map[string]*Binding
	namedOrder []*Binding
	positional []*Binding
	nextPos    int
}

// Options configure a Registry.
type Options struct {
	// Logger receives debug records about dispatch. Nil means slog.Default().
	Logger *slog.Logger
	// Init runs at the start of every Parse, after found state is reset.
	Init func()
	// Check runs after all required bindings were found.
	Check CheckFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		Dispatcher: NewDispatcher(logger),
		named:      make(map[string]*Binding),
	}

	r.OnInit(r.reset)
	r.AddNamed(r.handleNamed)
	r.AddPositional(r.handlePositional)
	r.OnCheck(r.checkRequired)

	if opts.Init != nil {
		r.OnInit(opts.Init)
	}
	if opts.Check != nil {
		r.OnCheck(opts.Check)
	}
	return r
}

// Register adds b to the registry. Flag spellings must start with
// FlagMarker and be unique; no positional binding may follow a final one.
func (r *Registry) Register(b *Binding) error {
	if b == nil || b.handler == nil {
		return ErrNilHandler
	}

	if b.IsPositional() {
		if n := len(r.positional); n > 0 && r.positional[n-1].Final {
			return fmt.Errorf("%w: %s", ErrPositionalAfterFinal, b.FullName())
		}
		r.positional = append(r.positional, b)
		return nil
	}

	switch {
	case b.Flag[0] != FlagMarker:
		return fmt.Errorf("%w: %q", ErrMalformedFlag, b.Flag)
	case b.Flag == HelpFlagShort || b.Flag == HelpFlagLong:
		return fmt.Errorf("%w: %q", ErrReservedFlag, b.Flag)
	case b.Final:
		return fmt.Errorf("%w: %q", ErrFinalNamed, b.Flag)
	}
	if _, exists := r.named[b.Flag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFlag, b.Flag)
	}

	r.named[b.Flag] = b
	r.namedOrder = append(r.namedOrder, b)
	return nil
}

// Named returns the binding registered for flag.
func (r *Registry) Named(flag string) (*Binding, bool) {
	b, ok := r.named[flag]
	return b, ok
}

// Bindings returns named bindings in registration order followed by
// positional bindings in consumption order. Intended for usage rendering.
func (r *Registry) Bindings() []*Binding {
	out := make([]*Binding, 0, len(r.namedOrder)+len(r.positional))
	out = append(out, r.namedOrder...)
	return append(out, r.positional...)
}

func (r *Registry) reset() {
	for _, b := range r.namedOrder {
		b.found = false
	}
	for _, b := range r.positional {
		b.found = false
	}
	r.nextPos = 0
}

func (r *Registry) handleNamed(c *Cursor, flag string) (bool, error) {
	b, ok := r.named[flag]
	if !ok {
		return false, nil
	}
	r.logger.Debug("Dispatching named argument.", "flag", flag, "binding", b.FullName())
	if err := r.invoke(b, c, flag); err != nil {
		return true, err
	}
	return true, nil
}

func (r *Registry) handlePositional(c *Cursor, token string) (bool, error) {
	if r.nextPos >= len(r.positional) {
		return false, nil
	}
	b := r.positional[r.nextPos]
	r.logger.Debug("Dispatching positional argument.", "index", r.nextPos, "binding", b.FullName())
	if err := r.invoke(b, c, token); err != nil {
		return true, err
	}
	if !b.Final {
		r.nextPos++
	}
	return true, nil
}

// invoke runs b's handler and translates its failure, attaching b's display
// name exactly once.
func (r *Registry) invoke(b *Binding, c *Cursor, token string) error {
	err := b.handler(c, token)
	if err == nil {
		b.found = true
		return nil
	}

	var ae *ArgError
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindIllegalValue, KindValueMissing:
			return ae.relabel(b.FullName())
		default:
			return ae
		}
	}

	var fe *FormatError
	if errors.As(err, &fe) {
		return newIllegalValue(c.AppName(), b.FullName(), fe.Value, fe.Details)
	}

	e := newIllegalValue(c.AppName(), b.FullName(), "", err.Error())
	e.Err = err
	return e
}

func (r *Registry) checkRequired(appName string) error {
	for _, b := range r.namedOrder {
		if b.Required && !b.found {
			return &ArgError{Kind: KindRequiredArgumentMissing, AppName: appName, Arg: b.FullName()}
		}
	}
	for _, b := range r.positional[r.nextPos:] {
		if b.Required && !b.found {
			return &ArgError{Kind: KindRequiredArgumentMissing, AppName: appName, Arg: b.FullName()}
		}
	}
	return nil
}
