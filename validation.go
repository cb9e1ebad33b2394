package clarg

import (
	"errors"
	"fmt"
)

// Validatable marks a struct bound with BindStruct as wanting a final say
// once a command line was parsed.
type Validatable interface {
	// Validate checks the fields of the struct and returns an error
	// if any of the fields are invalid.
	//
	// It expects the implementation to be a pointer. It is called after
	// every required option was found.
	Validate() error
}

// ValidationError is a Validate failure. Parse reports it as an
// IllegalValue *ArgError that unwraps to it.
type ValidationError struct {
	Err error
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("Failed to validate: %v", ve.Err)
}

// Unwrap returns the error from Validate.
func (ve *ValidationError) Unwrap() error { return ve.Err }

func validationCheck(v Validatable) CheckFunc {
	return func(appName string) error {
		err := v.Validate()
		if err == nil {
			return nil
		}
		var ae *ArgError
		if errors.As(err, &ae) {
			return err
		}
		e := newIllegalValue(appName, "", "", "")
		e.Err = &ValidationError{Err: err}
		e.Details = e.Err.Error()
		return e
	}
}
