// Package guard implements the constructor-guard pattern: a small flag
// embedded in value objects and commands that distinguishes instances built
// through their constructor from zero values, so validation can reject the
// latter.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded
// object was not built through its constructor and no specific error was
// supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. The zero value
// fails validation; NewConstructorGuard produces a passing one.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking its holder as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
