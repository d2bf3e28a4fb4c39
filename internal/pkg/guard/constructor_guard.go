// Package guard provides a small defensive-programming helper that lets
// entities and value objects detect whether they were created through their
// designated constructor function instead of as a bare zero value.
//
// Embed a ConstructorGuard in a struct, set it with NewConstructorGuard inside
// the constructor, and call Validate in the type's own Validate method. A zero
// value of the struct then fails validation with a type-specific error.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded object
// was not constructed and no type-specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having passed through its constructor.
// The zero value is "not constructed".
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state. Call it only
// from inside a constructor function.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the object was properly constructed. Otherwise it
// returns validationError, or ErrDefaultConstructorGuard when validationError
// is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
