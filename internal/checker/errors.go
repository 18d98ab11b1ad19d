package checker

import (
	"fmt"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/types"
)

// UnboundError is raised when a Var or Assign refers to a name not present
// in the environment. It is fatal and propagates to the caller uncaught.
type UnboundError struct {
	Name string
	Loc  ast.SourceLocation
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("unbound name %q", e.Name)
}

// InferenceError is a TypeMismatch re-thrown after being enriched with the
// source location of the expression that caused it. This is the form in
// which a type mismatch reaches the language-server interface.
type InferenceError struct {
	Want *types.Type
	Got  *types.Type
	Loc  ast.SourceLocation
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want.String(), e.Got.String())
}

func (e *InferenceError) Unwrap() error {
	return &types.MismatchError{Want: e.Want, Got: e.Got}
}

// newInferenceError upgrades err into an *InferenceError tagged with loc if
// err is itself a *types.MismatchError (wrapped errors are not unwrapped);
// any other error is returned
// unchanged so it keeps propagating uncaught per the taxonomy's policy.
func newInferenceError(err error, loc ast.SourceLocation) error {
	if mismatch, ok := err.(*types.MismatchError); ok {
		return &InferenceError{Want: mismatch.Want, Got: mismatch.Got, Loc: loc}
	}
	return err
}

// SelfReferenceError is raised by the unifier's occurs check when binding a
// variable would create a cyclic type outside a Union. It re-exports
// types.SelfReferenceError under the checker's own taxonomy name so callers
// never need to import internal/types to recognise it.
type SelfReferenceError = types.SelfReferenceError

// UnsupportedError reports a construct the engine recognises but declines
// to type: operators other than + and ===, and Assign whose target carries
// a Forall scheme.
type UnsupportedError struct {
	What string
	Loc  ast.SourceLocation
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported: %s", e.What)
}

// UnionTooLargeError is raised when a block or if branch union would
// accumulate more alternatives than Config.MaxUnionSize allows.
type UnionTooLargeError struct {
	Size int
	Max  int
	Loc  ast.SourceLocation
}

func (e *UnionTooLargeError) Error() string {
	return fmt.Sprintf("union accumulated %d alternatives, exceeding the configured maximum of %d", e.Size, e.Max)
}
