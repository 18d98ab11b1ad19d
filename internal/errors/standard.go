// Package errors provides standardized, categorised error reporting for the
// CLI and language-server layers. The inference engine in internal/checker
// never imports this package: it returns its own typed errors and leaves
// presentation to whichever collaborator is driving it.
package errors

import (
	"fmt"
	"runtime"

	"github.com/pjlast/jsserver/internal/checker"
)

// ErrorCategory classifies a StandardError for consistent rendering across
// the CLI and the language server.
type ErrorCategory string

const (
	CategoryUnbound       ErrorCategory = "UNBOUND"
	CategoryMismatch      ErrorCategory = "MISMATCH"
	CategorySelfReference ErrorCategory = "SELF_REFERENCE"
	CategoryUnsupported   ErrorCategory = "UNSUPPORTED"
	CategoryUnionTooLarge ErrorCategory = "UNION_TOO_LARGE"
	CategoryIO            ErrorCategory = "IO"
)

// StandardError provides a consistent error format.
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error, recording the name of
// its immediate caller for diagnostics.
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Unbound wraps a checker.UnboundError for CLI/LSP presentation.
func Unbound(name string) *StandardError {
	return NewStandardError(CategoryUnbound, "UNBOUND_NAME",
		fmt.Sprintf("%q is not defined", name),
		map[string]interface{}{"name": name})
}

// Mismatch wraps a checker.InferenceError for CLI/LSP presentation.
func Mismatch(want, got string) *StandardError {
	return NewStandardError(CategoryMismatch, "TYPE_MISMATCH",
		fmt.Sprintf("expected %s, found %s", want, got),
		map[string]interface{}{"want": want, "got": got})
}

// SelfReference wraps a checker.SelfReferenceError for CLI/LSP presentation.
func SelfReference(varName, typ string) *StandardError {
	return NewStandardError(CategorySelfReference, "SELF_REFERENCE",
		fmt.Sprintf("%s occurs in %s", varName, typ),
		map[string]interface{}{"var": varName, "type": typ})
}

// Unsupported wraps a checker.UnsupportedError for CLI/LSP presentation.
func Unsupported(what string) *StandardError {
	return NewStandardError(CategoryUnsupported, "UNSUPPORTED",
		what,
		map[string]interface{}{"what": what})
}

// UnionTooLarge wraps a checker.UnionTooLargeError for CLI/LSP presentation.
func UnionTooLarge(size, max int) *StandardError {
	return NewStandardError(CategoryUnionTooLarge, "UNION_TOO_LARGE",
		fmt.Sprintf("union accumulated %d alternatives, exceeding the configured maximum of %d", size, max),
		map[string]interface{}{"size": size, "max": max})
}

// IO reports a CLI-level failure unrelated to inference, such as an
// unreadable fixture file.
func IO(operation string, err error) *StandardError {
	return NewStandardError(CategoryIO, "IO_FAILURE",
		fmt.Sprintf("%s: %v", operation, err),
		map[string]interface{}{"operation": operation})
}

// FromCheckerError classifies an error returned by internal/checker into a
// StandardError, so the CLI and LSP layers have one place that understands
// the engine's taxonomy instead of each re-deriving it.
func FromCheckerError(err error) *StandardError {
	switch e := err.(type) {
	case *checker.UnboundError:
		return Unbound(e.Name)
	case *checker.InferenceError:
		return Mismatch(e.Want.String(), e.Got.String())
	case *checker.SelfReferenceError:
		return SelfReference(e.Var, e.Type.String())
	case *checker.UnsupportedError:
		return Unsupported(e.What)
	case *checker.UnionTooLargeError:
		return UnionTooLarge(e.Size, e.Max)
	default:
		return NewStandardError(CategoryIO, "UNKNOWN", err.Error(), nil)
	}
}
