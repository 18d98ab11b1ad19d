package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/checker"
	jserrors "github.com/pjlast/jsserver/internal/errors"
)

// toDiagnostic converts an error from the checker's taxonomy into a
// protocol.Diagnostic, mapping loc.start.line - 1 onto the editor's 0-based
// line per the external-interfaces mapping rule. Errors that carry no
// source location (the occurs check's SelfReferenceError has none) are
// still reported, just without a pinpointed range. The message itself goes
// through jserrors.FromCheckerError so the editor and the CLI render the
// same categorised text for the same underlying failure.
func toDiagnostic(err error) protocol.Diagnostic {
	message := jserrors.FromCheckerError(err).Error()

	switch e := err.(type) {
	case *checker.UnboundError:
		return protocol.Diagnostic{
			Range:    toRange(e.Loc),
			Severity: protocol.DiagnosticSeverityError,
			Message:  message,
		}
	case *checker.InferenceError:
		return protocol.Diagnostic{
			Range:    toRange(e.Loc),
			Severity: protocol.DiagnosticSeverityError,
			Message:  message,
		}
	case *checker.UnsupportedError:
		return protocol.Diagnostic{
			Range:    toRange(e.Loc),
			Severity: protocol.DiagnosticSeverityWarning,
			Message:  message,
		}
	case *checker.UnionTooLargeError:
		return protocol.Diagnostic{
			Range:    toRange(e.Loc),
			Severity: protocol.DiagnosticSeverityWarning,
			Message:  message,
		}
	default:
		// checker.SelfReferenceError and anything else unrecognised: no
		// location to map.
		return protocol.Diagnostic{
			Severity: protocol.DiagnosticSeverityError,
			Message:  message,
		}
	}
}

func toRange(loc ast.SourceLocation) protocol.Range {
	if !loc.HasLocation() {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(loc.Start.Line - 1),
			Character: uint32(loc.Start.Column),
		},
		End: protocol.Position{
			Line:      uint32(loc.End.Line - 1),
			Character: uint32(loc.End.Column),
		},
	}
}
