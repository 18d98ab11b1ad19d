// Package types implements the type algebra at the heart of the checker:
// monotypes, the substitutions that rewrite them, type schemes, and the
// environment that maps names to schemes. Package checker builds on top of
// this to walk the expression tree; this package never imports it.
package types

import "strings"

// Kind discriminates the four monotype shapes the checker understands.
type Kind int

const (
	KindNamed Kind = iota
	KindVar
	KindFunction
	KindUnion
)

// Type is a monotype: a nominal name, a type variable, a function arrow, or
// a union of alternatives. Which fields are meaningful depends on Kind.
type Type struct {
	Kind Kind

	// KindNamed / KindVar
	Name string

	// KindFunction
	Params []*Type
	Result *Type

	// KindUnion — an ordered, non-deduplicated list of alternatives.
	Members []*Type
}

// Built-in nominal primitives. Equality between Named types is by name, so
// these constructors are just convenience — two separately-built
// Named("number") values are equal.
var (
	Number    = Named("number")
	String    = Named("string")
	Boolean   = Named("boolean")
	Null      = Named("null")
	Undefined = Named("undefined")
)

// Named constructs a nominal primitive type.
func Named(name string) *Type {
	return &Type{Kind: KindNamed, Name: name}
}

// Var constructs a type variable. Fresh names are minted by
// checker.Context.Fresh, never by this package directly.
func Var(name string) *Type {
	return &Type{Kind: KindVar, Name: name}
}

// Function constructs a function type with the given parameter types and
// result type. Arity is significant: Function([]Type{a}, r) is not the same
// type as Function([]Type{a, b}, r).
func Function(params []*Type, result *Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Result: result}
}

// Union constructs a union of the given alternatives. The slice is kept
// exactly as given — not deduplicated, not flattened — per the data model's
// construction rule; callers that want a singleton collapsed do it
// themselves (see checker/block.go, which does this when a branch union
// turns out to have one member).
func Union(members ...*Type) *Type {
	return &Type{Kind: KindUnion, Members: members}
}

// String renders a type using the checker's pretty-print grammar: Named and
// Var render as their name, Union as "A | B | C", Function as "(A, B) => R".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindNamed, KindVar:
		return t.Name
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ") => " + t.Result.String()
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	default:
		return "<invalid type>"
	}
}

// Equal reports structural equality. Function arity matters; Union members
// are compared as an ordered list of equal length with pairwise-equal
// members (the data model treats unions as multisets up to element
// equality, but in practice callers only ever compare unions built from the
// same construction path, so this ordered comparison is what's needed — see
// checker/block.go's branch-dedup use).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNamed, KindVar:
		return a.Name == b.Name
	case KindFunction:
		if len(a.Params) != len(b.Params) || !Equal(a.Result, b.Result) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	case KindUnion:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if !Equal(a.Members[i], b.Members[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Contains reports whether name occurs free anywhere within t — used by the
// unifier's occurs check and, transitively, by the Union self-reference
// loophole in varBind.
func Contains(name string, t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindVar:
		return t.Name == name
	case KindFunction:
		for _, p := range t.Params {
			if Contains(name, p) {
				return true
			}
		}
		return Contains(name, t.Result)
	case KindUnion:
		for _, m := range t.Members {
			if Contains(name, m) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
