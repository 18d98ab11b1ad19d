package types

import "fmt"

// MismatchError is raised by Unify when no substitution reconciles the two
// types. It carries both sides so a caller can build a located diagnostic
// from it (see checker.InferenceError).
type MismatchError struct {
	Want *Type
	Got  *Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want.String(), e.Got.String())
}

// SelfReferenceError is raised by varBind's occurs check: binding name to t
// would create an infinite type.
type SelfReferenceError struct {
	Var  string
	Type *Type
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("type contains a reference to itself: %s occurs in %s", e.Var, e.Type.String())
}

// Unify decides whether required — the declarative type, e.g. a parameter
// type or an assignment target — can accommodate provided — the observed
// type, e.g. a call argument or an assignment's right-hand side — and if so
// returns the most general substitution making that true. The direction
// matters for the Union rules (5, 6, 7 below) and for function arity
// (rule 4: only the required side's parameter list is truncated); everywhere
// else unification is symmetric. The occurs check runs unconditionally; callers
// that need to disable it (checker.Config.EnableOccursCheck) should call
// UnifyWithOccursCheck instead.
func Unify(required, provided *Type) (Substitution, error) {
	return unify(required, provided, true)
}

// UnifyWithOccursCheck is Unify with the occurs check's enablement left to
// the caller. Disabling it is a debugging escape hatch: it lets a
// pathological fixture run to completion instead of failing fast, at the
// cost of potentially producing an infinite type.
func UnifyWithOccursCheck(required, provided *Type, enableOccursCheck bool) (Substitution, error) {
	return unify(required, provided, enableOccursCheck)
}

func unify(required, provided *Type, occursCheck bool) (Substitution, error) {
	// Rule 1: Named ≡ Named.
	if required.Kind == KindNamed && provided.Kind == KindNamed {
		if required.Name == provided.Name {
			return Substitution{}, nil
		}
		return nil, &MismatchError{Want: required, Got: provided}
	}

	// Rules 2 & 3: a type variable on either side delegates to varBind.
	if required.Kind == KindVar {
		return varBind(required.Name, provided, occursCheck)
	}
	if provided.Kind == KindVar {
		return varBind(provided.Name, required, occursCheck)
	}

	// Rule 4: Function × Function, truncating the required side's
	// parameter list to the provided side's arity — this models a caller
	// supplying fewer arguments than the callee's formal arity; the
	// missing ones are checked separately against undefined at the call
	// site (see checker/expr.go's Call handling).
	if required.Kind == KindFunction && provided.Kind == KindFunction {
		return unifyFunctions(required, provided, occursCheck)
	}

	// Rule 5: Union(L) × Union(R), requires |R| <= |L|. Every member of R
	// must unify against the whole of L.
	if required.Kind == KindUnion && provided.Kind == KindUnion {
		return unifyUnionUnion(required, provided, occursCheck)
	}

	// Rule 6: Union(L) × T (non-union provided): some member of L must
	// unify with T.
	if required.Kind == KindUnion {
		return unifyUnionAny(required, provided, occursCheck)
	}

	// Rule 7: T × Union(R) (non-union required): every member of R must
	// unify with T. This is deliberately strict — assigning a possibly
	// number|string value into a number-typed slot fails.
	if provided.Kind == KindUnion {
		return unifyAnyUnion(required, provided, occursCheck)
	}

	// Rule 8: anything else fails.
	return nil, &MismatchError{Want: required, Got: provided}
}

func unifyFunctions(required, provided *Type, occursCheck bool) (Substitution, error) {
	n := len(provided.Params)
	params := required.Params
	if len(params) > n {
		params = params[:n]
	} else if len(params) < n {
		return nil, &MismatchError{Want: required, Got: provided}
	}

	sub := Substitution{}
	for i, want := range params {
		got := provided.Params[i]
		s, err := unify(Apply(sub, want), Apply(sub, got), occursCheck)
		if err != nil {
			return nil, err
		}
		sub = Compose(s, sub)
	}

	resultSub, err := unify(Apply(sub, required.Result), Apply(sub, provided.Result), occursCheck)
	if err != nil {
		return nil, err
	}
	return Compose(resultSub, sub), nil
}

func unifyUnionUnion(required, provided *Type, occursCheck bool) (Substitution, error) {
	if len(provided.Members) > len(required.Members) {
		return nil, &MismatchError{Want: required, Got: provided}
	}

	sub := Substitution{}
	for _, member := range provided.Members {
		s, err := unifyUnionAny(Apply(sub, required), Apply(sub, member), occursCheck)
		if err != nil {
			return nil, err
		}
		sub = Compose(s, sub)
	}
	return sub, nil
}

func unifyUnionAny(required, provided *Type, occursCheck bool) (Substitution, error) {
	for _, alt := range required.Members {
		if sub, err := unify(alt, provided, occursCheck); err == nil {
			return sub, nil
		}
	}
	return nil, &MismatchError{Want: required, Got: provided}
}

func unifyAnyUnion(required, provided *Type, occursCheck bool) (Substitution, error) {
	sub := Substitution{}
	for _, alt := range provided.Members {
		s, err := unify(Apply(sub, required), Apply(sub, alt), occursCheck)
		if err != nil {
			return nil, err
		}
		sub = Compose(s, sub)
	}
	return sub, nil
}

// varBind decides what, if anything, to bind a type variable named n to in
// order to unify it with t. occursCheck gates only the final, outermost
// self-reference check — the union self-reference loophole below is
// unconditional, since it is a deliberate soundness gap rather than a
// configurable safety net.
func varBind(n string, t *Type, occursCheck bool) (Substitution, error) {
	if t.Kind == KindVar && t.Name == n {
		return Substitution{}, nil
	}

	if t.Kind == KindUnion && unionContainsSelfReference(n, t) {
		// A pragmatic looseness: if some alternative inside the union
		// transitively mentions n, binding n to the whole union could be
		// unsound, but refusing it outright would make unions of
		// self-referential shape unusable. The binding is simply
		// suppressed and unification proceeds as if it had succeeded.
		return Substitution{}, nil
	}

	if occursCheck && Contains(n, t) {
		return nil, &SelfReferenceError{Var: n, Type: t}
	}

	return Substitution{n: t}, nil
}

func unionContainsSelfReference(n string, union *Type) bool {
	for _, m := range union.Members {
		if Contains(n, m) {
			return true
		}
	}
	return false
}
