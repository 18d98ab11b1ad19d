package types

// Substitution is a finite mapping from type-variable names to Types.
type Substitution map[string]*Type

// FreeVars returns the set of type-variable names occurring free in t.
// Named contributes nothing; a variable contributes itself.
func FreeVars(t *Type) map[string]struct{} {
	vars := make(map[string]struct{})
	collectFreeVars(t, vars)
	return vars
}

func collectFreeVars(t *Type, out map[string]struct{}) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KindVar:
		out[t.Name] = struct{}{}
	case KindFunction:
		for _, p := range t.Params {
			collectFreeVars(p, out)
		}
		collectFreeVars(t.Result, out)
	case KindUnion:
		for _, m := range t.Members {
			collectFreeVars(m, out)
		}
	}
}

// Apply rewrites every free occurrence of a variable in s's domain. Named
// types are returned unchanged; Function and Union recurse structurally.
func Apply(s Substitution, t *Type) *Type {
	if t == nil || len(s) == 0 {
		return t
	}
	switch t.Kind {
	case KindNamed:
		return t
	case KindVar:
		if replacement, ok := s[t.Name]; ok {
			return replacement
		}
		return t
	case KindFunction:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Apply(s, p)
		}
		return Function(params, Apply(s, t.Result))
	case KindUnion:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = Apply(s, m)
		}
		return Union(members...)
	default:
		return t
	}
}

// Compose returns the substitution equivalent to applying s2 then s1:
// apply(Compose(s1, s2), t) == apply(s1, apply(s2, t)) for every t, as long
// as s1 and s2 bind disjoint variables. When both bind the same variable,
// s1's binding wins, so that equation does not hold for that variable.
func Compose(s1, s2 Substitution) Substitution {
	result := make(Substitution, len(s1)+len(s2))
	for k, v := range s2 {
		result[k] = Apply(s1, v)
	}
	for k, v := range s1 {
		result[k] = v
	}
	return result
}
