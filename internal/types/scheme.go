package types

// Scheme is a type optionally quantified over a set of type variables
// (∀α₁...αₙ.τ). A Scheme with no Quantifiers is a bare monotype; only
// let-bound names ever carry a non-empty Quantifiers set — function
// parameters and assignable variables are always bare.
type Scheme struct {
	Quantifiers []string
	Type        *Type
}

// Bare wraps t as a non-generalised scheme.
func Bare(t *Type) *Scheme {
	return &Scheme{Type: t}
}

// IsBare reports whether the scheme quantifies over nothing.
func (s *Scheme) IsBare() bool {
	return len(s.Quantifiers) == 0
}

func schemeFreeVars(s *Scheme) map[string]struct{} {
	free := FreeVars(s.Type)
	for _, q := range s.Quantifiers {
		delete(free, q)
	}
	return free
}

func applyScheme(sub Substitution, s *Scheme) *Scheme {
	if len(sub) == 0 {
		return s
	}
	// Quantifier shadowing: a scheme's quantified variables are bound
	// locally, so the substitution must not rewrite them even if the
	// caller's substitution happens to mention the same names.
	local := sub
	for _, q := range s.Quantifiers {
		if _, shadowed := sub[q]; shadowed {
			local = make(Substitution, len(sub))
			for k, v := range sub {
				local[k] = v
			}
			for _, q2 := range s.Quantifiers {
				delete(local, q2)
			}
			break
		}
	}
	return &Scheme{Quantifiers: s.Quantifiers, Type: Apply(local, s.Type)}
}

// Environment is an immutable name → Scheme mapping. Extend never mutates
// the receiver: it returns a new environment that shadows only the one
// affected binding, sharing the rest of the chain with its parent. This
// guarantees sibling branches of an `if` never observe each other's
// bindings, since each branch extends the same parent independently.
type Environment struct {
	parent *Environment
	name   string
	scheme *Scheme
}

// NewEnvironment returns the empty environment.
func NewEnvironment() *Environment {
	return nil
}

// Extend returns a new environment identical to e except that name now maps
// to scheme.
func (e *Environment) Extend(name string, scheme *Scheme) *Environment {
	return &Environment{parent: e, name: name, scheme: scheme}
}

// Lookup walks the chain from most-recently-extended outward.
func (e *Environment) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if env.name == name {
			return env.scheme, true
		}
	}
	return nil, false
}

// EnvFreeVars is the union of free variables over every scheme reachable in
// the environment.
func EnvFreeVars(e *Environment) map[string]struct{} {
	free := make(map[string]struct{})
	for env := e; env != nil; env = env.parent {
		for v := range schemeFreeVars(env.scheme) {
			free[v] = struct{}{}
		}
	}
	return free
}

// ApplyEnv applies a substitution to every scheme in the environment,
// preserving its shadowing order.
func ApplyEnv(sub Substitution, e *Environment) *Environment {
	if e == nil || len(sub) == 0 {
		return e
	}
	return &Environment{
		parent: ApplyEnv(sub, e.parent),
		name:   e.name,
		scheme: applyScheme(sub, e.scheme),
	}
}

// Generalize quantifies t over every free variable it has that is not also
// free in env — the let-polymorphism step. If t closes over no such
// variables, the returned scheme is bare.
func Generalize(env *Environment, t *Type) *Scheme {
	free := FreeVars(t)
	envFree := EnvFreeVars(env)

	var quantifiers []string
	for v := range free {
		if _, inEnv := envFree[v]; !inEnv {
			quantifiers = append(quantifiers, v)
		}
	}
	return &Scheme{Quantifiers: quantifiers, Type: t}
}

// Instantiate allocates a fresh type variable for each of the scheme's
// quantifiers and substitutes them into its type, producing a monotype that
// can be used (and further constrained) independently of any other use of
// the same scheme. fresh is called once per quantifier, in order.
func Instantiate(s *Scheme, fresh func() *Type) *Type {
	if s.IsBare() {
		return s.Type
	}
	sub := make(Substitution, len(s.Quantifiers))
	for _, q := range s.Quantifiers {
		sub[q] = fresh()
	}
	return Apply(sub, s.Type)
}
