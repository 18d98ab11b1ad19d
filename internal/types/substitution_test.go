package types

import "testing"

// TestComposeSoundness checks the universal property that composition and
// application commute: apply(compose(s1, s2), t) == apply(s1, apply(s2, t)).
func TestComposeSoundness(t *testing.T) {
	s1 := Substitution{"a": Number}
	s2 := Substitution{"b": Var("a")}

	cases := []*Type{
		Var("a"),
		Var("b"),
		Var("c"),
		Function([]*Type{Var("b")}, Var("a")),
		Union(Var("a"), Var("b"), String),
	}

	composed := Compose(s1, s2)
	for _, typ := range cases {
		got := Apply(composed, typ)
		want := Apply(s1, Apply(s2, typ))
		if !Equal(got, want) {
			t.Errorf("Apply(Compose(s1,s2), %s) = %s, want %s", typ, got, want)
		}
	}
}

func TestComposeConflictS1Wins(t *testing.T) {
	s1 := Substitution{"a": Number}
	s2 := Substitution{"a": String}

	composed := Compose(s1, s2)
	if !Equal(composed["a"], Number) {
		t.Errorf("expected s1's binding to win on conflict, got %s", composed["a"])
	}
}

func TestApplyLeavesNamedUntouched(t *testing.T) {
	s := Substitution{"number": String} // a substitution can never legally target a Named, but verify Named isn't accidentally rewritten by name collision
	if got := Apply(s, Number); !Equal(got, Number) {
		t.Errorf("Apply must not rewrite Named types: got %s", got)
	}
}

func TestFreeVarsFunction(t *testing.T) {
	typ := Function([]*Type{Var("a"), Number}, Var("b"))
	free := FreeVars(typ)

	if _, ok := free["a"]; !ok {
		t.Error("expected a to be free")
	}
	if _, ok := free["b"]; !ok {
		t.Error("expected b to be free")
	}
	if len(free) != 2 {
		t.Errorf("expected exactly 2 free vars, got %d", len(free))
	}
}
