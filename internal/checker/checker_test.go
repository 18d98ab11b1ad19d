package checker

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/types"
)

var noLoc ast.SourceLocation

func num(v float64) *ast.NumberLit    { return ast.NewNumber(v, noLoc) }
func str(v string) *ast.StringLit     { return ast.NewString(v, noLoc) }
func vr(name string) *ast.VarExpr     { return ast.NewVar(name, noLoc) }
func call(fn ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return ast.NewCall(fn, args, noLoc)
}

func checkOne(t *testing.T, expr ast.Expr) (*types.Type, error) {
	t.Helper()
	results := CheckProgram(SeedEnvironment(), DefaultConfig(), []ast.Expr{expr})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	return results[0].Type, results[0].Err
}

func TestScenario1ParseIntNoSecondArg(t *testing.T) {
	ty, err := checkOne(t, call(vr("parseInt"), str("1")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !types.Equal(ty, types.Number) {
		t.Errorf("got %s, want number", ty)
	}
}

func TestScenario2AmbigResultFlowsIntoParseInt(t *testing.T) {
	program := []ast.Expr{
		ast.NewLet("x", call(vr("ambig")), noLoc),
		call(vr("parseInt"), str("1"), vr("x")),
	}
	results := CheckProgram(SeedEnvironment(), DefaultConfig(), program)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Err != nil {
		t.Fatalf("unexpected error: %v", results[1].Err)
	}
	if !types.Equal(results[1].Type, types.Number) {
		t.Errorf("got %s, want number", results[1].Type)
	}
}

// TestScenario3FunctionNarrowsAndGeneralises exercises:
//
//	let x = (a, b, c) => { let y = parseInt(b); a = 456; return c; };
//
// b is constrained to string by its use inside parseInt, a's assignment to
// 456 narrows it to number, and the return of c preserves its fresh
// variable, which generalises at the let.
func TestScenario3FunctionNarrowsAndGeneralises(t *testing.T) {
	fn := ast.NewFunction(
		[]ast.Param{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		ast.NewBlock([]ast.Expr{
			ast.NewLet("y", call(vr("parseInt"), vr("b")), noLoc),
			ast.NewAssign("a", num(456), noLoc),
			ast.NewReturn(vr("c"), noLoc),
		}, noLoc),
		noLoc,
	)

	results := CheckProgram(SeedEnvironment(), DefaultConfig(), []ast.Expr{ast.NewLet("x", fn, noLoc)})
	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}

	// let's type is always undefined; inspect the scheme bound to "x"
	// directly via a fresh checker pass instead.
	env := SeedEnvironment()
	ctx := NewContext(env, DefaultConfig())
	_, sub, ctx, err := InferExpr(ctx, ast.NewLet("x", fn, noLoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = sub
	scheme, ok := ctx.Env.Lookup("x")
	if !ok {
		t.Fatal("expected x to be bound")
	}
	ft := types.Instantiate(scheme, ctx.Fresh)
	if ft.Kind != types.KindFunction || len(ft.Params) != 3 {
		t.Fatalf("expected a 3-parameter function, got %s", ft)
	}
	if !types.Equal(ft.Params[0], types.Number) {
		t.Errorf("expected parameter a to narrow to number, got %s", ft.Params[0])
	}
	if !types.Equal(ft.Params[1], types.String) {
		t.Errorf("expected parameter b to narrow to string, got %s", ft.Params[1])
	}
	if ft.Params[2].Kind != types.KindVar {
		t.Errorf("expected parameter c to remain a type variable, got %s", ft.Params[2])
	}
	if !types.Equal(ft.Params[2], ft.Result) {
		t.Errorf("expected the result to be c's variable, got params[2]=%s result=%s", ft.Params[2], ft.Result)
	}
	if len(scheme.Quantifiers) != 1 {
		t.Errorf("expected exactly one quantifier (c's variable) to have generalised, got %v", scheme.Quantifiers)
	}
}

// TestScenario4IdentityInstantiatesFreshly calls identity on the function
// from scenario 3 and checks the result is a fresh instantiation: same
// shape, but not the same type-variable identity.
func TestScenario4IdentityInstantiatesFreshly(t *testing.T) {
	fn := ast.NewFunction(
		[]ast.Param{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		ast.NewBlock([]ast.Expr{
			ast.NewLet("y", call(vr("parseInt"), vr("b")), noLoc),
			ast.NewAssign("a", num(456), noLoc),
			ast.NewReturn(vr("c"), noLoc),
		}, noLoc),
		noLoc,
	)

	env := SeedEnvironment()
	ctx := NewContext(env, DefaultConfig())
	_, _, ctx, err := InferExpr(ctx, ast.NewLet("x", fn, noLoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	xScheme, _ := ctx.Env.Lookup("x")
	original := types.Instantiate(xScheme, ctx.Fresh)

	applied, _, _, err := InferExpr(ctx, call(vr("identity"), vr("x")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if applied.Kind != types.KindFunction || len(applied.Params) != 3 {
		t.Fatalf("expected a 3-parameter function back from identity, got %s", applied)
	}
	if !types.Equal(applied.Params[0], types.Number) || !types.Equal(applied.Params[1], types.String) {
		t.Errorf("expected the narrowed parameters to survive identity, got %s", applied)
	}
	if types.Equal(applied.Params[2], original.Params[2]) {
		t.Error("expected identity to produce a fresh type variable for the generalised parameter, not share the original's")
	}
}

func TestScenario5IfElseBothReturnUnionsTypes(t *testing.T) {
	body := ast.NewBlock([]ast.Expr{
		ast.NewIf(
			vr("cond"),
			ast.NewBlock([]ast.Expr{ast.NewReturn(num(1), noLoc)}, noLoc),
			ast.NewBlock([]ast.Expr{ast.NewReturn(str("s"), noLoc)}, noLoc),
			noLoc,
		),
	}, noLoc)

	env := SeedEnvironment().Extend("cond", types.Bare(types.Boolean))
	ctx := NewContext(env, DefaultConfig())
	ty, _, _, _, err := InferBlock(ctx, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := types.Union(types.Number, types.String)
	if !types.Equal(ty, want) {
		t.Errorf("got %s, want %s", ty, want)
	}
}

func TestScenario6IfNoElseFallsThroughToUndefined(t *testing.T) {
	body := ast.NewBlock([]ast.Expr{
		ast.NewIf(
			vr("cond"),
			ast.NewBlock([]ast.Expr{ast.NewReturn(num(1), noLoc)}, noLoc),
			nil,
			noLoc,
		),
		ast.NewAssign("x", str("s"), noLoc),
	}, noLoc)

	env := SeedEnvironment().
		Extend("cond", types.Bare(types.Boolean)).
		Extend("x", types.Bare(types.String))
	ctx := NewContext(env, DefaultConfig())
	ty, _, _, _, err := InferBlock(ctx, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := types.Union(types.Number, types.Undefined)
	if !types.Equal(ty, want) {
		t.Errorf("got %s, want %s", ty, want)
	}
}

func TestScenario7ReassignmentMismatch(t *testing.T) {
	program := []ast.Expr{
		ast.NewLet("x", str("s"), noLoc),
		ast.NewAssign("x", num(123), noLoc),
	}
	results := CheckProgram(SeedEnvironment(), DefaultConfig(), program)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Err == nil {
		t.Fatal("expected an error reassigning x from string to number")
	}
	ie, ok := results[1].Err.(*InferenceError)
	if !ok {
		t.Fatalf("expected *InferenceError, got %T: %v", results[1].Err, results[1].Err)
	}
	if !types.Equal(ie.Want, types.String) || !types.Equal(ie.Got, types.Number) {
		t.Errorf("expected want=string got=number, got want=%s got=%s", ie.Want, ie.Got)
	}
}

func TestUnboundVariableIsFatal(t *testing.T) {
	_, err := checkOne(t, vr("nope"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*UnboundError); !ok {
		t.Errorf("expected *UnboundError, got %T", err)
	}
}

// selfReferentialAssign builds (a) => { a = (x) => a; return a; }: assigning
// a to a function whose result is a itself forces the unifier to bind a's
// type variable to a structure that contains it.
func selfReferentialAssign() *ast.FunctionExpr {
	inner := ast.NewFunction([]ast.Param{{Name: "x"}}, vr("a"), noLoc)
	return ast.NewFunction(
		[]ast.Param{{Name: "a"}},
		ast.NewBlock([]ast.Expr{
			ast.NewAssign("a", inner, noLoc),
			ast.NewReturn(vr("a"), noLoc),
		}, noLoc),
		noLoc,
	)
}

func TestOccursCheckEnabledRejectsSelfReferentialAssign(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableOccursCheck = true
	results := CheckProgram(SeedEnvironment(), cfg, []ast.Expr{selfReferentialAssign()})
	if results[0].Err == nil {
		t.Fatal("expected the occurs check to reject a self-referential assignment")
	}
	if _, ok := results[0].Err.(*SelfReferenceError); !ok {
		t.Errorf("expected *SelfReferenceError, got %T: %v", results[0].Err, results[0].Err)
	}
}

func TestOccursCheckDisabledSuppressesSelfReferentialAssign(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableOccursCheck = false
	results := CheckProgram(SeedEnvironment(), cfg, []ast.Expr{selfReferentialAssign()})
	if results[0].Err != nil {
		t.Fatalf("expected --no-occurs-check to suppress the failure, got: %v", results[0].Err)
	}
}

func TestMaxUnionSizeRejectsOversizedBranchUnion(t *testing.T) {
	body := ast.NewBlock([]ast.Expr{
		ast.NewIf(vr("cond"), ast.NewBlock([]ast.Expr{ast.NewReturn(num(1), noLoc)}, noLoc), nil, noLoc),
		ast.NewIf(vr("cond"), ast.NewBlock([]ast.Expr{ast.NewReturn(str("s"), noLoc)}, noLoc), nil, noLoc),
		ast.NewIf(vr("cond"), ast.NewBlock([]ast.Expr{ast.NewReturn(ast.NewBool(true, noLoc), noLoc)}, noLoc), nil, noLoc),
	}, noLoc)

	env := SeedEnvironment().Extend("cond", types.Bare(types.Boolean))

	cfg := DefaultConfig()
	cfg.MaxUnionSize = 2
	ctx := NewContext(env, cfg)
	_, _, _, _, err := InferBlock(ctx, body)
	if err == nil {
		t.Fatal("expected the accumulated union (number|string|boolean|undefined) to exceed MaxUnionSize")
	}
	if _, ok := err.(*UnionTooLargeError); !ok {
		t.Errorf("expected *UnionTooLargeError, got %T: %v", err, err)
	}

	cfg.MaxUnionSize = 0
	ctx = NewContext(env, cfg)
	if _, _, _, _, err := InferBlock(ctx, body); err != nil {
		t.Errorf("expected an unbounded MaxUnionSize to accept the same block, got: %v", err)
	}
}

func TestVerboseModeLogsThrowSeenAndIgnored(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	old := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = old }()

	body := ast.NewBlock([]ast.Expr{
		ast.NewThrow(str("boom"), noLoc),
		ast.NewReturn(num(1), noLoc),
	}, noLoc)

	cfg := DefaultConfig()
	cfg.VerboseMode = true
	ty, _, _, _, inferErr := InferBlock(NewContext(SeedEnvironment(), cfg), body)

	w.Close()
	os.Stderr = old
	out, _ := io.ReadAll(r)

	if inferErr != nil {
		t.Fatalf("unexpected error: %v", inferErr)
	}
	if !types.Equal(ty, types.Number) {
		t.Errorf("got %s, want number: throw must stay inert", ty)
	}
	if !strings.Contains(string(out), "throw seen and ignored") {
		t.Errorf("expected a throw-seen log line in verbose mode, got: %q", out)
	}
}

func TestCheckProgramContinuesAfterAFailingTopLevelExpr(t *testing.T) {
	program := []ast.Expr{
		vr("nope"),
		num(1),
	}
	results := CheckProgram(SeedEnvironment(), DefaultConfig(), program)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil {
		t.Error("expected the first expression to fail")
	}
	if results[1].Err != nil {
		t.Errorf("expected the second expression to still be examined, got error: %v", results[1].Err)
	}
	if !types.Equal(results[1].Type, types.Number) {
		t.Errorf("got %s, want number", results[1].Type)
	}
}
