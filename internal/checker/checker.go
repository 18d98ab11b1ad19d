package checker

import (
	"fmt"
	"os"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/types"
)

// Result is the outcome of inferring one top-level expression.
type Result struct {
	Expr ast.Expr
	Type *types.Type
	Err  error
}

// CheckProgram infers every top-level expression in program independently
// against env: a single unresolvable constraint stops inference for its own
// top-level expression only, matching the propagation policy that the
// driver recurses independently over each top-level form.
func CheckProgram(env *types.Environment, cfg Config, program []ast.Expr) []Result {
	results := make([]Result, 0, len(program))
	ctx := NewContext(env, cfg)

	for _, expr := range program {
		t, sub, nextCtx, err := InferExpr(ctx, expr)
		if err != nil {
			results = append(results, Result{Expr: expr, Err: err})
			// The environment carried forward is unaffected by a failed
			// top-level expression; resume from ctx as it stood before it.
			continue
		}

		if cfg.VerboseMode {
			fmt.Fprintf(os.Stderr, "jsserver: inferred %s with substitution %v\n", t, sub)
		}

		results = append(results, Result{Expr: expr, Type: t})
		ctx = nextCtx
	}

	return results
}
