package checker

import (
	"fmt"
	"os"

	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/types"
)

// InferBlock walks a statement sequence in order, threading substitution and
// context. It returns the block's result type, whether that type came from
// an early exit (a Return, or a nested Block/If that itself exited early),
// the accumulated substitution, and the context to resume from.
func InferBlock(ctx *Context, block *ast.BlockExpr) (*types.Type, bool, types.Substitution, *Context, error) {
	sub := types.Substitution{}
	curCtx := ctx
	var candidates []*types.Type

	for _, stmt := range block.Body {
		switch s := stmt.(type) {
		case *ast.ReturnExpr:
			rt, rsub, rctx, err := InferExpr(curCtx, s.Rhs)
			if err != nil {
				return nil, false, nil, ctx, err
			}
			return rt, true, types.Compose(rsub, sub), rctx, nil

		case *ast.BlockExpr:
			bt, didReturn, bsub, bctx, err := InferBlock(curCtx, s)
			if err != nil {
				return nil, false, nil, ctx, err
			}
			sub = types.Compose(bsub, sub)
			curCtx = bctx
			if didReturn {
				return bt, true, sub, curCtx, nil
			}

		case *ast.IfExpr:
			allReturn, it, isub, ictx, err := InferIf(curCtx, s)
			if err != nil {
				return nil, false, nil, ctx, err
			}
			sub = types.Compose(isub, sub)
			curCtx = ictx
			if allReturn {
				return it, true, sub, curCtx, nil
			}
			candidates = append(candidates, it)

		case *ast.ThrowExpr:
			// Recognised but inert: contributes nothing to the block's type.
			if curCtx.Config.VerboseMode {
				fmt.Fprintf(os.Stderr, "jsserver: throw seen and ignored at %v\n", s.Loc())
			}

		default:
			_, esub, ectx, err := InferExpr(curCtx, stmt)
			if err != nil {
				return nil, false, nil, ctx, err
			}
			sub = types.Compose(esub, sub)
			curCtx = ectx
		}
	}

	candidates = append(candidates, types.Undefined)
	result, err := buildUnion(candidates, ctx.Config.MaxUnionSize, block.Loc())
	if err != nil {
		return nil, false, nil, ctx, err
	}
	return result, false, sub, curCtx, nil
}

// InferIf is the if inferencer. It reports whether every branch returns (so
// the caller can treat its result as an early exit rather than a mere
// candidate), the branch result type, the accumulated substitution, and the
// context to resume from.
func InferIf(ctx *Context, e *ast.IfExpr) (bool, *types.Type, types.Substitution, *Context, error) {
	_, condSub, condCtx, err := InferExpr(ctx, e.Cond)
	if err != nil {
		return false, nil, nil, ctx, err
	}
	branchCtx := condCtx.WithEnv(types.ApplyEnv(condSub, condCtx.Env))

	thenType, _, thenSub, _, err := InferBlock(branchCtx, e.Then)
	if err != nil {
		return false, nil, nil, ctx, err
	}
	sub := types.Compose(thenSub, condSub)

	if e.Else == nil {
		return false, thenType, sub, branchCtx, nil
	}

	// Then and else each start from the same pre-branch context
	// independently, so sibling branches never observe each other's
	// bindings.
	elseType, _, elseSub, _, err := InferBlock(branchCtx, e.Else)
	if err != nil {
		return false, nil, nil, ctx, err
	}
	sub = types.Compose(elseSub, sub)

	result, err := buildUnion([]*types.Type{thenType, elseType}, ctx.Config.MaxUnionSize, e.Loc())
	if err != nil {
		return false, nil, nil, ctx, err
	}
	return true, result, sub, branchCtx, nil
}
