package ast

import (
	"encoding/json"
	"fmt"
)

// This file is the concrete stand-in for the out-of-scope source-text
// parser: instead of lexing and recursive-descent parsing program text, it
// decodes a JSON tree whose nodes carry a "type" discriminator field, the
// same shape a real parser's AST dump would take. Every node kind is
// dispatched exactly once, here, at the boundary — the checker itself never
// looks at a string tag again.

type rawNode struct {
	Type string          `json:"type"`
	Loc  *rawLoc         `json:"loc,omitempty"`
	Raw  json.RawMessage `json:"-"`
}

type rawLoc struct {
	Start rawPos `json:"start"`
	End   rawPos `json:"end"`
}

type rawPos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l *rawLoc) toLocation() SourceLocation {
	if l == nil {
		return SourceLocation{}
	}
	return SourceLocation{
		Start: Position{Line: l.Start.Line, Column: l.Start.Column},
		End:   Position{Line: l.End.Line, Column: l.End.Column},
	}
}

// DecodeProgram decodes a JSON array of top-level expressions.
func DecodeProgram(data []byte) ([]Expr, error) {
	var rawList []json.RawMessage
	if err := json.Unmarshal(data, &rawList); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}

	program := make([]Expr, 0, len(rawList))
	for i, raw := range rawList {
		expr, err := DecodeExpr(raw)
		if err != nil {
			return nil, fmt.Errorf("decode program[%d]: %w", i, err)
		}
		program = append(program, expr)
	}
	return program, nil
}

// DecodeExpr decodes a single JSON-encoded node into an Expr.
func DecodeExpr(data []byte) (Expr, error) {
	var head struct {
		Type string  `json:"type"`
		Loc  *rawLoc `json:"loc,omitempty"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode node head: %w", err)
	}
	loc := head.Loc.toLocation()

	switch head.Type {
	case "Number":
		var n struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return NewNumber(n.Value, loc), nil

	case "String":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return NewString(n.Value, loc), nil

	case "Boolean":
		var n struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return NewBool(n.Value, loc), nil

	case "Null":
		return NewNull(loc), nil

	case "Undefined":
		return NewUndefined(loc), nil

	case "Var":
		var n struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return NewVar(n.Name, loc), nil

	case "Binary":
		var n struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		left, err := DecodeExpr(n.Left)
		if err != nil {
			return nil, fmt.Errorf("binary left: %w", err)
		}
		right, err := DecodeExpr(n.Right)
		if err != nil {
			return nil, fmt.Errorf("binary right: %w", err)
		}
		return NewBinary(n.Op, left, right, loc), nil

	case "Call":
		var n struct {
			Func json.RawMessage   `json:"func"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		fn, err := DecodeExpr(n.Func)
		if err != nil {
			return nil, fmt.Errorf("call func: %w", err)
		}
		args := make([]Expr, 0, len(n.Args))
		for i, a := range n.Args {
			arg, err := DecodeExpr(a)
			if err != nil {
				return nil, fmt.Errorf("call arg[%d]: %w", i, err)
			}
			args = append(args, arg)
		}
		return NewCall(fn, args, loc), nil

	case "Function":
		var n struct {
			Params []rawParam      `json:"params"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		params := make([]Param, 0, len(n.Params))
		for i, p := range n.Params {
			param, err := p.toParam()
			if err != nil {
				return nil, fmt.Errorf("function param[%d]: %w", i, err)
			}
			params = append(params, param)
		}
		body, err := DecodeExpr(n.Body)
		if err != nil {
			return nil, fmt.Errorf("function body: %w", err)
		}
		return NewFunction(params, body, loc), nil

	case "Let":
		var n struct {
			Name string          `json:"name"`
			Rhs  json.RawMessage `json:"rhs"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		rhs, err := DecodeExpr(n.Rhs)
		if err != nil {
			return nil, fmt.Errorf("let rhs: %w", err)
		}
		return NewLet(n.Name, rhs, loc), nil

	case "Assign":
		var n struct {
			Name string          `json:"name"`
			Rhs  json.RawMessage `json:"rhs"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		rhs, err := DecodeExpr(n.Rhs)
		if err != nil {
			return nil, fmt.Errorf("assign rhs: %w", err)
		}
		return NewAssign(n.Name, rhs, loc), nil

	case "Block":
		var n struct {
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		body := make([]Expr, 0, len(n.Body))
		for i, s := range n.Body {
			stmt, err := DecodeExpr(s)
			if err != nil {
				return nil, fmt.Errorf("block stmt[%d]: %w", i, err)
			}
			body = append(body, stmt)
		}
		return NewBlock(body, loc), nil

	case "Return":
		var n struct {
			Rhs json.RawMessage `json:"rhs"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		rhs, err := DecodeExpr(n.Rhs)
		if err != nil {
			return nil, fmt.Errorf("return rhs: %w", err)
		}
		return NewReturn(rhs, loc), nil

	case "If":
		var n struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		cond, err := DecodeExpr(n.Cond)
		if err != nil {
			return nil, fmt.Errorf("if cond: %w", err)
		}
		thenExpr, err := DecodeExpr(n.Then)
		if err != nil {
			return nil, fmt.Errorf("if then: %w", err)
		}
		thenBlock, ok := thenExpr.(*BlockExpr)
		if !ok {
			return nil, fmt.Errorf("if then: expected Block, got %T", thenExpr)
		}
		var elseBlock *BlockExpr
		if len(n.Else) > 0 {
			elseExpr, err := DecodeExpr(n.Else)
			if err != nil {
				return nil, fmt.Errorf("if else: %w", err)
			}
			elseBlock, ok = elseExpr.(*BlockExpr)
			if !ok {
				return nil, fmt.Errorf("if else: expected Block, got %T", elseExpr)
			}
		}
		return NewIf(cond, thenBlock, elseBlock, loc), nil

	case "Throw":
		var n struct {
			Rhs json.RawMessage `json:"rhs"`
		}
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		rhs, err := DecodeExpr(n.Rhs)
		if err != nil {
			return nil, fmt.Errorf("throw rhs: %w", err)
		}
		return NewThrow(rhs, loc), nil

	default:
		return nil, fmt.Errorf("unknown node type %q", head.Type)
	}
}

type rawParam struct {
	Name    string          `json:"name"`
	Default json.RawMessage `json:"default,omitempty"`
}

func (p rawParam) toParam() (Param, error) {
	if len(p.Default) == 0 {
		return Param{Name: p.Name}, nil
	}
	def, err := DecodeExpr(p.Default)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: p.Name, Default: def}, nil
}
