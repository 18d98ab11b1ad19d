// Package checker walks an expression tree and assigns principal types to
// its nodes, threading a fresh-variable counter and an immutable environment
// through the recursion.
package checker

import (
	"fmt"

	"github.com/pjlast/jsserver/internal/types"
)

// Config controls inference behavior. The zero value is not valid; use
// DefaultConfig.
type Config struct {
	// EnableOccursCheck toggles the occurs check performed while binding a
	// type variable. Disabling it is a debugging escape hatch — it lets a
	// pathological fixture run to completion instead of failing fast, at
	// the cost of potentially producing an infinite type.
	EnableOccursCheck bool

	// MaxUnionSize bounds how many alternatives a Union built during
	// inference may accumulate. Zero means unbounded. This guards against
	// fixtures that build pathologically large unions through repeated
	// branching.
	MaxUnionSize int

	// VerboseMode prints each inferred top-level type and its residual
	// substitution to stderr as it is produced.
	VerboseMode bool
}

// DefaultConfig matches the engine's documented defaults.
func DefaultConfig() Config {
	return Config{
		EnableOccursCheck: true,
		MaxUnionSize:      0,
		VerboseMode:       false,
	}
}

// Context bundles the fresh-variable counter and the environment. It is
// threaded through inference; only the counter is genuinely mutable state.
type Context struct {
	Env    *types.Environment
	Config Config

	counter *int
}

// NewContext returns a Context seeded with env and starting its
// fresh-variable counter at zero.
func NewContext(env *types.Environment, cfg Config) *Context {
	n := 0
	return &Context{Env: env, Config: cfg, counter: &n}
}

// WithEnv returns a copy of ctx pointing at a different environment, sharing
// the same fresh-variable counter. Inference never mutates a Context in
// place; every "update" goes through WithEnv.
func (ctx *Context) WithEnv(env *types.Environment) *Context {
	return &Context{Env: env, Config: ctx.Config, counter: ctx.counter}
}

// Fresh allocates a new type variable, named T0, T1, … in allocation order.
// The counter is shared across every Context derived from the same root via
// WithEnv, so variables stay globally distinct within one top-level
// inference pass.
func (ctx *Context) Fresh() *types.Type {
	n := *ctx.counter
	*ctx.counter = n + 1
	return types.Var(fmt.Sprintf("T%d", n))
}
