package checker

import "github.com/pjlast/jsserver/internal/types"

// SeedEnvironment builds the initial environment used throughout the test
// suite and the CLI's "check" subcommand's default run: a fixed trio of
// built-ins with no other names injected. The engine itself never seeds any
// names — that is always the caller's responsibility (spec §6).
func SeedEnvironment() *types.Environment {
	env := types.NewEnvironment()

	// ambig: () => number | undefined
	ambigType := types.Function(nil, types.Union(types.Number, types.Undefined))
	env = env.Extend("ambig", types.Bare(ambigType))

	// parseInt: (string, number | undefined) => number
	parseIntType := types.Function(
		[]*types.Type{types.String, types.Union(types.Number, types.Undefined)},
		types.Number,
	)
	env = env.Extend("parseInt", types.Bare(parseIntType))

	// identity: ∀x. (x) => x
	identityVar := types.Var("X")
	identityType := types.Function([]*types.Type{identityVar}, identityVar)
	env = env.Extend("identity", &types.Scheme{Quantifiers: []string{"X"}, Type: identityType})

	return env
}
