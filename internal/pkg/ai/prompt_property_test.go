package ai

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lumen-cli/lumen/internal/pkg/config"
)

func genBlank() gopter.Gen {
	return gen.SliceOf(gen.OneConstOf(" ", "\t", "\n", "\r")).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})
}

// Blank overrides never replace the built-in prompts.
func TestProperty_BlankOverrideFallsBack(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("blank overrides use defaults", prop.ForAll(
		func(system, user string) bool {
			got := BuildPrompt(CommandExplain, config.PromptConfig{SystemPrompt: system, UserPrompt: user}, nil)
			return got == DefaultPrompt(CommandExplain)
		},
		genBlank(),
		genBlank(),
	))

	properties.Property("non-blank overrides are used as written", prop.ForAll(
		func(system, user string) bool {
			got := BuildPrompt(CommandOperate, config.PromptConfig{SystemPrompt: system, UserPrompt: user}, nil)
			return got.System == system && got.User == user
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// Substituted values appear verbatim and are not expanded again.
func TestProperty_SubstitutionIsSinglePass(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("diff value is inserted verbatim", prop.ForAll(
		func(diff, query string) bool {
			value := diff + "{query}"
			got := BuildPrompt(CommandOperate, config.PromptConfig{UserPrompt: "<{diff}>{query}"},
				Substitutions{PlaceholderDiff: value, PlaceholderQuery: query})
			return got.User == "<"+value+">"+query
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("unknown placeholders are left as written", prop.ForAll(
		func(name string) bool {
			tmpl := "{" + name + "x}"
			got := BuildPrompt(CommandOperate, config.PromptConfig{UserPrompt: tmpl}, OperateSubstitutions("q"))
			return got.User == tmpl
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
