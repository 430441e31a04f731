// Package config provides configuration resolution for lumen.
//
// Settings come from four tiers: command-line flags, a JSON config file,
// environment variables and built-in defaults. Each tier is loaded into a
// Partial and the partials are merged field by field, highest priority first.
package config

import (
	"strings"
)

// ProviderName identifies an AI provider.
type ProviderName string

const (
	ProviderPhind    ProviderName = "phind"
	ProviderOpenAI   ProviderName = "openai"
	ProviderGroq     ProviderName = "groq"
	ProviderDeepSeek ProviderName = "deepseek"
	ProviderClaude   ProviderName = "claude"
	ProviderOllama   ProviderName = "ollama"
)

// DefaultProvider is used when no tier names a provider.
const DefaultProvider = ProviderPhind

// ProviderNames returns every supported provider in display order.
func ProviderNames() []ProviderName {
	return []ProviderName{
		ProviderPhind,
		ProviderOpenAI,
		ProviderGroq,
		ProviderDeepSeek,
		ProviderClaude,
		ProviderOllama,
	}
}

// ParseProviderName converts user input to a ProviderName.
// Matching ignores case and surrounding whitespace.
func ParseProviderName(s string) (ProviderName, bool) {
	name := ProviderName(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range ProviderNames() {
		if p == name {
			return p, true
		}
	}
	return "", false
}

// ProviderStrings returns ProviderNames as plain strings.
func ProviderStrings() []string {
	names := ProviderNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// CommitType is one entry of the conventional commit vocabulary.
type CommitType struct {
	Code        string
	Description string
}

// CommitTypes is an ordered commit type table.
type CommitTypes []CommitType

// DefaultCommitTypes returns the built-in conventional commit table.
func DefaultCommitTypes() CommitTypes {
	return CommitTypes{
		{"docs", "Documentation only changes"},
		{"style", "Changes that do not affect the meaning of the code (white-space, formatting, missing semi-colons, etc)"},
		{"refactor", "A code change that neither fixes a bug nor adds a feature"},
		{"perf", "A code change that improves performance"},
		{"test", "Adding missing tests or correcting existing tests"},
		{"build", "Changes that affect the build system or external dependencies"},
		{"ci", "Changes to our CI configuration files and scripts"},
		{"chore", "Other changes that don't modify src or test files"},
		{"revert", "Reverts a previous commit"},
		{"feat", "A new feature"},
		{"fix", "A bug fix"},
	}
}

// Codes returns the commit type codes in order.
func (c CommitTypes) Codes() []string {
	codes := make([]string, len(c))
	for i, t := range c {
		codes[i] = t.Code
	}
	return codes
}

// PromptConfig holds user prompt overrides for one command.
// Empty fields mean the built-in prompt is used.
type PromptConfig struct {
	SystemPrompt string
	UserPrompt   string
}

// DraftConfig holds settings for the draft command.
type DraftConfig struct {
	CommitTypes CommitTypes
	PromptConfig
}

// Source names the tier that supplied a setting.
type Source string

const (
	SourceCLI     Source = "flag"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceDefault Source = "default"
	SourceUnset   Source = "unset"
)

// Config is the effective configuration of one invocation.
// It is built once by Resolve and not modified afterwards.
type Config struct {
	Provider ProviderName
	// Model may be empty, in which case the provider's default model is used.
	Model string
	// APIKey may be empty for providers that do not require one.
	APIKey string
	// ConfigFile is the path of the file that was read, empty when none was found.
	ConfigFile string

	Draft   DraftConfig
	Explain PromptConfig
	Operate PromptConfig

	// Sources records which tier supplied provider, model and api_key.
	Sources map[string]Source
}

// PromptPartial holds optional prompt overrides.
type PromptPartial struct {
	SystemPrompt *string
	UserPrompt   *string
}

// DraftPartial holds optional draft settings.
// A nil or empty CommitTypes counts as absent.
type DraftPartial struct {
	CommitTypes CommitTypes
	PromptPartial
}

// Partial is one tier's view of the configuration. Nil fields are absent.
type Partial struct {
	Provider *ProviderName
	Model    *string
	APIKey   *string

	Draft   DraftPartial
	Explain PromptPartial
	Operate PromptPartial
}

// Defaults returns the built-in tier.
func Defaults() Partial {
	provider := DefaultProvider
	return Partial{
		Provider: &provider,
		Draft: DraftPartial{
			CommitTypes: DefaultCommitTypes(),
		},
	}
}
