package config

import (
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

// Tier is a Partial tagged with the source it came from.
type Tier struct {
	Source  Source
	Partial Partial
}

// first returns the value from the highest priority tier that has one.
func first[T any](tiers []Tier, get func(*Partial) *T) (*T, Source) {
	for i := range tiers {
		if v := get(&tiers[i].Partial); v != nil {
			return v, tiers[i].Source
		}
	}
	return nil, SourceUnset
}

func firstCommitTypes(tiers []Tier) (CommitTypes, Source) {
	for _, t := range tiers {
		if len(t.Partial.Draft.CommitTypes) > 0 {
			return t.Partial.Draft.CommitTypes, t.Source
		}
	}
	return nil, SourceUnset
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Merge combines tiers ordered from highest to lowest priority.
// Every field is taken from the first tier where it is present, so nested
// draft, explain and operate settings merge per field rather than per object.
func Merge(tiers ...Tier) *Config {
	cfg := &Config{
		Sources: make(map[string]Source),
	}

	provider, src := first(tiers, func(p *Partial) *ProviderName { return p.Provider })
	if provider != nil {
		cfg.Provider = *provider
	} else {
		cfg.Provider = DefaultProvider
		src = SourceDefault
	}
	cfg.Sources["provider"] = src

	model, src := first(tiers, func(p *Partial) *string { return p.Model })
	cfg.Model = deref(model)
	cfg.Sources["model"] = src

	apiKey, src := first(tiers, func(p *Partial) *string { return p.APIKey })
	cfg.APIKey = deref(apiKey)
	cfg.Sources["api_key"] = src

	commitTypes, src := firstCommitTypes(tiers)
	if len(commitTypes) == 0 {
		commitTypes = DefaultCommitTypes()
		src = SourceDefault
	}
	cfg.Draft.CommitTypes = append(CommitTypes(nil), commitTypes...)
	cfg.Sources["draft.commit_types"] = src

	mergePrompts := func(key string, get func(*Partial) *PromptPartial) PromptConfig {
		sys, sysSrc := first(tiers, func(p *Partial) *string { return get(p).SystemPrompt })
		usr, usrSrc := first(tiers, func(p *Partial) *string { return get(p).UserPrompt })
		cfg.Sources[key+".system_prompt"] = sysSrc
		cfg.Sources[key+".user_prompt"] = usrSrc
		return PromptConfig{SystemPrompt: deref(sys), UserPrompt: deref(usr)}
	}
	cfg.Draft.PromptConfig = mergePrompts("draft", func(p *Partial) *PromptPartial { return &p.Draft.PromptPartial })
	cfg.Explain = mergePrompts("explain", func(p *Partial) *PromptPartial { return &p.Explain })
	cfg.Operate = mergePrompts("operate", func(p *Partial) *PromptPartial { return &p.Operate })

	for _, key := range []string{"provider", "model", "api_key"} {
		apperrors.LogConfigSource(key, string(cfg.Sources[key]))
	}

	return cfg
}
