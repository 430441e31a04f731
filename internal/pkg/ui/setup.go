package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/lumen-cli/lumen/internal/pkg/ai"
	"github.com/lumen-cli/lumen/internal/pkg/config"
	"github.com/lumen-cli/lumen/internal/pkg/security"
)

// configureAnswers holds the values entered in the configure wizard.
type configureAnswers struct {
	provider string
	apiKey   string
	model    string

	// previous values read from the config file
	previousProvider string
	previousKey      string
}

// RunConfigureWizard asks for provider, API key and model and writes them
// to the config file managed by cfgMgr.
func RunConfigureWizard(cfgMgr *config.Manager, out io.Writer) error {
	answers := &configureAnswers{}
	answers.previousProvider, _ = cfgMgr.Get("provider")
	answers.previousKey, _ = cfgMgr.Get("api_key")
	answers.model, _ = cfgMgr.Get("model")

	answers.provider = answers.previousProvider
	if _, ok := config.ParseProviderName(answers.provider); !ok {
		answers.provider = string(config.DefaultProvider)
	}

	// Stage 1: Select Provider
	err := huh.NewSelect[string]().
		Title("Select AI Provider").
		Description(security.ProviderNotice).
		Options(providerOptions()...).
		Value(&answers.provider).
		Run()
	if err != nil {
		return wizardError(err)
	}

	name, _ := config.ParseProviderName(answers.provider)
	desc, _ := ai.Lookup(name)
	if name != config.ProviderName(answers.previousProvider) {
		// The old model most likely belongs to another provider.
		answers.model = ""
	}

	// Stage 2: Details
	fields := []huh.Field{}

	if desc.RequiresAPIKey {
		description := "Enter your API key"
		if answers.keepsPreviousKey() {
			description = "Leave empty to keep the current key"
		}
		fields = append(fields,
			huh.NewInput().
				Title(desc.DisplayName+" API Key").
				Description(description).
				Value(&answers.apiKey).
				Password(true).
				Validate(answers.validateAPIKey),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Model Name").
			Description("Leave empty to use the default model").
			Placeholder(desc.DefaultModel).
			Value(&answers.model),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return wizardError(err)
	}

	if err := cfgMgr.SaveProviderSettings(answers.settings()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration saved to %s\n", cfgMgr.GetConfigPath())
	return nil
}

// providerOptions lists every registered provider.
func providerOptions() []huh.Option[string] {
	descs := ai.Descriptors()
	opts := make([]huh.Option[string], 0, len(descs))
	for _, d := range descs {
		label := d.DisplayName
		if !d.RequiresAPIKey {
			label += " (no API key)"
		}
		opts = append(opts, huh.NewOption(label, string(d.Name)))
	}
	return opts
}

// keepsPreviousKey reports whether an empty key answer keeps the stored key.
func (a *configureAnswers) keepsPreviousKey() bool {
	return a.previousKey != "" && a.provider == a.previousProvider
}

func (a *configureAnswers) validateAPIKey(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		if a.keepsPreviousKey() {
			return nil
		}
		return fmt.Errorf("api key is required for %s", a.provider)
	}
	name, _ := config.ParseProviderName(a.provider)
	return security.CheckAPIKeyFormat(name, s)
}

// settings converts the answers to the values written to the file.
func (a *configureAnswers) settings() config.ProviderSettings {
	name, _ := config.ParseProviderName(a.provider)
	s := config.ProviderSettings{
		Provider: name,
		APIKey:   strings.TrimSpace(a.apiKey),
		Model:    strings.TrimSpace(a.model),
	}

	desc, _ := ai.Lookup(name)
	switch {
	case !desc.RequiresAPIKey:
		s.APIKey = ""
	case s.APIKey == "" && a.keepsPreviousKey():
		s.APIKey = a.previousKey
	}
	return s
}

func wizardError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
