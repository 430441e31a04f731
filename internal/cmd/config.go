package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumen-cli/lumen/internal/pkg/ai"
	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
	"github.com/lumen-cli/lumen/internal/pkg/git"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit lumen configuration",
		Long: `Inspect and edit lumen configuration.

Settings are read from, in order of precedence: command-line flags, the
config file (--config, ./` + config.FileName + ` at the repository root,
or the global file), the LUMEN_AI_PROVIDER, LUMEN_API_KEY and
LUMEN_AI_MODEL environment variables, and built-in defaults.`,
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigUnsetCmd())

	return configCmd
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration and where each value came from.

API keys are masked, showing only the last 4 characters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, git.NewClient())
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' subcommand.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, git.NewClient())
			if err != nil {
				return err
			}
			if cfg.ConfigFile != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.ConfigFile)
				return nil
			}

			cfgMgr, err := configManager(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfgMgr.GetConfigPath())
			fmt.Fprintln(cmd.ErrOrStderr(), "(file does not exist yet; run 'lumen configure' to create it)")
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a value in the global config file, or in the file given with --config.

Nested keys use dot notation.

Examples:
  lumen config set provider claude
  lumen config set api_key sk-ant-xxx
  lumen config set model claude-3-5-sonnet-20241022
  lumen config set draft.commit_types.wip "Work in progress"
  lumen config set explain.system_prompt "Answer in one paragraph."`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			cfgMgr, err := configManager(cmd)
			if err != nil {
				return err
			}
			if err := cfgMgr.Set(key, value); err != nil {
				return err
			}

			displayValue := value
			if key == "api_key" {
				displayValue = apperrors.MaskAPIKey(value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, displayValue, cfgMgr.GetConfigPath())
			return nil
		},
	}
}

// newConfigUnsetCmd creates the 'config unset' subcommand.
func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := configManager(cmd)
			if err != nil {
				return err
			}
			if !cfgMgr.ConfigExists() {
				return apperrors.NewConfigNotFoundError(cfgMgr.GetConfigPath(), nil)
			}
			if err := cfgMgr.Unset(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[0], cfgMgr.GetConfigPath())
			return nil
		},
	}
}

// printConfig writes the effective configuration of cfg.
func printConfig(w io.Writer, cfg *config.Config) {
	model, modelSource := cfg.Model, sourceOf(cfg, "model")
	if desc, ok := ai.Lookup(cfg.Provider); ok {
		model = ai.ResolveModel(cfg, desc)
		if model != cfg.Model {
			modelSource = config.SourceDefault
		}
	}

	apiKey := apperrors.MaskAPIKey(cfg.APIKey)
	if apiKey == "" {
		apiKey = "(not set)"
	}

	configFile := cfg.ConfigFile
	if configFile == "" {
		configFile = "(none)"
	}

	fmt.Fprintf(w, "provider: %s (%s)\n", cfg.Provider, sourceOf(cfg, "provider"))
	fmt.Fprintf(w, "model: %s (%s)\n", model, modelSource)
	fmt.Fprintf(w, "api_key: %s (%s)\n", apiKey, sourceOf(cfg, "api_key"))
	fmt.Fprintf(w, "config_file: %s\n", configFile)

	fmt.Fprintln(w, "draft:")
	fmt.Fprintln(w, "  commit_types:")
	for _, t := range cfg.Draft.CommitTypes {
		fmt.Fprintf(w, "    %s: %s\n", t.Code, t.Description)
	}
	printPrompts(w, "draft", cfg.Draft.PromptConfig, false)
	printPrompts(w, "explain", cfg.Explain, true)
	printPrompts(w, "operate", cfg.Operate, true)
}

func printPrompts(w io.Writer, section string, p config.PromptConfig, withHeading bool) {
	if withHeading {
		fmt.Fprintf(w, "%s:\n", section)
	}
	fmt.Fprintf(w, "  system_prompt: %s\n", promptState(p.SystemPrompt))
	fmt.Fprintf(w, "  user_prompt: %s\n", promptState(p.UserPrompt))
}

// promptState summarizes a prompt override without printing it whole.
func promptState(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "(built-in)"
	}
	line, _, more := strings.Cut(prompt, "\n")
	if len(line) > 60 {
		line, more = line[:60], true
	}
	if more {
		line += "..."
	}
	return fmt.Sprintf("%q", line)
}

func sourceOf(cfg *config.Config, key string) config.Source {
	if s, ok := cfg.Sources[key]; ok {
		return s
	}
	return config.SourceUnset
}
