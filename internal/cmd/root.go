// Package cmd contains the CLI command definitions for lumen.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumen-cli/lumen/internal/app"
	"github.com/lumen-cli/lumen/internal/pkg/ai"
	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
	"github.com/lumen-cli/lumen/internal/pkg/git"
	"github.com/lumen-cli/lumen/internal/pkg/ui"
)

// Flag names shared by all commands.
const (
	flagProvider = "provider"
	flagAPIKey   = "api-key"
	flagModel    = "model"
	flagConfig   = "config"
	flagVerbose  = "verbose"
	flagNoColor  = "no-color"
)

// NewRootCmd creates the root command for the lumen CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "AI git helper for commit messages, explanations and git commands",
		Long: `lumen sends your git changes to an AI provider and prints what it says.

It drafts commit messages from staged changes, explains commits, ranges
and working tree diffs, and suggests git commands for a task described
in plain language. Providers: phind (default, no API key), openai, groq,
claude, ollama, deepseek.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool(flagVerbose)
			apperrors.SetVerbose(verbose)
		},
	}

	rootCmd.SetVersionTemplate(`lumen {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().StringP(flagProvider, "p", "", "AI provider ("+strings.Join(config.ProviderStrings(), ", ")+")")
	rootCmd.PersistentFlags().StringP(flagAPIKey, "k", "", "API key for the provider")
	rootCmd.PersistentFlags().StringP(flagModel, "m", "", "Model to use (default: the provider's default model)")
	rootCmd.PersistentFlags().String(flagConfig, "", "Config file path (default: ./"+config.FileName+", then the global file)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool(flagNoColor, false, "Disable colored output")

	rootCmd.AddCommand(NewDraftCmd())
	rootCmd.AddCommand(NewExplainCmd())
	rootCmd.AddCommand(NewOperateCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewConfigureCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// cliPartial collects the global flags the user set explicitly.
// Flags left at their zero value do not take part in the merge.
func cliPartial(cmd *cobra.Command) (config.Partial, error) {
	var p config.Partial

	if changed(cmd, flagProvider) {
		value, _ := cmd.Flags().GetString(flagProvider)
		name, ok := config.ParseProviderName(value)
		if !ok {
			return p, apperrors.NewInvalidProviderError(value, string(config.SourceCLI), config.ProviderStrings())
		}
		p.Provider = &name
	}
	if changed(cmd, flagModel) {
		value, _ := cmd.Flags().GetString(flagModel)
		p.Model = &value
	}
	if changed(cmd, flagAPIKey) {
		value, _ := cmd.Flags().GetString(flagAPIKey)
		p.APIKey = &value
	}

	return p, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// loadConfig resolves the effective configuration for cmd. The project
// root is the enclosing git repository, if any.
func loadConfig(cmd *cobra.Command, gitClient git.Client) (*config.Config, error) {
	cli, err := cliPartial(cmd)
	if err != nil {
		return nil, err
	}
	configPath, _ := cmd.Flags().GetString(flagConfig)

	// Outside a repository there is simply no project config.
	projectRoot, err := gitClient.TopLevel(cmd.Context())
	if err != nil {
		apperrors.Debug("No project root: %v", err)
		projectRoot = ""
	}

	cfg, err := config.Resolve(config.ResolveOptions{
		CLI:         cli,
		ConfigPath:  configPath,
		ProjectRoot: projectRoot,
	})
	if err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		apperrors.Debug("Using config file: %s", cfg.ConfigFile)
	}
	return cfg, nil
}

// colorEnabled honors --no-color and the NO_COLOR convention.
func colorEnabled(cmd *cobra.Command) bool {
	noColor, _ := cmd.Flags().GetBool(flagNoColor)
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

// newUIManager picks the terminal UI for cmd's writers.
func newUIManager(cmd *cobra.Command) ui.Manager {
	if !ui.IsInteractive() {
		return ui.NewNonInteractiveManager(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return ui.NewManagerWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorEnabled(cmd))
}

// newService wires the service for one command invocation.
func newService(cmd *cobra.Command) (*app.Service, error) {
	gitClient := git.NewClient()

	cfg, err := loadConfig(cmd, gitClient)
	if err != nil {
		return nil, err
	}

	dispatcher := ai.NewDispatcher(ai.NewHTTPTransport(0))
	return app.NewService(gitClient, dispatcher, newUIManager(cmd), cfg), nil
}
