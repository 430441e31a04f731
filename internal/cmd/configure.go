package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/lumen-cli/lumen/internal/pkg/config"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
	"github.com/lumen-cli/lumen/internal/pkg/ui"
)

// NewConfigureCmd creates the configure command.
func NewConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Choose a provider, API key and model interactively",
		Long: `Choose a provider, API key and model interactively.

The answers are written to the global config file, or to the file given
with --config. Other settings in the file are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsInteractive() {
				return apperrors.NewInvalidArgumentsError("configure needs an interactive terminal; use 'lumen config set' instead")
			}
			cfgMgr, err := configManager(cmd)
			if err != nil {
				return err
			}
			if err := ui.RunConfigureWizard(cfgMgr, cmd.OutOrStdout()); err != nil && !errors.Is(err, ui.ErrCancelled) {
				return err
			}
			return nil
		},
	}
}

// configManager returns the manager for the file named by --config,
// or for the global config file.
func configManager(cmd *cobra.Command) (*config.Manager, error) {
	configPath, _ := cmd.Flags().GetString(flagConfig)
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigNotFound, "failed to locate the global config file")
	}
	return mgr, nil
}
