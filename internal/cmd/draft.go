package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lumen-cli/lumen/internal/app"
)

// NewDraftCmd creates the draft command.
func NewDraftCmd() *cobra.Command {
	opts := app.DraftOptions{}

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Generate a commit message for the staged changes",
		Long: `Generate a commit message for the staged changes.

The message is printed without a trailing newline so it can be passed
straight to git.

Examples:
  lumen draft
  lumen draft -c "closes #42"
  lumen draft | git commit -F -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}
			return service.Draft(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Context, "context", "c", "", "Extra context about the intent of the changes")

	return cmd
}
