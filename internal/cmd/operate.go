package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewOperateCmd creates the operate command.
func NewOperateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operate QUERY...",
		Short: "Suggest git commands for a task",
		Long: `Describe a task in plain language and get the git commands for it.

lumen only prints the commands; it never runs them.

Examples:
  lumen operate undo my last commit but keep the changes
  lumen operate "squash the last 3 commits"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}
			return service.Operate(cmd.Context(), strings.Join(args, " "))
		},
	}
}
