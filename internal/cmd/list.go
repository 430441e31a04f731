package cmd

import (
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Pick a recent commit and explain it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(cmd)
			if err != nil {
				return err
			}
			return service.List(cmd.Context())
		},
	}
}
