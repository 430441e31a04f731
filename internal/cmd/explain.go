package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lumen-cli/lumen/internal/app"
)

// NewExplainCmd creates the explain command.
func NewExplainCmd() *cobra.Command {
	opts := app.ExplainOptions{}

	cmd := &cobra.Command{
		Use:   "explain [REF]",
		Short: "Explain a commit, a range or the working tree diff",
		Long: `Explain a commit, a range of commits or the working tree diff.

REF is a commit (HEAD, a hash, a branch), a range a..b, or a...b to
compare against the merge base. An empty side of a range means HEAD.

Examples:
  lumen explain HEAD
  lumen explain main..feature
  lumen explain main...
  lumen explain --diff --staged
  lumen explain HEAD~2 -q "is this safe to revert?"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Ref = args[0]
			}
			service, err := newService(cmd)
			if err != nil {
				return err
			}
			return service.Explain(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Explain the working tree diff instead of a commit")
	cmd.Flags().BoolVar(&opts.Staged, "staged", false, "With --diff, explain only staged changes")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "A question to answer about the changes")

	return cmd
}
