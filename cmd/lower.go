package cmd

import (
	"github.com/spf13/cobra"

	"jlower.dev/pkg/jlower/internal/domain"
	m "jlower.dev/pkg/jlower/internal/model"
)

var lowerDiffFlag bool

// lowerCmd represents the lower command.
var lowerCmd = newLowerCmd()

func newLowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower <input> <output>",
		Short: "Lower a single Java file",
		Long:  lowerLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Lower(cmd.Context(), domain.LowerArgs{
				Input:  m.Path(args[0]),
				Output: m.Path(args[1]),
				Diff:   lowerDiffFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&lowerDiffFlag, diffFlagName, false, "also print a unified diff to stderr")

	return cmd
}

func init() {
	rootCmd.AddCommand(lowerCmd)
}
