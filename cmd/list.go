package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jlower.dev/pkg/jlower/internal/domain"
	m "jlower.dev/pkg/jlower/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List Java files and their lowering work",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = []m.Path{"./..."}
			}

			return workflow.Estimate(cmd.Context(), domain.EstimateArgs{
				Paths:   paths,
				Exclude: viper.GetStringSlice(excludeConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
