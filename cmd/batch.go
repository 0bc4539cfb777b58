package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jlower.dev/pkg/jlower/internal/domain"
	m "jlower.dev/pkg/jlower/internal/model"
)

var batchParallelFlag int
var batchReportFlag string

// batchCmd represents the batch command.
var batchCmd = newBatchCmd()

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Lower a directory tree of Java files",
		Long:  batchLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Batch(cmd.Context(), domain.BatchArgs{
				Input:   m.Path(args[0]),
				Output:  m.Path(args[1]),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetInt(parallelConfigKey),
				Report:  m.Path(viper.GetString(reportConfigKey)),
			})
		},
	}

	configureBatchFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func configureBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&batchParallelFlag, parallelFlagName, "p", defaultBatchParallel, "number of files lowered in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().StringVar(&batchReportFlag, reportFlagName, defaultReport, "report path (default <output-dir>/"+domain.DefaultReportName+")")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportConfigKey)
}
