// Package cmd provides the root command and CLI setup for jlower.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jlower.dev/pkg/jlower/internal/adapter"
	"jlower.dev/pkg/jlower/internal/controller"
	"jlower.dev/pkg/jlower/internal/domain"
	m "jlower.dev/pkg/jlower/internal/model"
)

var javaAdapter adapter.JavaFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var lowerer domain.Lowerer
var workflow domain.Workflow
var ui controller.UI

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var (
	verboseFlag  bool
	logFileFlag  string
	numberedFlag bool
	seedFlag     int64
	prefixFlag   string
)

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	javaAdapter = adapter.NewLocalJavaFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	lowerer = &configuredLowerer{javaAdapter: javaAdapter}
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		lowerer,
	)
}

// configuredLowerer builds a lowerer from the settings in effect when a
// command runs, after flags, env and config file have been merged.
type configuredLowerer struct {
	javaAdapter adapter.JavaFileAdapter
}

func (c *configuredLowerer) current() domain.Lowerer {
	return domain.NewLowerer(c.javaAdapter, domain.NewNamerFactory(namerConfig()), lowererConfig())
}

func (c *configuredLowerer) Lower(ctx context.Context, src []byte) (m.LowerResult, error) {
	return c.current().Lower(ctx, src)
}

func (c *configuredLowerer) Estimate(ctx context.Context, src []byte) (m.Estimate, error) {
	return c.current().Estimate(ctx, src)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./a ./b        scan multiple directories`

const rootLongDescription = `jlower lowers Java source into a flat, explicit form: nested expressions
become sequences of single-operation temporaries, and field initializers move
into ordered initializer blocks. Untouched code keeps its formatting.

` + pathPatternsHelp

const lowerLongDescription = `Lower one Java file. The output path must not exist yet; the lowered
source is written there and printed to stdout.`

const batchLongDescription = `Lower every .java file under an input directory into the mirrored path
under an output directory. Files whose output already exists are skipped.
A YAML report of the run is written next to the outputs.`

const listLongDescription = `List Java files with the number of extraction candidates, uninitialized
fields and hoistable fields each starts with.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "jlower",
		Short:        "Java lowering tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVar(&numberedFlag, numberedFlagName, defaultNumbered, "name temporaries loweredV0, loweredV1, ... instead of random words")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(numberedFlagName), numberedConfigKey)

	cmd.PersistentFlags().Int64Var(&seedFlag, seedFlagName, defaultSeed, "seed for random temporary names")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(seedFlagName), seedConfigKey)

	cmd.PersistentFlags().StringVar(&prefixFlag, prefixFlagName, domain.DefaultNamePrefix, "prefix of numbered temporary names")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(prefixFlagName), prefixConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
