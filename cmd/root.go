// Package cmd provides the root command and CLI setup for polymut.
package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/polymut/internal/adapter"
	"gooze.dev/pkg/polymut/internal/controller"
	"gooze.dev/pkg/polymut/internal/domain"
	m "gooze.dev/pkg/polymut/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var syntaxAdapter adapter.SyntaxAdapter
var testAdapter adapter.TestRunnerAdapter
var reportStore adapter.ReportStore
var stateStore adapter.StateStore
var vcsAdapter adapter.VCSAdapter
var mutagen domain.Mutagen
var workflow domain.Workflow
var ui controller.UI

// Root-level flags shared by the commands that select mutations or read reports.
var (
	reportsOutputDirFlag string
	stateDirFlag         string
	includePatterns      []string
	excludePatterns      []string
	operatorsFlag        []string
	shardFlag            string
	incrementalFlag      bool
	baseRefFlag          string
	sampleFlag           int
	seedFlag             uint64
	hintsFileFlag        string
	verboseFlag          bool
	logFileFlag          string
)

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	syntaxAdapter = adapter.NewTreeSitterAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	reportStore = adapter.NewReportStore()
	stateStore = adapter.NewDiskStateStore()
	vcsAdapter = adapter.NewGitAdapter()
	mutagen = domain.NewMutagen(syntaxAdapter, fsAdapter, runtime.NumCPU())
	workflow = domain.NewWorkflow(
		fsAdapter,
		testAdapter,
		reportStore,
		stateStore,
		ui,
		domain.NewSourceIndex(fsAdapter),
		mutagen,
		domain.NewSelector(vcsAdapter),
		domain.NewPrioritizer(nil, fsAdapter),
		domain.NewWorkspaces(fsAdapter),
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./web    scan multiple directories (not recursive)
  - ./web/app.ts   a single file`

const rootLongDescription = `Polymut is a mutation testing tool for Go, JavaScript and TypeScript
projects. It makes small changes (mutations) to your code, runs your test
suite against each one and reports the mutations your tests did not catch.

` + pathPatternsHelp

const runLongDescription = `Run mutation testing for the given paths (default: run.root, ./...).

Files are restored after every mutation. Interrupting a run keeps the
outcomes recorded so far and saves a partial report.

` + pathPatternsHelp

const listLongDescription = `List source files and the number of mutations a run would test.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "polymut",
		Short:        "Mutation testing for Go, JavaScript and TypeScript",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&reportsOutputDirFlag, outputFlagName, "o", defaultReportsDir, "output directory for mutation testing reports")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputConfigKey)

	flags.StringVar(&stateDirFlag, stateDirFlagName, domain.DefaultStateDir, "directory for backups and the run lock, relative to the project root")
	bindFlagToConfig(flags.Lookup(stateDirFlagName), stateDirKey)

	flags.StringArrayVarP(&includePatterns, includeFlagName, "i", nil, "only mutate files matching the glob (can be repeated)")
	bindFlagToConfig(flags.Lookup(includeFlagName), includeConfigKey)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "skip files matching the glob (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringSliceVar(&operatorsFlag, operatorsFlagName, nil, "comma separated mutation operators (default: all)")
	bindFlagToConfig(flags.Lookup(operatorsFlagName), operatorsKey)

	flags.StringVarP(&shardFlag, shardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")

	flags.BoolVar(&incrementalFlag, incrementalFlagName, false, "only mutate files changed since the base ref")
	bindFlagToConfig(flags.Lookup(incrementalFlagName), incrementalKey)

	flags.StringVar(&baseRefFlag, baseRefFlagName, defaultBaseRef, "git ref incremental mode compares against")
	bindFlagToConfig(flags.Lookup(baseRefFlagName), baseRefKey)

	flags.IntVar(&sampleFlag, sampleFlagName, 0, "test a deterministic sample of this many mutations (0 tests all)")
	bindFlagToConfig(flags.Lookup(sampleFlagName), sampleKey)

	flags.Uint64Var(&seedFlag, seedFlagName, defaultSeed, "seed for sampling")
	bindFlagToConfig(flags.Lookup(seedFlagName), seedKey)

	flags.StringVar(&hintsFileFlag, hintsFlagName, "", "YAML file with priority hints for scheduling")
	bindFlagToConfig(flags.Lookup(hintsFlagName), hintsFileKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", false, "write debug logs")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
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
	err := rootCmd.Execute()
	if err != nil {
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

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
