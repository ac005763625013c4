package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execution flags of run.
var (
	runParallelFlag   int
	mutationTimeout   string
	timeoutFactorFlag float64
	thresholdFlag     float64
	failFastFlag      bool
	isolationFlag     string
	testCommandFlag   string
	skipBaselineFlag  bool
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			testArgs, err := testArgsFromConfig(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Test(ctx, testArgs)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.IntVarP(&runParallelFlag, runParallelFlagName, "p", 0, "number of parallel workers (default: number of CPUs)")
	bindFlagToConfig(flags.Lookup(runParallelFlagName), runParallelConfigKey)

	flags.StringVar(&mutationTimeout, mutationTimeoutFlag, defaultMutationTimeout.String(), "minimum time limit for the tests of one mutation")
	bindFlagToConfig(flags.Lookup(mutationTimeoutFlag), mutationTimeoutKey)

	flags.Float64Var(&timeoutFactorFlag, timeoutFactorFlagName, defaultTimeoutFactor, "multiple of the baseline duration allowed per mutation")
	bindFlagToConfig(flags.Lookup(timeoutFactorFlagName), timeoutFactorKey)

	flags.Float64VarP(&thresholdFlag, thresholdFlagName, "t", 0, "minimum mutation score in percent; run fails below it")
	bindFlagToConfig(flags.Lookup(thresholdFlagName), thresholdKey)

	flags.BoolVar(&failFastFlag, failFastFlagName, false, "stop once the threshold can no longer be reached")
	bindFlagToConfig(flags.Lookup(failFastFlagName), failFastKey)

	flags.StringVar(&isolationFlag, isolationFlagName, defaultIsolation, "where mutations are applied: auto, inplace or copy")
	bindFlagToConfig(flags.Lookup(isolationFlagName), isolationKey)

	flags.StringVar(&testCommandFlag, testCommandFlagName, "", "test command (default: go test ./... or npm test)")
	bindFlagToConfig(flags.Lookup(testCommandFlagName), testCommandKey)

	flags.BoolVar(&skipBaselineFlag, skipBaselineFlagName, false, "do not run the tests on the unmutated project first")
	bindFlagToConfig(flags.Lookup(skipBaselineFlagName), skipBaselineKey)
}
