package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/polymut/internal/domain"
	m "gooze.dev/pkg/polymut/internal/model"
)

// recoverCmd represents the recover command.
var recoverCmd = newRecoverCmd()

func newRecoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover [path]",
		Short: "Restore files left mutated by an interrupted run",
		Long: `Restore every file backed up by a run that did not finish, for example
after the process was killed. run does this automatically before it starts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = []m.Path{"."}
			}

			return workflow.Recover(cmd.Context(), domain.RecoverArgs{
				Paths:    paths,
				StateDir: m.Path(viper.GetString(stateDirKey)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(recoverCmd)
}
