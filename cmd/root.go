package cmd

import "github.com/spf13/cobra"

const logLevelFlag = "log-level"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qw",
		Short:         "queuewatch (qw): rotate accounts through a server queue and record positions",
		Long:          "qw (queuewatch) keeps a pool of accounts waiting in a game server queue, spreads them over parallel lanes within a rate-limit window, and records every reported queue position for later analysis.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String(logLevelFlag, "", "Log level (trace, debug, info, warn, error); overrides log.level")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newAuthCmd(app),
		newRecordsCmd(app),
		newRunCmd(app),
	)

	return rootCmd
}
