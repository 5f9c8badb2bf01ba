package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "torcs-qlearning",
		Short: "Train and inspect the Q-learning controllers of a TORCS driver",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			UpdateFlags()
			if err := flags.Record(); err != nil {
				log.Printf("[CMD] record config: %v", err)
			}
		},
		SilenceUsage: true,
	}
	flags.LoadEnv()
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
		InitCommand(),
		InspectCommand(),
		StatsCommand(),
		PlotCommand(),
	)

	return cmd
}
