package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/torcs-qlearning/analysis"
	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/driver"
	"github.com/zeu5/torcs-qlearning/feeds"
)

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <feed.jsonl>",
		Args:  cobra.ExactArgs(1),
		Short: "Train the steering and acceleration controllers over a recorded sensor feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)

			doneCh := make(chan struct{})

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()
			defer close(doneCh)

			feed, err := feeds.OpenJSONLFeed(args[0])
			if err != nil {
				return err
			}
			defer feed.Close()

			statistics, closeStatistics, err := openStatistics()
			if err != nil {
				return err
			}
			defer closeStatistics()

			constructor, err := policyConstructor(statistics)
			if err != nil {
				return err
			}
			rewards := analysis.NewRewardAnalyzer(core.Steering, core.Acceleration)
			analyzers := []core.Analyzer{rewards}
			if flags.RecordTraces {
				analyzers = append(analyzers, analysis.NewPrintDebugAnalyzer(flags.SavePath, 0))
			}
			trainer, err := driver.NewTrainer(ctx, driver.TrainerConfig{
				Policies:  constructor,
				Analyzers: analyzers,
			})
			if err != nil {
				return err
			}
			log.Printf("[TRAIN] session %s, policy %s, tables in %s", trainer.Session(), flags.Policy, flags.ResourcesDir)

			result := core.Run(ctx, feed, trainer, flags.RunConfig(), cmd.OutOrStdout())
			if err := rewards.Save(path.Join(flags.SavePath, "rewards.json")); err != nil {
				log.Printf("[TRAIN] save rewards: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d ticks, %d episodes, %d control errors\n", result.Ticks, result.Epochs, result.ErrorTicks)
			if result.Interrupted {
				fmt.Fprintln(cmd.OutOrStdout(), "interrupted")
			}
			return result.Error
		},
	}

	return cmd
}
