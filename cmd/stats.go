package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/torcs-qlearning/analysis"
)

func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the episode statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, skipped, err := loadStatistics()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), analysis.Summarize(records).String())
			if skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %d unrecognized lines\n", skipped)
			}
			return nil
		},
	}

	return cmd
}

func loadStatistics() ([]analysis.EpisodeStatistics, int, error) {
	statistics, closeStatistics, err := openStatistics()
	if err != nil {
		return nil, 0, err
	}
	defer closeStatistics()

	lines, err := statistics.Lines()
	if err != nil {
		return nil, 0, err
	}
	records, skipped := analysis.ParseStatisticsLines(lines)
	return records, skipped, nil
}
