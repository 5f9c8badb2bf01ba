package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/torcs-qlearning/common"
)

var (
	flags          *common.Flags = common.DefaultFlags()
	savePath       string
	resourcesDir   string
	statisticsPath string
	statisticsDB   string

	policy  string
	epsilon float64
	seed    uint64

	maxEpochs            int
	maxConsecutiveErrors int
	progressFrequency    int
	recordTraces         bool
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&resourcesDir, "resources", flags.ResourcesDir, "Directory holding the Q-tables")
	cmd.PersistentFlags().StringVar(&statisticsPath, "statistics", flags.StatisticsPath, "Episode statistics file")
	cmd.PersistentFlags().StringVar(&statisticsDB, "statistics-db", flags.StatisticsDB, "SQLite database for the episode statistics, replaces the statistics file")

	cmd.PersistentFlags().StringVar(&policy, "policy", flags.Policy, "Policy to train with (qlearning or random)")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", flags.Epsilon, "Initial exploration rate")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Random seed, 0 seeds from the clock")

	cmd.PersistentFlags().IntVar(&maxEpochs, "max-epochs", flags.MaxEpochs, "Number of episodes to train, 0 for the whole feed")
	cmd.PersistentFlags().IntVar(&maxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive control errors")
	cmd.PersistentFlags().IntVar(&progressFrequency, "progress-frequency", int(flags.ProgressFrequency.Milliseconds()), "Progress refresh period in milliseconds")
	cmd.PersistentFlags().BoolVar(&recordTraces, "record-traces", flags.RecordTraces, "Write the tick trace of every episode under <save-path>/traces")
}

func UpdateFlags() {
	flags.SavePath = savePath
	flags.ResourcesDir = resourcesDir
	flags.StatisticsPath = statisticsPath
	flags.StatisticsDB = statisticsDB

	flags.Policy = policy
	flags.Epsilon = epsilon
	flags.Seed = seed

	flags.MaxEpochs = maxEpochs
	flags.MaxConsecutiveErrors = maxConsecutiveErrors
	flags.ProgressFrequency = time.Duration(progressFrequency) * time.Millisecond
	flags.RecordTraces = recordTraces
}
