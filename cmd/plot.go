package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/torcs-qlearning/analysis"
	"github.com/zeu5/torcs-qlearning/util"
)

func PlotCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart the episode statistics as an HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, err := loadStatistics()
			if err != nil {
				return err
			}
			if output == "" {
				output = path.Join(flags.SavePath, "statistics.html")
			}
			if err := util.EnsureDir(output); err != nil {
				return err
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := analysis.PlotStatistics(file, "training progress", records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, defaults to <save-path>/statistics.html")

	return cmd
}
