package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/torcs-qlearning/policies"
	"github.com/zeu5/torcs-qlearning/util"
)

func InitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write all-zero steering and acceleration tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"steer", "accel"} {
				d, err := tableDomain(name)
				if err != nil {
					return err
				}
				tablePath := policies.TablePath(flags.ResourcesDir, d)
				if util.FileExists(tablePath) && !force {
					fmt.Fprintf(cmd.OutOrStdout(), "%s exists, skipping\n", tablePath)
					continue
				}
				table := policies.NewQTable(nil)
				table.Fill(d)
				if err := table.Write(tablePath, d); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", tablePath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing tables")

	return cmd
}
