package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/policies"
	"github.com/zeu5/torcs-qlearning/util"
)

func InspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <steer|accel>",
		Args:  cobra.ExactArgs(1),
		Short: "Print a persisted table with the best action of every state highlighted",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := tableDomain(args[0])
			if err != nil {
				return err
			}
			tablePath := policies.TablePath(flags.ResourcesDir, d)
			if !util.FileExists(tablePath) {
				return fmt.Errorf("no table at %s, run init or train first", tablePath)
			}
			table := policies.NewQTable(nil)
			if err := table.Read(tablePath, d); err != nil {
				return err
			}
			fd := os.Stdout.Fd()
			colors := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
			return renderTable(cmd.OutOrStdout(), table, d, aurora.NewAurora(colors))
		},
	}

	return cmd
}

// renderTable writes one row per state. The values equal to the row
// maximum are highlighted; a row of zeros is left plain.
func renderTable(w io.Writer, table *policies.QTable, d core.Domain, au aurora.Aurora) error {
	states, actions := d.States(), d.Actions()

	header := make([]string, 0, len(actions)+1)
	header = append(header, d.System().String())
	for _, a := range actions {
		header = append(header, a.Hash())
	}
	rows := make([][]string, 0, len(states))
	best := make([][]bool, 0, len(states))
	for _, s := range states {
		values, ok := table.GetAll(s.Hash())
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownState, s.Hash())
		}
		row := []string{s.Hash()}
		top, learned := 0.0, false
		for i, a := range actions {
			v := values[a.Hash()]
			if i == 0 || v > top {
				top = v
			}
			if v != 0 {
				learned = true
			}
			row = append(row, util.FormatDouble(v))
		}
		marks := make([]bool, len(row))
		for i, a := range actions {
			marks[i+1] = learned && values[a.Hash()] == top
		}
		rows = append(rows, row)
		best = append(best, marks)
	}

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = util.MaxInt(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := new(strings.Builder)
	for i, cell := range header {
		line.WriteString(au.Bold(runewidth.FillRight(cell, widths[i])).String())
		line.WriteString("  ")
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
		return err
	}
	for r, row := range rows {
		line.Reset()
		for i, cell := range row {
			padded := runewidth.FillRight(cell, widths[i])
			if i > 0 {
				padded = runewidth.FillLeft(cell, widths[i])
			}
			if best[r][i] {
				line.WriteString(au.Green(padded).String())
			} else {
				line.WriteString(padded)
			}
			line.WriteString("  ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
