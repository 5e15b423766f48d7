package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage <contract-id> [date]",
	Short: "Show the running points total of a contract",
	Long: `Usage lists every work entry logged against requests dated inside the
contract's window, in order of request date then work date, with the running
total of points used so far.

Requests dated outside the window do not count, even if their work was done
during it. With a date argument only work dated on or before that day is
included; it defaults to today.`,
	Example: `  maint usage 1
  maint usage 1 2025-06-30
  maint usage 1 --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		asOf := model.Today()
		if len(args) == 2 {
			if asOf, err = model.ParseDate(args[1]); err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
		}
		return withStore(func(s store.Store) error {
			return runUsage(context.Background(), s, id, asOf)
		})
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runUsage(ctx context.Context, s store.Store, id int64, asOf model.Date) error {
	u, err := s.UsageAsOf(ctx, id, asOf)
	if len(store.DecodeErrors(err)) > 0 {
		fmt.Fprintln(os.Stderr, "warning: cumulative totals still include the points of skipped rows")
	}
	if err := skipUnreadable(err); err != nil {
		return err
	}

	if ok, err := writeStructured(os.Stdout, outputFormat(formatTable), u); ok {
		return err
	}

	fmt.Printf("Contract %d: %s to %s, %s points\n", id, u.StartDate, u.EndDate, humanize.Comma(u.TotalPoints))
	if len(u.CumulativeUsage) == 0 {
		fmt.Printf("No work logged as of %s.\n", asOf)
		return nil
	}

	fmt.Println()
	tbl := NewTable(os.Stdout, "REQUEST_DATE", "REQUEST", "WORKER", "WORK_DATE", "WORK", "POINTS", "CUMULATIVE")
	for _, e := range u.CumulativeUsage {
		tbl.Row(
			e.RequestDate.String(),
			truncate(e.RequestDescription, 30),
			e.Worker,
			e.WorkDate.String(),
			truncate(e.WorkDescription, 30),
			strconv.FormatInt(e.PointsUsed, 10),
			strconv.FormatInt(e.CumulativePointsUsed, 10),
		)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(budgetLine(u))
	return nil
}

// budgetLine summarizes consumption against the contract's budget.
func budgetLine(u model.ContractUsage) string {
	used, total := u.Used(), u.TotalPoints
	line := fmt.Sprintf("Used %s of %s points", humanize.Comma(used), humanize.Comma(total))
	if total > 0 {
		line += fmt.Sprintf(" (%s)", percent(used, total))
	}
	if u.Exceeded() {
		return line + fmt.Sprintf(", %s over budget", humanize.Comma(used-total))
	}
	return line + fmt.Sprintf(", %s remaining", humanize.Comma(total-used))
}

func percent(used, total int64) string {
	return humanize.FtoaWithDigits(float64(used)*100/float64(total), 1) + "%"
}
