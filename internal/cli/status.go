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

var (
	statusOver bool
	statusDate string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize budget consumption for every contract",
	Long: `Status shows, for each contract, how many points have been used, how many
remain and when work was last logged. Over-budget contracts are flagged.`,
	Example: `  maint status
  maint status --over
  maint status --date 2025-06-30 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseDateOrToday("date", statusDate)
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			return runStatus(context.Background(), s, asOf)
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusOver, "over", false, "only show contracts over budget")
	statusCmd.Flags().StringVar(&statusDate, "date", "", "count work up to this date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context, s store.Store, asOf model.Date) error {
	all, err := s.Summaries(ctx, asOf)
	if err := skipUnreadable(err); err != nil {
		return err
	}

	sums := make([]store.ContractSummary, 0, len(all))
	for _, sum := range all {
		if statusOver && !sum.Exceeded() {
			continue
		}
		sums = append(sums, sum)
	}

	if ok, err := writeStructured(os.Stdout, outputFormat(formatTable), sums); ok {
		return err
	}

	if len(sums) == 0 {
		if statusOver {
			fmt.Println("No contracts over budget.")
		} else {
			fmt.Println("No contracts found.")
		}
		return nil
	}

	tbl := NewTable(os.Stdout, "CONTRACT", "CUSTOMER", "WINDOW", "USED", "TOTAL", "REMAINING", "LAST WORK", "")
	for _, sum := range sums {
		c := sum.Contract
		last := "-"
		if sum.LastWork != nil {
			last = humanize.RelTime(sum.LastWork.Time(), asOf.Time(), "ago", "later")
			if sum.LastWork.Compare(asOf) == 0 {
				last = "today"
			}
		}
		flag := ""
		if sum.Exceeded() {
			flag = "OVER"
		} else if !c.Contains(asOf) {
			flag = "inactive"
		}
		tbl.Row(
			strconv.FormatInt(c.ID, 10),
			truncate(sum.Customer, 30),
			c.StartDate.String()+" to "+c.EndDate.String(),
			humanize.Comma(sum.Used),
			humanize.Comma(c.TotalPoints),
			humanize.Comma(sum.Remaining),
			last,
			flag,
		)
	}
	return tbl.Flush()
}
