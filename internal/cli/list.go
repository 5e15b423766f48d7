package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/record"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <customers|contracts|requests|work>",
	Short: "List records of one kind",
	Long: `List displays every record of the given kind, ordered by ID.

Rows that cannot be read (for example a date edited by hand into something
that is not YYYY-MM-DD) are skipped with a warning on stderr; the rest are
still listed.`,
	Example: `  maint list customers
  maint list contracts --json
  maint list work --yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"customers", "contracts", "requests", "work"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			return runList(context.Background(), s, kind)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// listing is the rendered form of one kind's records.
type listing struct {
	records any
	ids     []int64
	items   []any
	headers []string
	rows    [][]string
}

func (l *listing) add(id int64, item any, row ...string) {
	l.ids = append(l.ids, id)
	l.items = append(l.items, item)
	l.rows = append(l.rows, row)
}

func runList(ctx context.Context, s store.Store, kind model.Kind) error {
	l, err := listKind(ctx, s, kind)
	if err := skipUnreadable(err); err != nil {
		return fmt.Errorf("list %s: %w", kind, err)
	}

	switch outputFormat(formatTable) {
	case formatJSON:
		return writeJSON(os.Stdout, l.records)
	case formatYAML:
		return record.WriteList(os.Stdout, l.ids, l.items)
	}

	if len(l.rows) == 0 {
		fmt.Printf("No %s records found.\n", kind)
		return nil
	}
	tbl := NewTable(os.Stdout, l.headers...)
	for _, r := range l.rows {
		tbl.Row(r...)
	}
	return tbl.Flush()
}

// listKind loads every record of kind. Decode errors are returned alongside
// the readable records.
func listKind(ctx context.Context, s store.Store, kind model.Kind) (listing, error) {
	id := func(n int64) string { return strconv.FormatInt(n, 10) }
	switch kind {
	case model.KindCustomer:
		cs, err := s.ListCustomers(ctx)
		l := listing{records: nonNil(cs), headers: []string{"ID", "NAME"}}
		for _, c := range cs {
			l.add(c.ID, c, id(c.ID), truncate(c.Name, 60))
		}
		return l, err
	case model.KindContract:
		cs, err := s.ListContracts(ctx)
		l := listing{records: nonNil(cs), headers: []string{"ID", "CUSTOMER", "START", "END", "POINTS"}}
		for _, c := range cs {
			l.add(c.ID, c, id(c.ID), id(c.CustomerID), c.StartDate.String(), c.EndDate.String(), id(c.TotalPoints))
		}
		return l, err
	case model.KindRequest:
		rs, err := s.ListRequests(ctx)
		l := listing{records: nonNil(rs), headers: []string{"ID", "CONTRACT", "DATE", "DESCRIPTION"}}
		for _, r := range rs {
			l.add(r.ID, r, id(r.ID), id(r.ContractID), r.RequestDate.String(), truncate(r.Description, 60))
		}
		return l, err
	case model.KindWork:
		ws, err := s.ListWork(ctx)
		l := listing{records: nonNil(ws), headers: []string{"ID", "REQUEST", "DATE", "WORKER", "POINTS", "DESCRIPTION"}}
		for _, w := range ws {
			l.add(w.ID, w, id(w.ID), id(w.RequestID), w.WorkDate.String(), w.Worker, id(w.PointsUsed), truncate(w.Description, 50))
		}
		return l, err
	}
	return listing{}, fmt.Errorf("unknown kind %q", kind)
}

// nonNil makes an empty listing encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
