package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <customers|contracts|requests|work>",
	Short: "Export raw records of one kind",
	Long: `Export dumps every record of the given kind in JSON (one per line) or CSV
format.

Output is written to stdout, suitable for piping to jq, spreadsheets, or
other processing tools. Unreadable rows are skipped with a warning on stderr.`,
	Example: `  maint export work
  maint export contracts --format csv > contracts.csv
  maint export requests | jq '.description'`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"customers", "contracts", "requests", "work"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}
		format := exportFormat
		if jsonOutput {
			format = "json"
		}
		if format != "json" && format != "csv" {
			return fmt.Errorf("unsupported format %q (use json or csv)", format)
		}
		return withStore(func(s store.Store) error {
			return runExport(context.Background(), s, kind, format, os.Stdout)
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(exportCmd)
}

// exportTable is one kind's records flattened for export.
type exportTable struct {
	records []any
	header  []string
	rows    [][]string
}

func runExport(ctx context.Context, s store.Store, kind model.Kind, format string, w io.Writer) error {
	t, err := exportKind(ctx, s, kind)
	if err := skipUnreadable(err); err != nil {
		return fmt.Errorf("export %s: %w", kind, err)
	}
	if format == "csv" {
		return writeCSV(w, t.header, t.rows)
	}
	return writeJSONLines(w, t.records)
}

func exportKind(ctx context.Context, s store.Store, kind model.Kind) (exportTable, error) {
	i := func(n int64) string { return strconv.FormatInt(n, 10) }
	var t exportTable
	switch kind {
	case model.KindCustomer:
		cs, err := s.ListCustomers(ctx)
		t.header = []string{"id", "name"}
		for _, c := range cs {
			t.records = append(t.records, c)
			t.rows = append(t.rows, []string{i(c.ID), c.Name})
		}
		return t, err
	case model.KindContract:
		cs, err := s.ListContracts(ctx)
		t.header = []string{"id", "customer_id", "start_date", "end_date", "total_points"}
		for _, c := range cs {
			t.records = append(t.records, c)
			t.rows = append(t.rows, []string{i(c.ID), i(c.CustomerID), c.StartDate.String(), c.EndDate.String(), i(c.TotalPoints)})
		}
		return t, err
	case model.KindRequest:
		rs, err := s.ListRequests(ctx)
		t.header = []string{"id", "contract_id", "description", "request_date"}
		for _, r := range rs {
			t.records = append(t.records, r)
			t.rows = append(t.rows, []string{i(r.ID), i(r.ContractID), r.Description, r.RequestDate.String()})
		}
		return t, err
	case model.KindWork:
		ws, err := s.ListWork(ctx)
		t.header = []string{"id", "request_id", "worker", "description", "points_used", "work_date"}
		for _, w := range ws {
			t.records = append(t.records, w)
			t.rows = append(t.rows, []string{i(w.ID), i(w.RequestID), w.Worker, w.Description, i(w.PointsUsed), w.WorkDate.String()})
		}
		return t, err
	}
	return t, fmt.Errorf("unknown kind %q", kind)
}

// writeJSONLines writes one JSON object per line (JSONL).
func writeJSONLines(w io.Writer, records []any) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}
	return nil
}

// writeCSV writes rows as CSV with a header row.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
