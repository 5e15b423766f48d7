package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/scbrown/maint/internal/ingest"
	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <customers|contracts|requests|work> [file]",
	Short: "Import records exported as JSON lines",
	Long: `Import reads records in the format written by maint export (one JSON object
per line) from a file or stdin and adds them.

Identifiers in the input are ignored and new ones are assigned, so import
kinds in dependency order (customers, contracts, requests, work) into an empty
database to keep references intact. If any line is invalid nothing is added.`,
	Example: `  maint export customers > customers.jsonl
  maint import customers customers.jsonl --db ./copy.db
  maint export work | maint import work --db ./copy.db`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 2 && args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		return withStore(func(s store.Store) error {
			res, err := ingest.Records(context.Background(), s, kind, r)
			if err != nil {
				return fmt.Errorf("import %s: %w", kind, err)
			}
			if jsonOutput {
				return writeJSON(os.Stdout, res)
			}
			fmt.Printf("Imported %d %s records.\n", res.Added, kind)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
