package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// initCmd creates the database and its tables.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and its tables",
	Long: `Init creates the SQLite database (and its parent directory) if needed and
makes sure every table exists. Existing tables and rows are left untouched,
so running it again is safe.

A database file that does not exist yet is initialized automatically by any
command; init is for files created some other way.`,
	Example: `  maint init
  maint init --db ./work.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Init(ctx); err != nil {
			return err
		}
		tables, err := s.Tables(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(os.Stdout, map[string]any{
				"db_path": dbPath(),
				"tables":  tables,
			})
		}
		fmt.Fprintf(os.Stdout, "Database ready at %s\n", dbPath())
		fmt.Fprintf(os.Stdout, "Tables: %s\n", strings.Join(tables, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
