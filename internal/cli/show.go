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

var showCmd = &cobra.Command{
	Use:   "show <customer|contract|request|work> <id>",
	Short: "Show one record",
	Long: `Show prints a single record as YAML, the same text maint edit opens in
your editor. Use --json for JSON including the id.`,
	Example: `  maint show contract 1
  maint show work 12 --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseKindID(args[0], args[1])
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			v, err := getRecord(context.Background(), s, kind, id)
			if err != nil {
				return err
			}
			if outputFormat(formatYAML) == formatJSON {
				return writeJSON(os.Stdout, v)
			}
			fmt.Printf("# %s %d\n", kind, id)
			return record.Write(os.Stdout, v)
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// parseKindID parses a "<kind> <id>" argument pair.
func parseKindID(kindArg, idArg string) (model.Kind, int64, error) {
	kind, err := model.ParseKind(kindArg)
	if err != nil {
		return "", 0, err
	}
	id, err := parseID(idArg)
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

// parseID parses a positive record identifier.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

// getRecord fetches one record of kind by id.
func getRecord(ctx context.Context, s store.Store, kind model.Kind, id int64) (any, error) {
	switch kind {
	case model.KindCustomer:
		return s.GetCustomer(ctx, id)
	case model.KindContract:
		return s.GetContract(ctx, id)
	case model.KindRequest:
		return s.GetRequest(ctx, id)
	case model.KindWork:
		return s.GetWork(ctx, id)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
