package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/scbrown/maint/internal/analyze"
	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
)

var (
	addName        string
	addCustomerID  int64
	addContractID  int64
	addRequestID   int64
	addStart       string
	addEnd         string
	addPoints      int64
	addWorkPoints  int64
	addDescription string
	addDate        string
	addWorker      string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a customer, contract, request or work entry",
	Long: `Add inserts a new record. Identifiers are assigned by the database; use
maint list to see them.

Requests and work entries need a description. When --description is not
given, your editor ($VISUAL, $EDITOR or the "editor" config key) is opened to
write one.`,
}

var addCustomerCmd = &cobra.Command{
	Use:     "customer",
	Short:   "Add a new customer",
	Example: `  maint add customer --name "Acme"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := model.Customer{Name: strings.TrimSpace(addName)}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid customer: %w", err)
		}
		return withStore(func(s store.Store) error {
			n, err := s.AddCustomer(context.Background(), c)
			return reportAdded(model.KindCustomer, n, err)
		})
	},
}

var addContractCmd = &cobra.Command{
	Use:     "contract",
	Short:   "Add a new contract",
	Example: `  maint add contract --customer-id 1 --start 2025-01-01 --end 2025-12-31 --points 40`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDateFlag("start", addStart)
		if err != nil {
			return err
		}
		end, err := parseDateFlag("end", addEnd)
		if err != nil {
			return err
		}
		c := model.Contract{CustomerID: addCustomerID, StartDate: start, EndDate: end, TotalPoints: addPoints}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid contract: %w", err)
		}
		return withStore(func(s store.Store) error {
			n, err := s.AddContract(context.Background(), c)
			return reportAdded(model.KindContract, n, err)
		})
	},
}

var addRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Add a new request under a contract",
	Example: `  maint add request --contract-id 1 -d "Upgrade database"
  maint add request --contract-id 1 --date 2025-03-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		d, err := parseDateOrToday("date", addDate)
		if err != nil {
			return err
		}
		desc, err := description(ctx, cmd)
		if err != nil {
			return err
		}
		r := model.Request{ContractID: addContractID, Description: desc, RequestDate: d}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		return withStore(func(s store.Store) error {
			n, err := s.AddRequest(ctx, r)
			return reportAdded(model.KindRequest, n, err)
		})
	},
}

var addWorkCmd = &cobra.Command{
	Use:   "work",
	Short: "Log work against a request",
	Long: `Log work against a request. --worker defaults to the "default_worker"
config key. A worker name that has not been seen before but resembles a
known one prints a hint on stderr; the entry is still recorded.`,
	Example: `  maint add work --request-id 3 --worker alice -d "Patched kernel"
  maint add work --request-id 3 --points 4 --date 2025-03-02`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		worker := strings.TrimSpace(addWorker)
		if worker == "" {
			worker = cfg.DefaultWorker
		}
		if worker == "" {
			return errors.New("--worker is required (or set one with: maint config default_worker NAME)")
		}
		d, err := parseDateOrToday("date", addDate)
		if err != nil {
			return err
		}
		desc, err := description(ctx, cmd)
		if err != nil {
			return err
		}
		w := model.Work{RequestID: addRequestID, Worker: worker, Description: desc, PointsUsed: addWorkPoints, WorkDate: d}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("invalid work: %w", err)
		}
		return withStore(func(s store.Store) error {
			hintWorker(ctx, s, worker)
			n, err := s.AddWork(ctx, w)
			return reportAdded(model.KindWork, n, err)
		})
	},
}

func init() {
	addCustomerCmd.Flags().StringVar(&addName, "name", "", "name of the customer")
	addCustomerCmd.MarkFlagRequired("name")

	addContractCmd.Flags().Int64Var(&addCustomerID, "customer-id", 0, "ID of the customer for this contract")
	addContractCmd.Flags().StringVar(&addStart, "start", "", "start date of the contract (YYYY-MM-DD)")
	addContractCmd.Flags().StringVar(&addEnd, "end", "", "end date of the contract (YYYY-MM-DD)")
	addContractCmd.Flags().Int64Var(&addPoints, "points", 0, "total points budget")
	for _, f := range []string{"customer-id", "start", "end", "points"} {
		addContractCmd.MarkFlagRequired(f)
	}

	addRequestCmd.Flags().Int64Var(&addContractID, "contract-id", 0, "ID of the contract for this request")
	addRequestCmd.Flags().StringVarP(&addDescription, "description", "d", "", "description of the request (opens editor if omitted)")
	addRequestCmd.Flags().StringVar(&addDate, "date", "", "request date (YYYY-MM-DD, default today)")
	addRequestCmd.MarkFlagRequired("contract-id")

	addWorkCmd.Flags().Int64Var(&addRequestID, "request-id", 0, "ID of the request for this work")
	addWorkCmd.Flags().StringVar(&addWorker, "worker", "", "who did the work (default: config default_worker)")
	addWorkCmd.Flags().StringVarP(&addDescription, "description", "d", "", "description of the work (opens editor if omitted)")
	addWorkCmd.Flags().Int64Var(&addWorkPoints, "points", 1, "points used")
	addWorkCmd.Flags().StringVar(&addDate, "date", "", "work date (YYYY-MM-DD, default today)")
	addWorkCmd.MarkFlagRequired("request-id")

	addCmd.AddCommand(addCustomerCmd, addContractCmd, addRequestCmd, addWorkCmd)
	rootCmd.AddCommand(addCmd)
}

// withStore opens the store, runs fn and closes the store.
func withStore(fn func(s store.Store) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func reportAdded(kind model.Kind, n int64, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("Added %d %s.\n", n, kind)
	return nil
}

// parseDateFlag parses a required date flag value.
func parseDateFlag(name, value string) (model.Date, error) {
	d, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}

// parseDateOrToday parses an optional date flag value, defaulting to today.
func parseDateOrToday(name, value string) (model.Date, error) {
	if value == "" {
		return model.Today(), nil
	}
	return parseDateFlag(name, value)
}

// description returns --description if it was given, otherwise asks the
// editor for one. An empty result aborts.
func description(ctx context.Context, cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("description") {
		return strings.TrimSpace(addDescription), nil
	}
	text, err := newEditor(".txt").Edit(ctx, "")
	if err != nil {
		return "", fmt.Errorf("get description from editor: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("aborted: empty description")
	}
	return text, nil
}

// hintWorker prints a "did you mean" note when worker is new but close to a
// known worker name. Lookup failures are not fatal.
func hintWorker(ctx context.Context, s store.Store, worker string) {
	known, err := s.Workers(ctx)
	if err != nil {
		logger.Debug("list workers failed: " + err.Error())
		return
	}
	sugg := analyze.Suggest(worker, known)
	if len(sugg) == 0 {
		return
	}
	names := make([]string, len(sugg))
	for i, sg := range sugg {
		names[i] = fmt.Sprintf("%q", sg.Name)
	}
	fmt.Fprintf(os.Stderr, "note: %q is a new worker; did you mean %s?\n", worker, strings.Join(names, " or "))
}
