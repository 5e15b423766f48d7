package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/record"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	editName        string
	editCustomerID  int64
	editContractID  int64
	editRequestID   int64
	editStart       string
	editEnd         string
	editPoints      int64
	editDescription string
	editDate        string
	editWorker      string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a customer, contract, request or work entry",
	Long: `Edit changes an existing record.

With field flags, only those fields are changed. Without them the record is
opened as YAML in your editor ($VISUAL, $EDITOR or the "editor" config key);
save and quit to apply. The id cannot be changed. If the edited text does not
parse or fails validation, nothing is written.`,
}

// recordEditor is the per-kind plumbing shared by the edit subcommands.
type recordEditor[T any] struct {
	kind  model.Kind
	get   func(context.Context, store.Store, int64) (T, error)
	parse func(string, int64) (T, error)
	save  func(context.Context, store.Store, T) (int64, error)
	// apply copies changed field flags onto the record.
	apply func(*pflag.FlagSet, *T) error
	valid func(T) error
}

var (
	customerEditor = recordEditor[model.Customer]{
		kind:  model.KindCustomer,
		get:   func(ctx context.Context, s store.Store, id int64) (model.Customer, error) { return s.GetCustomer(ctx, id) },
		parse: record.ParseCustomer,
		save:  func(ctx context.Context, s store.Store, c model.Customer) (int64, error) { return s.SaveCustomer(ctx, c) },
		apply: func(fs *pflag.FlagSet, c *model.Customer) error {
			if fs.Changed("name") {
				c.Name = strings.TrimSpace(editName)
			}
			return nil
		},
		valid: model.Customer.Validate,
	}
	contractEditor = recordEditor[model.Contract]{
		kind:  model.KindContract,
		get:   func(ctx context.Context, s store.Store, id int64) (model.Contract, error) { return s.GetContract(ctx, id) },
		parse: record.ParseContract,
		save:  func(ctx context.Context, s store.Store, c model.Contract) (int64, error) { return s.SaveContract(ctx, c) },
		apply: func(fs *pflag.FlagSet, c *model.Contract) error {
			var err error
			if fs.Changed("customer-id") {
				c.CustomerID = editCustomerID
			}
			if fs.Changed("start") {
				if c.StartDate, err = parseDateFlag("start", editStart); err != nil {
					return err
				}
			}
			if fs.Changed("end") {
				if c.EndDate, err = parseDateFlag("end", editEnd); err != nil {
					return err
				}
			}
			if fs.Changed("points") {
				c.TotalPoints = editPoints
			}
			return nil
		},
		valid: model.Contract.Validate,
	}
	requestEditor = recordEditor[model.Request]{
		kind:  model.KindRequest,
		get:   func(ctx context.Context, s store.Store, id int64) (model.Request, error) { return s.GetRequest(ctx, id) },
		parse: record.ParseRequest,
		save:  func(ctx context.Context, s store.Store, r model.Request) (int64, error) { return s.SaveRequest(ctx, r) },
		apply: func(fs *pflag.FlagSet, r *model.Request) error {
			var err error
			if fs.Changed("contract-id") {
				r.ContractID = editContractID
			}
			if fs.Changed("description") {
				r.Description = strings.TrimSpace(editDescription)
			}
			if fs.Changed("date") {
				if r.RequestDate, err = parseDateFlag("date", editDate); err != nil {
					return err
				}
			}
			return nil
		},
		valid: model.Request.Validate,
	}
	workEditor = recordEditor[model.Work]{
		kind:  model.KindWork,
		get:   func(ctx context.Context, s store.Store, id int64) (model.Work, error) { return s.GetWork(ctx, id) },
		parse: record.ParseWork,
		save:  func(ctx context.Context, s store.Store, w model.Work) (int64, error) { return s.SaveWork(ctx, w) },
		apply: func(fs *pflag.FlagSet, w *model.Work) error {
			var err error
			if fs.Changed("request-id") {
				w.RequestID = editRequestID
			}
			if fs.Changed("worker") {
				w.Worker = strings.TrimSpace(editWorker)
			}
			if fs.Changed("description") {
				w.Description = strings.TrimSpace(editDescription)
			}
			if fs.Changed("points") {
				w.PointsUsed = editPoints
			}
			if fs.Changed("date") {
				if w.WorkDate, err = parseDateFlag("date", editDate); err != nil {
					return err
				}
			}
			return nil
		},
		valid: model.Work.Validate,
	}
)

// command builds the "edit <kind> <id>" subcommand.
func (e recordEditor[T]) command(example string, flags func(*pflag.FlagSet)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(e.kind) + " <id>",
		Short:   fmt.Sprintf("Edit a %s", e.kind),
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(func(s store.Store) error {
				return e.run(context.Background(), s, id, cmd.LocalNonPersistentFlags())
			})
		},
	}
	flags(cmd.Flags())
	return cmd
}

// run edits record id. Changed field flags are applied directly; otherwise
// the record goes through the editor.
func (e recordEditor[T]) run(ctx context.Context, s store.Store, id int64, fs *pflag.FlagSet) error {
	current, err := e.get(ctx, s, id)
	if err != nil {
		return err
	}

	var updated T
	if fieldFlagsChanged(fs) {
		updated = current
		if err := e.apply(fs, &updated); err != nil {
			return err
		}
		if err := e.valid(updated); err != nil {
			return fmt.Errorf("invalid %s: %w", e.kind, err)
		}
	} else {
		text, err := record.Marshal(current)
		if err != nil {
			return err
		}
		initial := fmt.Sprintf("# %s %d\n%s", e.kind, id, text)
		edited, err := newEditor(".yaml").Edit(ctx, initial)
		if err != nil {
			return fmt.Errorf("edit %s %d: %w", e.kind, id, err)
		}
		if strings.TrimSpace(edited) == strings.TrimSpace(initial) {
			fmt.Println("No changes.")
			return nil
		}
		if updated, err = e.parse(edited, id); err != nil {
			return err
		}
	}

	n, err := e.save(ctx, s, updated)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", e.kind, id, store.ErrNotFound)
	}
	fmt.Printf("Updated %s %d.\n", e.kind, id)
	return nil
}

// fieldFlagsChanged reports whether any local flag was set.
func fieldFlagsChanged(fs *pflag.FlagSet) bool {
	changed := false
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed && f.Name != "help" {
			changed = true
		}
	})
	return changed
}

func init() {
	editCmd.AddCommand(
		customerEditor.command(`  maint edit customer 1
  maint edit customer 1 --name "Acme Ltd"`, func(fs *pflag.FlagSet) {
			fs.StringVar(&editName, "name", "", "new name")
		}),
		contractEditor.command(`  maint edit contract 2
  maint edit contract 2 --end 2026-06-30 --points 60`, func(fs *pflag.FlagSet) {
			fs.Int64Var(&editCustomerID, "customer-id", 0, "new customer ID")
			fs.StringVar(&editStart, "start", "", "new start date (YYYY-MM-DD)")
			fs.StringVar(&editEnd, "end", "", "new end date (YYYY-MM-DD)")
			fs.Int64Var(&editPoints, "points", 0, "new total points budget")
		}),
		requestEditor.command(`  maint edit request 3
  maint edit request 3 --date 2025-02-01`, func(fs *pflag.FlagSet) {
			fs.Int64Var(&editContractID, "contract-id", 0, "new contract ID")
			fs.StringVarP(&editDescription, "description", "d", "", "new description")
			fs.StringVar(&editDate, "date", "", "new request date (YYYY-MM-DD)")
		}),
		workEditor.command(`  maint edit work 7
  maint edit work 7 --points 3 --worker alice`, func(fs *pflag.FlagSet) {
			fs.Int64Var(&editRequestID, "request-id", 0, "new request ID")
			fs.StringVar(&editWorker, "worker", "", "new worker")
			fs.StringVarP(&editDescription, "description", "d", "", "new description")
			fs.Int64Var(&editPoints, "points", 0, "new points used")
			fs.StringVar(&editDate, "date", "", "new work date (YYYY-MM-DD)")
		}),
	)
	rootCmd.AddCommand(editCmd)
}
