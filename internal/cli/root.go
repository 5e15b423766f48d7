// Package cli defines the cobra command tree for the maint CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/scbrown/maint/internal/config"
	"github.com/scbrown/maint/internal/editor"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dbFlag     string
	jsonOutput bool
	yamlOutput bool
	verbose    bool

	// cfg is loaded before every command runs.
	cfg = &config.Config{}
	// logger is replaced with a debug logger by --verbose.
	logger = zap.NewNop()
)

// configPath is the path to the config file, settable for testing.
var configPath = config.Path()

// newEditor returns the editor used for descriptions and edit flows,
// replaceable in tests.
var newEditor = func(suffix string) editor.Editor {
	return editor.Command{Name: editor.Resolve(cfg.Editor), Suffix: suffix}
}

// rootCmd is the top-level maint command.
var rootCmd = &cobra.Command{
	Use:   "maint",
	Short: "Track maintenance contracts, requests and the work done on them",
	Long: `maint records customers, the points-budget contracts they sign, the
requests raised under each contract and the work logged against each request.
The usage report shows how much of a contract's budget has been consumed over
time.

Data is stored in a SQLite database at ~/.maint.db (override with the MAINT_DB
environment variable, the --db flag, or maint config db_path).`,
	Example: `  # Set up a customer and a yearly contract
  maint add customer --name "Acme"
  maint add contract --customer-id 1 --start 2025-01-01 --end 2025-12-31 --points 40

  # Log a request and the work done on it
  maint add request --contract-id 1 -d "Renew TLS certificates"
  maint add work --request-id 1 --worker alice --points 2 -d "Rotated certs"

  # See where the budget went
  maint usage 1
  maint status`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			loaded = &config.Config{}
		}
		cfg = loaded
		logger = newLogger(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "path to SQLite database (default $MAINT_DB or ~/.maint.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output in YAML format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// newLogger returns a human-readable debug logger on stderr when verbose is
// set and a no-op logger otherwise.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	l, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: build logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

// dbPath returns the database location for this invocation.
func dbPath() string {
	return config.ResolveDBPath(dbFlag, cfg)
}

// openStore opens the SQLite database for this invocation.
func openStore() (*store.SQLiteStore, error) {
	path := dbPath()
	s, err := store.New(path,
		store.WithLogger(logger.Named("store")),
		store.WithForeignKeys(cfg.ForeignKeys))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return s, nil
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}
