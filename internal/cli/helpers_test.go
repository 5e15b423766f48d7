package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scbrown/maint/internal/config"
	"github.com/scbrown/maint/internal/editor"
	"github.com/scbrown/maint/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv runs commands against a throwaway database and config file.
type testEnv struct {
	t   *testing.T
	db  string
	cfg string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	e := &testEnv{t: t, db: filepath.Join(dir, "maint.db"), cfg: filepath.Join(dir, "config.toml")}

	oldEditor := newEditor
	configPath = e.cfg
	newEditor = func(string) editor.Editor {
		return editor.Static{Err: errNoEditor}
	}
	t.Cleanup(func() {
		configPath = config.Path()
		newEditor = oldEditor
		cfg = &config.Config{}
	})
	return e
}

var errNoEditor = errors.New("no editor in tests")

// useEditor makes commands edit text with fn.
func (e *testEnv) useEditor(fn func(initial string) (string, error)) {
	newEditor = func(string) editor.Editor {
		return editor.Func(func(_ context.Context, initial string) (string, error) { return fn(initial) })
	}
}

// setConfig writes key=value to the test config file.
func (e *testEnv) setConfig(key, value string) {
	e.t.Helper()
	c, err := config.LoadFrom(e.cfg)
	if err != nil {
		e.t.Fatal(err)
	}
	if err := c.Set(key, value); err != nil {
		e.t.Fatal(err)
	}
	if err := c.SaveTo(e.cfg); err != nil {
		e.t.Fatal(err)
	}
}

// run executes maint with args and the test database, returning what was
// written to stdout and stderr.
func (e *testEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	resetFlags(rootCmd)

	oldOut, oldErr := os.Stdout, os.Stderr
	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	os.Stdout, os.Stderr = outW, errW

	rootCmd.SetArgs(append(args, "--db", e.db))
	err = rootCmd.Execute()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = oldOut, oldErr

	var outBuf, errBuf bytes.Buffer
	outBuf.ReadFrom(outR)
	errBuf.ReadFrom(errR)
	return outBuf.String(), errBuf.String(), err
}

// mustRun is run that fails the test on error and returns stdout.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("maint %v: %v\nstderr: %s", args, err, stderr)
	}
	return stdout
}

// store opens the test database directly.
func (e *testEnv) store() *store.SQLiteStore {
	e.t.Helper()
	s, err := store.New(e.db)
	if err != nil {
		e.t.Fatalf("open store: %v", err)
	}
	e.t.Cleanup(func() { s.Close() })
	return s
}

// exec runs raw SQL against the test database, for rows the store would
// refuse to write.
func (e *testEnv) exec(query string, args ...any) {
	e.t.Helper()
	db, err := sql.Open("sqlite", e.db)
	if err != nil {
		e.t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(query, args...); err != nil {
		e.t.Fatalf("exec %q: %v", query, err)
	}
}

// resetFlags restores every flag in the command tree to its default, since
// cobra keeps flag values in package variables between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// seed adds one customer, a 2025 contract with a 12 point budget, two
// requests and three work entries totalling 6 points.
func (e *testEnv) seed() {
	e.t.Helper()
	e.mustRun("add", "customer", "--name", "customer1")
	e.mustRun("add", "contract", "--customer-id", "1", "--start", "2025-01-01", "--end", "2025-12-31", "--points", "12")
	e.mustRun("add", "request", "--contract-id", "1", "-d", "req1", "--date", "2025-01-01")
	e.mustRun("add", "request", "--contract-id", "1", "-d", "req2", "--date", "2025-12-31")
	e.mustRun("add", "work", "--request-id", "1", "--worker", "alice", "-d", "work1", "--points", "1", "--date", "2025-01-01")
	e.mustRun("add", "work", "--request-id", "1", "--worker", "alice", "-d", "work1-2", "--points", "2", "--date", "2025-01-10")
	e.mustRun("add", "work", "--request-id", "2", "--worker", "alice", "-d", "work2", "--points", "3", "--date", "2025-12-31")
}

// writeConfigText replaces the test config file with raw text.
func (e *testEnv) writeConfigText(text string) {
	e.t.Helper()
	if err := os.WriteFile(e.cfg, []byte(text), 0o644); err != nil {
		e.t.Fatal(err)
	}
}
