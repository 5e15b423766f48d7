//go:build integration

// Package integration provides end-to-end tests that exercise the compiled
// maint binary. Tests in this package are excluded from normal `go test ./...`
// runs and require the build tag: go test -tags integration ./internal/integration/
//
// TestMain builds the maint binary once into a temporary directory and makes
// it available via maintBin for all tests. Each test creates an isolated
// maintEnv with its own HOME, config, and database so tests can run in parallel.
package integration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// maintBin holds the path to the compiled maint binary, set once in TestMain.
var maintBin string

// TestMain builds the maint binary and runs all integration tests.
func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "maint-integration-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "integration: create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmp)

	bin := filepath.Join(tmp, "maint")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/maint")
	cmd.Dir = modRoot()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "integration: build maint binary: %v\n", err)
		os.Exit(1)
	}

	maintBin = bin
	os.Exit(m.Run())
}

// modRoot returns the module root directory by walking up from the working
// directory until go.mod is found.
func modRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("integration: getwd: %v", err))
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("integration: could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// maintEnv is an isolated test environment for running maint commands. Each
// instance has its own HOME directory, config file and database. Tests should
// create one via newEnv(t).
type maintEnv struct {
	t       *testing.T
	home    string // isolated HOME directory
	cfgPath string // path to config.toml
	dbPath  string // path to maint.db
	editor  string // value of EDITOR, empty for none
}

// newEnv creates an isolated maintEnv for a single test. The maint config is
// pre-seeded to point at the test database.
func newEnv(t *testing.T) *maintEnv {
	t.Helper()
	home := t.TempDir()

	dir := filepath.Join(home, ".maint")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create .maint dir: %v", err)
	}

	e := &maintEnv{
		t:       t,
		home:    home,
		cfgPath: filepath.Join(dir, "config.toml"),
		dbPath:  filepath.Join(home, "data", "maint.db"),
	}
	e.writeConfig("")
	return e
}

// environ returns the process environment with maint and editor variables
// replaced by the sandboxed ones.
func (e *maintEnv) environ() []string {
	var env []string
	for _, kv := range os.Environ() {
		switch strings.SplitN(kv, "=", 2)[0] {
		case "HOME", "MAINT_CONFIG", "MAINT_DB", "VISUAL", "EDITOR":
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "HOME="+e.home)
	if e.editor != "" {
		env = append(env, "EDITOR="+e.editor)
	}
	return env
}

// run executes `maint <args>` in the test environment and returns stdout,
// stderr and any error. stdin can be provided as a byte slice (nil for no input).
func (e *maintEnv) run(stdin []byte, args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	cmd := exec.Command(maintBin, args...)
	cmd.Env = e.environ()
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// mustRun is like run but calls t.Fatal if the command fails.
func (e *maintEnv) mustRun(args ...string) (stdout, stderr string) {
	e.t.Helper()
	stdout, stderr, err := e.run(nil, args...)
	if err != nil {
		e.t.Fatalf("maint %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout, stderr)
	}
	return stdout, stderr
}

// mustFail is like run but calls t.Fatal if the command succeeds. It returns
// stderr.
func (e *maintEnv) mustFail(args ...string) string {
	e.t.Helper()
	stdout, stderr, err := e.run(nil, args...)
	if err == nil {
		e.t.Fatalf("maint %v succeeded, want failure\nstdout: %s", args, stdout)
	}
	if code := exitCode(err); code != 1 {
		e.t.Fatalf("maint %v exit code = %d, want 1", args, code)
	}
	return stderr
}

// writeConfig writes config.toml with the given extra content. The db_path
// line is always included to keep the database sandboxed.
func (e *maintEnv) writeConfig(extra string) {
	e.t.Helper()
	cfg := fmt.Sprintf("db_path = %q\n%s", e.dbPath, extra)
	if err := os.WriteFile(e.cfgPath, []byte(cfg), 0o644); err != nil {
		e.t.Fatalf("write config: %v", err)
	}
}

// useEditor installs a shell script as EDITOR. The script receives the file
// to edit as $1.
func (e *maintEnv) useEditor(script string) {
	e.t.Helper()
	path := filepath.Join(e.home, "editor.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		e.t.Fatalf("write editor script: %v", err)
	}
	e.editor = path
}

// exitCode extracts the exit code from an exec error. Returns 0 if err is nil.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// runWithEnv is run with extra environment variables appended.
func (e *maintEnv) runWithEnv(extra []string, args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	cmd := exec.Command(maintBin, args...)
	cmd.Env = append(e.environ(), extra...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}
