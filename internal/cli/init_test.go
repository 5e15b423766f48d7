package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesDatabase(t *testing.T) {
	e := newTestEnv(t)
	e.db = filepath.Join(filepath.Dir(e.db), "nested", "dir", "maint.db")

	out := e.mustRun("init")
	if !strings.Contains(out, "Database ready at "+e.db) {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Tables: contract, customer, request, work") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(e.db); err != nil {
		t.Fatalf("database not created: %v", err)
	}
}

func TestInitExistingFile(t *testing.T) {
	e := newTestEnv(t)
	// An empty file is a valid, empty SQLite database that is not
	// initialized automatically.
	if err := os.WriteFile(e.db, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.run("list", "customers"); err == nil {
		t.Fatal("expected error listing an uninitialized database")
	}

	e.mustRun("init")
	e.mustRun("add", "customer", "--name", "Acme")
	e.mustRun("init")
	if out := e.mustRun("list", "customers"); !strings.Contains(out, "Acme") {
		t.Errorf("init lost data: %q", out)
	}
}

func TestInitJSON(t *testing.T) {
	e := newTestEnv(t)
	var got struct {
		DBPath string   `json:"db_path"`
		Tables []string `json:"tables"`
	}
	if err := json.Unmarshal([]byte(e.mustRun("init", "--json")), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DBPath != e.db || len(got.Tables) != 4 {
		t.Errorf("got %+v", got)
	}
}
