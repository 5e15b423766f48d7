//go:build integration

package integration

import (
	"os"
	"strings"
	"testing"
)

// TestSmokeHelp verifies the maint binary runs and prints help.
func TestSmokeHelp(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun("--help")
	if !strings.Contains(stdout, "contracts") {
		t.Errorf("expected help to mention contracts, got:\n%s", stdout)
	}
}

// TestSmokeVersion verifies maint version prints the binary name.
func TestSmokeVersion(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun("version")
	if !strings.HasPrefix(stdout, "maint ") {
		t.Errorf("version output = %q", stdout)
	}
}

// TestSmokeInit verifies maint init creates the database and reports tables.
func TestSmokeInit(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun("init")
	if !strings.Contains(stdout, e.dbPath) {
		t.Errorf("init output missing db path:\n%s", stdout)
	}
	for _, table := range []string{"contract", "customer", "request", "work"} {
		if !strings.Contains(stdout, table) {
			t.Errorf("init output missing table %s:\n%s", table, stdout)
		}
	}
	if _, err := os.Stat(e.dbPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}

	// Running again is safe.
	e.mustRun("init")
}

// TestSmokeAddAndList adds a customer and lists it back.
func TestSmokeAddAndList(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun("add", "customer", "--name", "Acme")
	if !strings.Contains(stdout, "Added 1 customer") {
		t.Errorf("add output = %q", stdout)
	}
	stdout, _ = e.mustRun("list", "customers")
	if !strings.Contains(stdout, "Acme") {
		t.Errorf("list output missing Acme:\n%s", stdout)
	}
}
