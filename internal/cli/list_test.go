package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/scbrown/maint/internal/model"
)

func TestListEmpty(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun("list", "contracts")
	if !strings.Contains(out, "No contract records found.") {
		t.Errorf("output = %q", out)
	}
	if out := e.mustRun("list", "work", "--json"); strings.TrimSpace(out) != "[]" {
		t.Errorf("json output = %q, want []", out)
	}
}

func TestListTable(t *testing.T) {
	e := newTestEnv(t)
	e.seed()

	out := e.mustRun("list", "work")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3:\n%s", len(lines), out)
	}
	for _, h := range []string{"ID", "REQUEST", "DATE", "WORKER", "POINTS", "DESCRIPTION"} {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header missing %s: %q", h, lines[0])
		}
	}
	if !strings.Contains(lines[2], "work1-2") || !strings.Contains(lines[2], "2025-01-10") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestListAcceptsSingularAndPlural(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	for _, arg := range []string{"customer", "customers", "Customers"} {
		if out := e.mustRun("list", arg); !strings.Contains(out, "customer1") {
			t.Errorf("list %s output = %q", arg, out)
		}
	}
	if _, _, err := e.run("list", "invoices"); err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Errorf("list invoices err = %v", err)
	}
}

func TestListJSON(t *testing.T) {
	e := newTestEnv(t)
	e.seed()

	var requests []model.Request
	if err := json.Unmarshal([]byte(e.mustRun("list", "requests", "--json")), &requests); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(requests))
	}
	if requests[1].ID != 2 || requests[1].Description != "req2" || requests[1].RequestDate.String() != "2025-12-31" {
		t.Errorf("request 2 = %+v", requests[1])
	}
}

func TestListYAMLIncludesIDs(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	out := e.mustRun("list", "customers", "--yaml")
	if out != "- id: 1\n  name: customer1\n" {
		t.Errorf("yaml output = %q", out)
	}
}

func TestListDefaultFormatFromConfig(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	e.setConfig("default_format", "json")
	out := e.mustRun("list", "customers")
	if !strings.HasPrefix(strings.TrimSpace(out), "[") {
		t.Errorf("expected JSON output with default_format=json, got %q", out)
	}
	// Flags win over config.
	if out := e.mustRun("list", "customers", "--yaml"); !strings.HasPrefix(out, "- id: 1") {
		t.Errorf("--yaml output = %q", out)
	}
}

func TestListSkipsUnreadableRows(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	e.exec("UPDATE request SET request_date = 'soon' WHERE id = 1")

	stdout, stderr, err := e.run("list", "requests")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(stdout, "req1") || !strings.Contains(stdout, "req2") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "skipped unreadable row") || !strings.Contains(stderr, "request_date") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestJSONAndYAMLAreExclusive(t *testing.T) {
	e := newTestEnv(t)
	if _, _, err := e.run("list", "customers", "--json", "--yaml"); err == nil {
		t.Error("expected error for --json with --yaml")
	}
}
