package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/scbrown/maint/internal/store"
)

func seedTwoContracts(e *testEnv) {
	e.seed()
	e.mustRun("add", "customer", "--name", "Globex")
	e.mustRun("add", "contract", "--customer-id", "2", "--start", "2025-01-01", "--end", "2025-06-30", "--points", "2")
	e.mustRun("add", "request", "--contract-id", "2", "-d", "outage", "--date", "2025-03-01")
	e.mustRun("add", "work", "--request-id", "3", "--worker", "bob", "-d", "fix", "--points", "5", "--date", "2025-03-02")
}

func TestStatusTable(t *testing.T) {
	e := newTestEnv(t)
	seedTwoContracts(e)

	out := e.mustRun("status", "--date", "2025-03-02")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "customer1") || strings.Contains(lines[1], "OVER") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Globex") || !strings.Contains(lines[2], "OVER") || !strings.Contains(lines[2], "today") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestStatusOver(t *testing.T) {
	e := newTestEnv(t)
	seedTwoContracts(e)

	var sums []store.ContractSummary
	if err := json.Unmarshal([]byte(e.mustRun("status", "--over", "--date", "2025-12-31", "--json")), &sums); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sums) != 1 || sums[0].Customer != "Globex" || sums[0].Used != 5 || sums[0].Remaining != -3 {
		t.Errorf("summaries = %+v", sums)
	}
}

func TestStatusEmpty(t *testing.T) {
	e := newTestEnv(t)
	if out := e.mustRun("status"); !strings.Contains(out, "No contracts found.") {
		t.Errorf("output = %q", out)
	}
	e.seed()
	if out := e.mustRun("status", "--over"); !strings.Contains(out, "No contracts over budget.") {
		t.Errorf("output = %q", out)
	}
}
