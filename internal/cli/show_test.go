package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/scbrown/maint/internal/model"
	"github.com/scbrown/maint/internal/store"
)

func TestShowYAML(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	out := e.mustRun("show", "contract", "1")
	for _, want := range []string{"# contract 1\n", "customer_id: 1", "2025-01-01", "2025-12-31", "total_points: 12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\nid:") {
		t.Errorf("YAML view must not carry the id field:\n%s", out)
	}
}

func TestShowJSON(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	var w model.Work
	if err := json.Unmarshal([]byte(e.mustRun("show", "work", "3", "--json")), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.ID != 3 || w.Description != "work2" || w.PointsUsed != 3 {
		t.Errorf("work = %+v", w)
	}
}

func TestShowNotFound(t *testing.T) {
	e := newTestEnv(t)
	for _, kind := range model.Kinds {
		_, _, err := e.run("show", string(kind), "7")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("show %s 7: err = %v, want ErrNotFound", kind, err)
			continue
		}
		if want := string(kind) + " 7: not found"; err.Error() != want {
			t.Errorf("message = %q, want %q", err.Error(), want)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"x", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.in, got, err)
		}
	}
}
