package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestShortCommit(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"48cae1d7a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9d8", "48cae1d"},
		{"48cae1d", "48cae1d"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortCommit(tt.input); got != tt.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() {
		Version, Commit = origVersion, origCommit
	}()

	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"release build", "v1.0.0", "48cae1d7a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9d8", "maint v1.0.0 (48cae1d)\n"},
		{"dev build", "", "abcdef1234567890", "maint dev (abcdef1)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = tt.version, tt.commit
			e := newTestEnv(t)
			if got := e.mustRun("version"); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersionJSON(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() {
		Version, Commit = origVersion, origCommit
	}()
	Version, Commit = "v1.2.3", "0123456789"

	e := newTestEnv(t)
	var b buildInfo
	if err := json.Unmarshal([]byte(e.mustRun("version", "--json")), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Version != "v1.2.3" || b.Commit != "0123456" || b.Go == "" {
		t.Errorf("build info = %+v", b)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"add", "list", "show", "edit", "usage", "status", "export", "import", "init", "config", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == rootCmd {
			t.Errorf("command %q not registered", name)
			continue
		}
		if cmd.Short == "" {
			t.Errorf("%s: Short description should not be empty", name)
		}
	}
	for _, kind := range []string{"customer", "contract", "request", "work"} {
		for _, parent := range []string{"add", "edit"} {
			cmd, _, err := rootCmd.Find([]string{parent, kind})
			if err != nil || !strings.HasPrefix(cmd.Use, kind) {
				t.Errorf("%s %s not registered", parent, kind)
			}
		}
	}
}
