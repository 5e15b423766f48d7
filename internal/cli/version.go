package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version and Commit are set at build time via -ldflags:
//
//	go build -ldflags "-X github.com/scbrown/maint/internal/cli.Version=v1.0.0
//	  -X github.com/scbrown/maint/internal/cli.Commit=48cae1d" ./cmd/maint
var (
	Version = ""
	Commit  = ""
)

// buildInfo identifies the running binary.
type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Go      string `json:"go"`
}

func (b buildInfo) String() string {
	if b.Commit == "" {
		return "maint " + b.Version
	}
	return fmt.Sprintf("maint %s (%s)", b.Version, b.Commit)
}

// currentBuild fills in what -ldflags left empty from the embedded build info.
func currentBuild() buildInfo {
	b := buildInfo{Version: Version, Commit: Commit, Go: runtime.Version()}
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					b.Commit = s.Value
				}
			}
		}
	}
	b.Commit = shortCommit(b.Commit)
	return b
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and commit hash",
	Long: `Print the maint version and, when known, the commit it was built from.
Builds without a release version report "dev".`,
	Example: `  maint version
  maint version --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := currentBuild()
		if ok, err := writeStructured(os.Stdout, outputFormat(formatTable), b); ok {
			return err
		}
		fmt.Println(b)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// shortCommit returns the first 7 characters of a commit hash.
func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
