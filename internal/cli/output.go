package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/scbrown/maint/internal/record"
	"github.com/scbrown/maint/internal/store"
)

// format is an output rendering.
type format int

const (
	formatTable format = iota
	formatJSON
	formatYAML
)

// outputFormat returns the format selected by flags, falling back to the
// configured default_format.
func outputFormat(fallback format) format {
	switch {
	case jsonOutput:
		return formatJSON
	case yamlOutput:
		return formatYAML
	}
	switch cfg.DefaultFormat {
	case "json":
		return formatJSON
	case "yaml":
		return formatYAML
	case "table":
		return formatTable
	}
	return fallback
}

// writeJSON writes v as indented JSON to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeStructured writes v as JSON or YAML and reports whether it did.
func writeStructured(w io.Writer, f format, v any) (bool, error) {
	switch f {
	case formatJSON:
		return true, writeJSON(w, v)
	case formatYAML:
		return true, record.Write(w, v)
	}
	return false, nil
}

// skipUnreadable prints a warning for every row that could not be decoded
// and returns nil when that is all err carries, so the readable rows are
// still shown. Other errors are returned unchanged.
func skipUnreadable(err error) error {
	bad := store.DecodeErrors(err)
	if bad == nil {
		return err
	}
	for _, de := range bad {
		fmt.Fprintf(os.Stderr, "warning: skipped unreadable row: %v\n", de)
	}
	return nil
}
