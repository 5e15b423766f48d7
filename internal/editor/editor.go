// Package editor hands text to the user's editor and returns what they saved.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// DefaultCommand is used when neither the configuration nor the environment
// names an editor.
const DefaultCommand = "vi"

// Editor returns a user-edited version of initial.
type Editor interface {
	Edit(ctx context.Context, initial string) (string, error)
}

// Resolve picks the editor command: configured, then $VISUAL, then $EDITOR,
// then DefaultCommand.
func Resolve(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return DefaultCommand
}

// Command runs an external editor on a temporary file. Name may include
// arguments, e.g. "code --wait".
type Command struct {
	Name string
	// Suffix is appended to the temporary file name so editors can pick a
	// syntax mode, e.g. ".yaml".
	Suffix string
}

// Edit writes initial to a temporary file, runs the editor on it attached to
// the current terminal, and returns the file contents once the editor exits.
func (c Command) Edit(ctx context.Context, initial string) (string, error) {
	args, err := c.argv()
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "maint-*"+c.Suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %q: %w", c.Name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(data), nil
}

// argv splits Name the way a POSIX shell would, so paths with spaces can be
// quoted. An empty Name runs DefaultCommand.
func (c Command) argv() ([]string, error) {
	args, err := shellquote.Split(c.Name)
	if err != nil {
		return nil, fmt.Errorf("parse editor command %q: %w", c.Name, err)
	}
	if len(args) == 0 {
		return []string{DefaultCommand}, nil
	}
	return args, nil
}

// Static is an Editor that ignores its input and returns Text.
type Static struct {
	Text string
	Err  error
}

// Edit returns s.Text, s.Err.
func (s Static) Edit(context.Context, string) (string, error) {
	return s.Text, s.Err
}

// Func adapts a function to the Editor interface.
type Func func(ctx context.Context, initial string) (string, error)

// Edit calls f.
func (f Func) Edit(ctx context.Context, initial string) (string, error) {
	return f(ctx, initial)
}
