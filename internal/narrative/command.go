// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrative

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Command pipes the prompt to a local program and returns its stdout.
type Command struct {
	bin     string
	args    []string
	timeout time.Duration
	exec    executor
}

// DefaultCommand is used when no command line is configured.
const DefaultCommand = "claude -p"

// NewCommand parses line into a binary and arguments.
func NewCommand(line string, timeout time.Duration) (*Command, error) {
	return newCommand(line, timeout, osExecutor{})
}

func newCommand(line string, timeout time.Duration, ex executor) (*Command, error) {
	if strings.TrimSpace(line) == "" {
		line = DefaultCommand
	}
	fields := strings.Fields(line)
	return &Command{bin: fields[0], args: fields[1:], timeout: timeout, exec: ex}, nil
}

// Complete runs the command with prompt on stdin.
func (c *Command) Complete(ctx context.Context, prompt string) (string, error) {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return "", fmt.Errorf("narrative command %s not found: %w", c.bin, err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	if err := c.exec.RunPiped(ctx, c.bin, c.args, strings.NewReader(prompt), &out); err != nil {
		return "", fmt.Errorf("running %s: %w", c.bin, err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("%s produced no output", c.bin)
	}
	return text, nil
}
